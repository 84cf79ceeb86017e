package mail

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer sends through the SendGrid v3 mail API.
type SendGridMailer struct {
	apiKey   string
	endpoint string
}

// SendGridOption customizes a SendGridMailer.
type SendGridOption func(*SendGridMailer)

// WithSendGridEndpoint overrides the API URL, mostly for tests.
func WithSendGridEndpoint(url string) SendGridOption {
	return func(s *SendGridMailer) {
		s.endpoint = url
	}
}

// NewSendGrid returns a SendGrid mailer for apiKey.
func NewSendGrid(apiKey string, opts ...SendGridOption) *SendGridMailer {
	s := &SendGridMailer{apiKey: apiKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts msg to the API. A client is built per call because the
// SendGrid client stores the request body on itself.
func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	client := sendgrid.NewSendClient(s.apiKey)
	if s.endpoint != "" {
		client.BaseURL = s.endpoint
	}

	resp, err := client.SendWithContext(ctx, toSendGrid(msg))
	if err != nil {
		return fmt.Errorf("mail: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail: sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}

func toSendGrid(msg Message) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(msg.FromName, msg.FromAddress))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgmail.NewEmail("", cc))
	}
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))

	for _, a := range msg.Attachments {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}
	return m
}
