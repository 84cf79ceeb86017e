// Package mail provides the outbound email transports. Callers build a
// Message and hand it to a Mailer; drivers differ only in delivery.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverSMTP     = "smtp"
	DriverSendGrid = "sendgrid"
	DriverLog      = "log"
)

var (
	// ErrInvalidMessage marks messages rejected before any delivery attempt.
	ErrInvalidMessage = errors.New("mail: invalid message")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("mail: unknown driver")
)

// Attachment is a named binary part.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound email.
type Message struct {
	FromName    string
	FromAddress string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Validate checks the fields every driver requires.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.FromAddress) == "":
		return fmt.Errorf("%w: sender address is required", ErrInvalidMessage)
	case len(m.To) == 0:
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	for _, a := range m.Attachments {
		if a.Filename == "" || len(a.Data) == 0 {
			return fmt.Errorf("%w: attachment needs a filename and content", ErrInvalidMessage)
		}
	}
	return nil
}

// Mailer delivers one message per call. Implementations make a single
// attempt and honor ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Options selects and configures a driver.
type Options struct {
	Driver         string
	SMTP           SMTPConfig
	SendGridAPIKey string
	Logger         *slog.Logger
}

// Open builds the Mailer for opts.Driver.
func Open(opts Options) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverSMTP:
		return NewSMTP(opts.SMTP)
	case DriverSendGrid:
		return NewSendGrid(opts.SendGridAPIKey), nil
	case DriverLog:
		return NewLog(opts.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
