package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{
		FromName:    "Pre-consultation Form",
		FromAddress: "clinic-sender@example.com",
		To:          []string{"clinic@example.com"},
		Cc:          []string{"patient@example.com"},
		Subject:     "Pre-consultation intake: Ana Souza (14-10-2026)",
		Body:        "The pre-consultation PDF is attached.",
		Attachments: []Attachment{{
			Filename:    "pre-consulta-Ana_Souza-14-10-2026.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.3 stub"),
		}},
	}
}

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Message)
	}{
		{"missing sender", func(m *Message) { m.FromAddress = " " }},
		{"missing recipient", func(m *Message) { m.To = nil }},
		{"missing subject", func(m *Message) { m.Subject = "" }},
		{"empty attachment", func(m *Message) { m.Attachments[0].Data = nil }},
		{"unnamed attachment", func(m *Message) { m.Attachments[0].Filename = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(&msg)
			assert.ErrorIs(t, msg.Validate(), ErrInvalidMessage)
		})
	}

	assert.NoError(t, validMessage().Validate())
}

func TestOpen(t *testing.T) {
	m, err := Open(Options{Driver: "LOG"})
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = Open(Options{Driver: DriverSendGrid, SendGridAPIKey: "key"})
	require.NoError(t, err)
	assert.IsType(t, &SendGridMailer{}, m)

	m, err = Open(Options{Driver: DriverSMTP, SMTP: SMTPConfig{Host: "smtp.example.com"}})
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = Open(Options{Driver: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := NewLog(logger)

	require.NoError(t, m.Send(context.Background(), validMessage()))

	out := buf.String()
	assert.Contains(t, out, `"to_count":1`)
	assert.Contains(t, out, `"cc_count":1`)
	assert.Contains(t, out, `"attachment_count":1`)
	assert.Contains(t, out, `"attachment_bytes":13`)
	assert.NotContains(t, out, "patient@example.com")
	assert.NotContains(t, out, "Ana")
}

func TestLogMailer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLog(nil).Send(ctx, validMessage()), context.Canceled)
}

func TestNewSMTP(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{})
	assert.Error(t, err)

	_, err = NewSMTP(SMTPConfig{Host: "smtp.example.com", TLSPolicy: "sometimes"})
	assert.Error(t, err)

	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com"})
	require.NoError(t, err)
	assert.Equal(t, 587, s.cfg.Port)
}

func TestBuildMsg(t *testing.T) {
	m, err := buildMsg(validMessage())
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"clinic@example.com", "patient@example.com"}, rcpts)
	require.Len(t, m.GetAttachments(), 1)
	assert.Equal(t, "pre-consulta-Ana_Souza-14-10-2026.pdf", m.GetAttachments()[0].Name)
}

func TestBuildMsg_RejectsMalformedAddress(t *testing.T) {
	msg := validMessage()
	msg.Cc = []string{"not an address"}
	_, err := buildMsg(msg)
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: 1, DialTimeout: time.Second})
	require.NoError(t, err)

	err = s.Send(context.Background(), validMessage())
	assert.Error(t, err)
}

func TestSendGridMailer(t *testing.T) {
	var payload map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGrid("sg-test-key", WithSendGridEndpoint(srv.URL))
	require.NoError(t, m.Send(context.Background(), validMessage()))

	assert.Equal(t, "Bearer sg-test-key", auth)
	assert.Equal(t, "Pre-consultation intake: Ana Souza (14-10-2026)", payload["subject"])

	atts, ok := payload["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, atts, 1)
	att := atts[0].(map[string]any)
	assert.Equal(t, "application/pdf", att["type"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.3 stub")), att["content"])

	pers := payload["personalizations"].([]any)[0].(map[string]any)
	assert.Len(t, pers["to"], 1)
	assert.Len(t, pers["cc"], 1)
}

func TestSendGridMailer_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := NewSendGrid("wrong", WithSendGridEndpoint(srv.URL))
	err := m.Send(context.Background(), validMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.NotContains(t, err.Error(), "wrong")
}
