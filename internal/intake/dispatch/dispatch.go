// Package dispatch turns a rendered intake document into one outbound email.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"intake/internal/intake"
	"intake/internal/intake/document"
	"intake/internal/locale"
	"intake/internal/platform/mail"
	dErrors "intake/pkg/domain-errors"
	platformstrings "intake/pkg/platform/strings"
	"intake/pkg/requestcontext"
)

// StampLayout is the DD-MM-YYYY date stamp used in subjects and filenames.
const StampLayout = "02-01-2006"

const (
	attachmentType = "application/pdf"
	defaultTimeout = 30 * time.Second
	filenamePrefix = "pre-consulta-"
	filenameSuffix = ".pdf"
)

//go:generate mockgen -source=dispatch.go -destination=mocks/dispatch-mocks.go -package=mocks Mailer

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Config holds the fixed envelope settings. Recipient never comes from
// the submission.
type Config struct {
	Recipient   string
	FromName    string
	FromAddress string
	SendTimeout time.Duration
}

// Dispatcher sends intake documents to the clinic.
type Dispatcher struct {
	cfg     Config
	mailer  Mailer
	catalog locale.Catalog
	logger  *slog.Logger
}

// New returns a Dispatcher. An empty FromName falls back to the catalog's
// sender name.
func New(cfg Config, mailer Mailer, cat locale.Catalog, logger *slog.Logger) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultTimeout
	}
	if cfg.FromName == "" {
		cfg.FromName = cat.FromName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{cfg: cfg, mailer: mailer, catalog: cat, logger: logger}
}

// Send makes exactly one delivery attempt. Any transport failure, including
// the send timeout expiring, yields a Failed outcome.
func (d *Dispatcher) Send(ctx context.Context, sub *intake.Submission, art *document.Artifact, at time.Time) intake.Outcome {
	if sub == nil || art == nil {
		return intake.Failed(dErrors.New(dErrors.CodeDispatch, "nothing to send"))
	}

	msg := d.Message(sub, art, at)

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	if err := d.mailer.Send(sendCtx, msg); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("send timed out after %s: %w", d.cfg.SendTimeout, err)
		}
		d.logger.ErrorContext(ctx, "intake dispatch failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return intake.Failed(dErrors.Wrap(err, dErrors.CodeDispatch, "failed to send intake document"))
	}

	d.logger.InfoContext(ctx, "intake dispatched",
		"request_id", requestcontext.RequestID(ctx),
		"cc", len(msg.Cc) > 0,
		"attachment_bytes", art.Size(),
	)
	return intake.Sent()
}

// Message builds the email for sub without sending it.
func (d *Dispatcher) Message(sub *intake.Submission, art *document.Artifact, at time.Time) mail.Message {
	stamp := at.Format(StampLayout)
	msg := mail.Message{
		FromName:    d.cfg.FromName,
		FromAddress: d.cfg.FromAddress,
		To:          []string{d.cfg.Recipient},
		Subject:     d.catalog.Subject(sub.FullName, stamp),
		Body:        d.catalog.MailBody,
		Attachments: []mail.Attachment{{
			Filename:    Filename(sub.FullName, at),
			ContentType: attachmentType,
			Data:        art.Bytes(),
		}},
	}
	if sub.HasEmail() {
		msg.Cc = []string{sub.Email}
	}
	return msg
}

// Filename derives the attachment name from the patient's name and the
// submission date. Whitespace runs become a single underscore.
func Filename(fullName string, at time.Time) string {
	return filenamePrefix + platformstrings.CollapseSpace(fullName, "_") + "-" + at.Format(StampLayout) + filenameSuffix
}
