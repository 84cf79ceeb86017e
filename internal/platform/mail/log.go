package mail

import (
	"context"
	"log/slog"
)

// LogMailer records recipient and attachment counts for each message and
// delivers nothing. Subjects and filenames carry the patient name and are
// never logged. Intended for local development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLog returns a LogMailer. A nil logger uses slog.Default.
func NewLog(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	size := 0
	for _, a := range msg.Attachments {
		size += len(a.Data)
	}
	l.logger.InfoContext(ctx, "mail not delivered (log driver)",
		"to_count", len(msg.To),
		"cc_count", len(msg.Cc),
		"attachment_count", len(msg.Attachments),
		"attachment_bytes", size,
	)
	return nil
}
