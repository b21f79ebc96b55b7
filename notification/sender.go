package notification

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Attachment is a file to attach to an outgoing email.
type Attachment struct {
	Filename string
	Path     string
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string, attachments []Attachment) (SendResult, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, msg string) (SendResult, error)
}
