package notification

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"time"

	"storefront-api/config"
)

// SMTPSender delivers mail over plain SMTP. The host/port/credentials are
// resolved once at startup from the configured transport.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender maps the configured transport name onto its SMTP
// endpoint: mailtrap, ethereal, brevo, sendgrid, or the gmail fallback.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	s := &SMTPSender{from: cfg.EmailFrom}

	switch cfg.EmailService {
	case "mailtrap":
		s.host, s.port = "smtp.mailtrap.io", "2525"
		s.username, s.password = cfg.MailtrapUser, cfg.MailtrapPass
	case "ethereal":
		s.host, s.port = "smtp.ethereal.email", "587"
		s.username, s.password = cfg.EtherealUser, cfg.EtherealPass
	case "brevo":
		s.host, s.port = "smtp-relay.brevo.com", "587"
		s.username, s.password = cfg.BrevoUser, cfg.BrevoAPIKey
	case "sendgrid":
		s.host, s.port = "smtp.sendgrid.net", "587"
		s.username, s.password = "apikey", cfg.SendgridKey
	default:
		s.host, s.port = "smtp.gmail.com", "587"
		s.username, s.password = cfg.GmailUser, cfg.GmailPass
	}

	if s.username == "" || s.password == "" {
		return nil, fmt.Errorf("email credentials not set for transport %q", cfg.EmailService)
	}
	return s, nil
}

func (s *SMTPSender) SendEmail(_ context.Context, to, subject, htmlBody string, attachments []Attachment) (SendResult, error) {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg, err := s.buildMessage(to, subject, htmlBody, attachments)
	if err != nil {
		return SendResult{}, err
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

const mimeBoundary = "storefront-mail-boundary"

func (s *SMTPSender) buildMessage(to, subject, htmlBody string, attachments []Attachment) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", s.from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		buf.WriteString(htmlBody)
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	for _, att := range attachments {
		data, err := os.ReadFile(att.Path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", att.Path, err)
		}

		contentType := mime.TypeByExtension(filepath.Ext(att.Filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename)

		encoded := base64.StdEncoding.EncodeToString(data)
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes(), nil
}
