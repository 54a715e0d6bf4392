// Package mailer provides SMTP delivery for the notification emails the
// dashboard sends when an access request is decided.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/foundation/logger"
	mail "github.com/go-mail/mail"
)

// Config defines the SMTP settings for delivery.
type Config struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// Mailer sends notification emails over SMTP.
type Mailer struct {
	log *logger.Logger
	cfg Config
}

// New constructs a Mailer for use.
func New(log *logger.Logger, cfg Config) *Mailer {
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}

	return &Mailer{
		log: log,
		cfg: cfg,
	}
}

// SendApproval notifies a requester that access was granted, including the
// new API key and its expiry.
func (m *Mailer) SendApproval(ctx context.Context, to string, labName string, datasetName string, apiKey string, expiresAt time.Time) error {
	subject := fmt.Sprintf("Access granted: %s", datasetName)

	text := fmt.Sprintf(
		"Hello %s,\n\nYour request for access to the dataset %q has been approved.\n\nAPI key: %s\nValid until: %s\n\nKeep this key secret. It authorizes downloads on your behalf.\n",
		labName, datasetName, apiKey, expiresAt.Format(time.RFC1123),
	)

	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your request for access to the dataset <b>%s</b> has been approved.</p><p>API key: <code>%s</code><br>Valid until: %s</p><p>Keep this key secret. It authorizes downloads on your behalf.</p>",
		labName, datasetName, apiKey, expiresAt.Format(time.RFC1123),
	)

	return m.send(ctx, to, subject, html, text)
}

// SendRejection notifies a requester that access was declined.
func (m *Mailer) SendRejection(ctx context.Context, to string, labName string, datasetName string, reason string) error {
	subject := fmt.Sprintf("Access declined: %s", datasetName)

	if reason == "" {
		reason = "The owner did not provide a reason."
	}

	text := fmt.Sprintf(
		"Hello %s,\n\nYour request for access to the dataset %q has been declined.\n\n%s\n",
		labName, datasetName, reason,
	)

	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your request for access to the dataset <b>%s</b> has been declined.</p><p>%s</p>",
		labName, datasetName, reason,
	)

	return m.send(ctx, to, subject, html, text)
}

func (m *Mailer) send(ctx context.Context, to string, subject string, htmlBody string, textBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         m.cfg.Host,
		InsecureSkipVerify: m.cfg.InsecureSkipVerify,
	}

	switch m.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: m.cfg.InsecureSkipVerify}
	default:
		// "auto"/"starttls": STARTTLS is negotiated when the server offers it.
	}

	if err := d.DialAndSend(msg); err != nil {
		m.log.Error(ctx, "mailer", "status", "send failed", "to", to, "subject", subject, "err", err)
		return fmt.Errorf("smtp send: %w", err)
	}

	m.log.Info(ctx, "mailer", "status", "sent", "to", to, "subject", subject)

	return nil
}
