// Package notify delivers run outcome alerts to operators over SMTP.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strconv"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// Config holds SMTP settings for outcome notifications.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// LoadFromEnvironment reads SMTP settings from the environment:
// EMAIL_HOST, EMAIL_PORT, EMAIL_USER, EMAIL_PASS, ALERT_RECIPIENT.
// The sender address defaults to EMAIL_USER.
func LoadFromEnvironment() Config {
	port := orderpipe.DefaultSMTPPort
	if raw := os.Getenv("EMAIL_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			port = p
		}
	}

	user := os.Getenv("EMAIL_USER")
	return Config{
		Host:      os.Getenv("EMAIL_HOST"),
		Port:      port,
		Username:  user,
		Password:  os.Getenv("EMAIL_PASS"),
		From:      user,
		Recipient: os.Getenv("ALERT_RECIPIENT"),
	}
}

// Enabled reports whether the configuration is complete enough to send mail.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Recipient != ""
}

// sendFunc matches smtp.SendMail so tests can intercept delivery.
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Mailer implements orderpipe.Notifier by sending plain text email via SMTP
// with STARTTLS when the server offers it.
type Mailer struct {
	config Config
	logger orderpipe.Logger
	send   sendFunc
}

// NewMailer creates a Mailer. Panics if logger is nil.
func NewMailer(config Config, logger orderpipe.Logger) *Mailer {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Mailer{
		config: config,
		logger: logger,
		send:   smtp.SendMail,
	}
}

var _ orderpipe.Notifier = (*Mailer)(nil)

// NotifySuccess reports a committed run.
func (m *Mailer) NotifySuccess(ctx context.Context, summary orderpipe.LoadSummary) error {
	subject, body := FormatSuccess(summary)
	return m.deliver(ctx, subject, body)
}

// NotifyFailure reports a failed run together with its cause.
func (m *Mailer) NotifyFailure(ctx context.Context, summary orderpipe.LoadSummary, runErr error) error {
	subject, body := FormatFailure(summary, runErr)
	return m.deliver(ctx, subject, body)
}

func (m *Mailer) deliver(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.config.From, m.config.Recipient, subject, body,
	))

	m.logger.Verbose("Sending notification %q to %s via %s", subject, m.config.Recipient, addr)

	if err := m.send(addr, auth, m.config.From, []string{m.config.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	return nil
}

// Noop is a Notifier that does nothing. Used when notifications are
// disabled or not configured.
type Noop struct{}

var _ orderpipe.Notifier = (*Noop)(nil)

func (Noop) NotifySuccess(ctx context.Context, summary orderpipe.LoadSummary) error {
	return nil
}

func (Noop) NotifyFailure(ctx context.Context, summary orderpipe.LoadSummary, runErr error) error {
	return nil
}
