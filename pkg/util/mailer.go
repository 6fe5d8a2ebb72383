package util

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/clozet/clozet-backend/pkg/logger"
)

// Mailer delivers one-time codes by email.
type Mailer interface {
	SendLoginCode(ctx context.Context, toEmail, code string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewMailer returns an SMTP mailer, or a dev-mode mailer that only logs when SMTP is not configured.
func NewMailer(cfg SMTPConfig) Mailer {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		logger.Warn("SMTP not configured, login codes will be logged instead of emailed")
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func (m *SMTPMailer) SendLoginCode(ctx context.Context, toEmail, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "Your Clozet login code"
	body := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>Sign in to Clozet</h2>
	<p>Enter this code to continue:</p>
	<p style="font-size: 32px; letter-spacing: 6px;"><strong>%s</strong></p>
	<p style="color: #999;">The code expires in 5 minutes. If you did not request it, ignore this email.</p>
</body>
</html>`, code)

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.From, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.Username, []string{toEmail}, message); err != nil {
		return fmt.Errorf("send login code email: %w", err)
	}
	return nil
}

// LogMailer is used in development: the code goes to the log instead of an inbox.
type LogMailer struct{}

func (LogMailer) SendLoginCode(_ context.Context, toEmail, code string) error {
	logger.Info("[DEV MODE] login code", map[string]interface{}{
		"to":       toEmail,
		"dev_code": code,
	})
	return nil
}
