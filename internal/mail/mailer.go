package mail

import (
	"fmt"
	"net/smtp"

	"growlokal/internal/config"
)

// Mailer is the outbound email contract; handlers depend on it so tests can
// substitute a recording fake.
type Mailer interface {
	SendMagicLink(to, link string) error
	SendPasswordReset(to, link string) error
}

type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.EmailFrom,
		password: cfg.EmailPassword,
	}
}

func (m *SMTPMailer) SendMagicLink(to, link string) error {
	body := fmt.Sprintf(`<html><body>
<h2>Verify your email</h2>
<p>Welcome to GrowLokal! Click the button below to verify your email address.
This link expires in 1 hour.</p>
<p><a href="%s">Verify Email</a></p>
<p>If you did not create an account, you can ignore this message.</p>
</body></html>`, link)
	return m.send(to, "Verify your email - GrowLokal", body)
}

func (m *SMTPMailer) SendPasswordReset(to, link string) error {
	body := fmt.Sprintf(`<html><body>
<h2>Reset your password</h2>
<p>We received a request to reset your GrowLokal password.
The link below expires in 1 hour and can be used once.</p>
<p><a href="%s">Reset Password</a></p>
<p>If you did not request this, you can ignore this message.</p>
</body></html>`, link)
	return m.send(to, "Reset your password - GrowLokal", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("smtp: host not configured")
	}
	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	msg := []byte(
		"From: \"GrowLokal\" <" + m.from + ">\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
