package mailer

import (
	"fmt"
	"net/smtp"

	"digistore/internal/pkg/config"
)

// Mailer sends transactional mail (order confirmations, payment receipts).
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct{}

// NewMailer returns the SMTP mailer configured from config.SMTP.
func NewMailer() Mailer {
	return &smtpMailer{}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	cfg := config.GlobalConfig.SMTP
	if cfg.Host == "" {
		return fmt.Errorf("smtp not configured")
	}
	addr := cfg.Host + ":" + cfg.Port

	msg := "From: " + cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	// local relays (MailHog etc.) take no auth
	return smtp.SendMail(addr, nil, cfg.From, []string{to}, []byte(msg))
}
