package external

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer отправляет регистрационные письма через SMTP
type SMTPMailer struct {
	addr          string
	from          string
	auth          smtp.Auth
	inviteBaseURL string
}

// NewSMTPMailer создает новый SMTPMailer.
// При пустом username аутентификация не используется (локальный relay).
func NewSMTPMailer(host string, port int, username, password, from, inviteBaseURL string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr:          fmt.Sprintf("%s:%d", host, port),
		from:          from,
		auth:          auth,
		inviteBaseURL: strings.TrimRight(inviteBaseURL, "/"),
	}
}

// SendVerification отправляет письмо подтверждения адреса
func (m *SMTPMailer) SendVerification(ctx context.Context, email string) error {
	body := "Welcome! Please confirm your email address to finish registration."
	if err := m.send(email, "Confirm your email", body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// SendInvitation отправляет письмо с приглашением в команду.
// false без ошибки не возвращается: любой сбой SMTP виден как ошибка.
func (m *SMTPMailer) SendInvitation(ctx context.Context, email, token string) (bool, error) {
	body := fmt.Sprintf(
		"You have been invited to join a team. Accept the invitation: %s/join?invite=%s",
		m.inviteBaseURL, token,
	)
	if err := m.send(email, "You are invited", body); err != nil {
		return false, fmt.Errorf("send invitation email: %w", err)
	}
	return true, nil
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}
