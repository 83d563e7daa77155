package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"placerly/contexts/estate-transition/executor-delegation/ports"
)

// SMTP delivers transactional mail over an authenticated SMTP relay.
// It satisfies the executor-delegation NotificationGateway port.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var _ ports.NotificationGateway = SMTP{}

func (s SMTP) Send(ctx context.Context, message ports.Message) error {
	if message.To == "" {
		return errors.New("mail recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", message.To)
	m.SetHeader("Subject", message.Subject)
	m.SetBody("text/html", message.HTMLBody)

	dialer := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", s.Host, s.Port, err)
	}
	return nil
}
