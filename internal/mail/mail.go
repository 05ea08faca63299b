package mail

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional mail (admin sign-in links).
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type SendGridSender struct {
	client *sendgrid.Client
	from   string
}

func NewSendGrid(apiKey, from string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (s *SendGridSender) Send(to, subject, htmlBody string) error {
	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail("", s.from), subject, sgmail.NewEmail("", to), htmlBody, htmlBody)
	resp, err := s.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes the message to the process log instead of delivering it.
// Used when no SendGrid key is configured (local development).
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody string) error {
	log.Printf("[mail] to=%s subject=%q body=%s", to, subject, htmlBody)
	return nil
}
