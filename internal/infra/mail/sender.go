package mail

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewTicketSender(host string, port int, user, password, from, templatePath string) *TicketSender {
	if from == "" {
		from = user
	}
	return &TicketSender{
		Host:         host,
		Port:         port,
		User:         user,
		Password:     password,
		From:         from,
		TemplatePath: templatePath,
	}
}

// Validate checks the SMTP account before any dial is attempted. A sender
// without credentials would otherwise fail once per entry, deep in a run.
func (s *TicketSender) Validate() error {
	if s.User == "" || s.Password == "" {
		return errors.New("missing mail environment variables: set GMAIL_USER and GMAIL_APP_PASSWORD")
	}
	return nil
}

// SendTicket emails one personalized confirmation with the pre-generated
// ticket image attached inline. The embed's Content-ID is its base filename,
// "<registrationNumber>.png", which the template references as cid.
func (s *TicketSender) SendTicket(to, name, registrationNumber, ticketPath string) error {
	body, err := s.renderBody(TicketEmailData{
		Name:               name,
		RegistrationNumber: registrationNumber,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Garba Ticket")
	m.SetBody("text/html", body)
	m.Embed(ticketPath)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send via SMTP: %w", err)
	}

	return nil
}

func (s *TicketSender) renderBody(data TicketEmailData) (string, error) {
	t, err := template.ParseFiles(s.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("read email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return body.String(), nil
}
