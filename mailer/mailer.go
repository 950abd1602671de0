package mailer

import (
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/JTTomasCH/Logicoders/config"
)

// Message is one outbound mail. Attachment is optional.
type Message struct {
	To         string
	Subject    string
	HTML       string
	Attachment *Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mailer sends mail. Handlers depend on this interface so tests can stub
// the SMTP transport away.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer delivers through the configured SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTP(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.FromEmail,
	}
}

func (s *SMTPMailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("no recipient address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, "LogiCoders"))
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if att := msg.Attachment; att != nil {
		m.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}))
	}

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", msg.To, err)
	}
	return nil
}
