package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tidbyt.dev/departures/config"
)

// A plain text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Bytes renders the message as sent on the wire, with CRLF line
// endings and the body left otherwise unchanged.
func (m *Message) Bytes(now time.Time) []byte {
	b := &strings.Builder{}

	fmt.Fprintf(b, "From: %s\r\n", m.From)
	fmt.Fprintf(b, "To: %s\r\n", m.To)
	fmt.Fprintf(b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(m.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return []byte(b.String())
}

type Mailer interface {
	Send(ctx context.Context, m *Message) error
}

type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Delivers messages through an SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	Logger   *zap.SugaredLogger

	// Replaceable for tests.
	SendMail SendMailFunc
	TimeNow  func() time.Time
}

func NewSMTPMailer(cfg config.MailConfig, logger *zap.SugaredLogger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SMTPMailer{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Logger:   logger,
		SendMail: smtp.SendMail,
		TimeNow:  time.Now,
	}
}

// Builds the message for a report using the configured sender,
// recipient and subject.
func NewMessage(cfg config.MailConfig, body string) (*Message, error) {
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("mail sender and recipient are required")
	}

	subject := cfg.Subject
	if subject == "" {
		subject = config.DefaultMailSubject
	}

	return &Message{
		From:    cfg.From,
		To:      cfg.To,
		Subject: subject,
		Body:    body,
	}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, m *Message) error {
	if s.Host == "" {
		return fmt.Errorf("mail host is not configured")
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	s.Logger.Debugw("sending mail", "addr", addr, "to", m.To, "subject", m.Subject)

	done := make(chan error, 1)
	go func() {
		done <- s.SendMail(addr, auth, m.From, []string{m.To}, m.Bytes(s.TimeNow()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending mail to %s: %w", m.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
