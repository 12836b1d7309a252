package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"portfolio-backend/config"
)

// Transport error codes. Both map to the same user-facing 503; the code is
// kept for server-side logs.
const (
	CodeAuth       = "auth"
	CodeConnection = "connection"
)

// TransportError classifies failures talking to the SMTP server.
type TransportError struct {
	Code string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mail transport error (%s): %v", e.Code, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer is the outbound mail capability consumed by the contact usecase.
type Mailer interface {
	// IsConfigured reports whether credentials are present. When false, no
	// network call may be attempted.
	IsConfigured() bool
	// Verify confirms connectivity and authentication without sending.
	Verify(ctx context.Context) error
	// Send transmits a single message.
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends email over SMTP with STARTTLS and PLAIN auth
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	timeout  time.Duration
}

// NewSMTPMailer creates a mailer from the loaded configuration
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	timeout := cfg.MailTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		timeout:  timeout,
	}
}

// IsConfigured checks if the mailer has valid SMTP credentials
func (s *SMTPMailer) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// connect dials the server, negotiates STARTTLS and authenticates.
// The connection deadline is the earlier of the configured timeout and the
// context deadline, so a hung server surfaces as a connection error instead
// of blocking the request.
func (s *SMTPMailer) connect(ctx context.Context) (*smtp.Client, error) {
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	addr := net.JoinHostPort(s.host, s.port)
	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return nil, &TransportError{Code: CodeConnection, Err: err}
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return nil, &TransportError{Code: CodeConnection, Err: err}
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			client.Close()
			return nil, &TransportError{Code: CodeConnection, Err: err}
		}
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, &TransportError{Code: CodeAuth, Err: err}
	}

	return client, nil
}

// Verify confirms the server is reachable and the credentials are accepted.
// No message is transmitted.
func (s *SMTPMailer) Verify(ctx context.Context) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

// Send transmits one message over a fresh authenticated connection
func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(msg.From); err != nil {
		return &TransportError{Code: CodeConnection, Err: err}
	}
	if err := client.Rcpt(msg.To); err != nil {
		return &TransportError{Code: CodeConnection, Err: err}
	}

	w, err := client.Data()
	if err != nil {
		return &TransportError{Code: CodeConnection, Err: err}
	}
	if _, err := w.Write(buildMIME(msg)); err != nil {
		w.Close()
		return &TransportError{Code: CodeConnection, Err: err}
	}
	if err := w.Close(); err != nil {
		return &TransportError{Code: CodeConnection, Err: err}
	}

	return client.Quit()
}

// buildMIME constructs the raw HTML email
func buildMIME(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
