package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"sync"
	"teamplan/internal/config"
	"teamplan/internal/models"
)

// Notifier defines the delivery capability for challenge codes and
// recovery notices. Delivery always targets the account's verified
// address; callers never choose the destination.
type Notifier interface {
	SendOperationCode(to, username string, opType models.OperationType, code string) error
	SendUsernameRecovery(to, username string) error
}

var operationSubjects = map[models.OperationType]string{
	models.OperationPasswordChange:   "Confirm Your Password Change",
	models.OperationPasswordReset:    "Confirm Your Password Reset",
	models.OperationUsernameRecovery: "Confirm Your Username Recovery",
	models.OperationEmailVerify:      "Verify Your Email Address",
	models.OperationProviderLink:     "Confirm Linking a Sign-In Provider",
	models.OperationProviderUnlink:   "Confirm Unlinking a Sign-In Provider",
}

// Service implements the Notifier interface over SMTP
type Service struct {
	config config.EmailConfig
	client *smtp.Client
	mu     sync.Mutex
}

func NewService(cfg config.EmailConfig) *Service {
	return &Service{
		config: cfg,
		client: nil,
	}
}

// conn returns a live SMTP connection. Callers must hold s.mu.
func (s *Service) conn() (*smtp.Client, error) {
	// Reuse existing connection if it's still alive
	if s.client != nil {
		if err := s.client.Noop(); err == nil {
			return s.client, nil
		}
		// Connection is dead, close it
		s.client.Close()
		s.client = nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	if err := client.Auth(smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to authenticate with SMTP server: %w", err)
	}

	s.client = client
	return client, nil
}

// sendMail sends an email using a pooled SMTP connection. The lock is
// held for the whole transaction so concurrent sends cannot interleave
// MAIL/RCPT/DATA on the shared connection.
func (s *Service) sendMail(to []string, msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.conn()
	if err != nil {
		return err
	}

	if err := client.Mail(s.config.SMTPUsername); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}

	return nil
}

// Close closes the SMTP connection
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		err := s.client.Quit()
		s.client = nil
		return err
	}
	return nil
}

func (s *Service) checkConfig() error {
	if s.config.SMTPHost == "" || s.config.SMTPPort == 0 || s.config.SMTPUsername == "" ||
		s.config.SMTPPassword == "" || s.config.FromAddress == "" {
		return fmt.Errorf("incomplete email configuration")
	}
	return nil
}

func (s *Service) compose(to, subject string, tmplText string, data map[string]string) ([]byte, error) {
	tmpl, err := template.New("message").Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", to, s.config.FromAddress, subject, body.String())

	return []byte(msg), nil
}

// SendOperationCode delivers a 6-digit challenge code for the given
// operation type to the account's verified address.
func (s *Service) SendOperationCode(to, username string, opType models.OperationType, code string) error {
	if err := s.checkConfig(); err != nil {
		return err
	}

	subject, ok := operationSubjects[opType]
	if !ok {
		subject = "Confirm Your Account Change"
	}

	msg, err := s.compose(to, subject, `
		<h2>Hello {{.Username}},</h2>
		<p>Your verification code is:</p>
		<h1 style="letter-spacing: 0.3em;">{{.Code}}</h1>
		<p>The code expires in {{.TTL}} minutes and can be used once.</p>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, map[string]string{
		"Username": username,
		"Code":     code,
		"TTL":      fmt.Sprintf("%d", s.config.CodeTTLMinutes),
	})
	if err != nil {
		return err
	}

	log.Printf("Sending %s code to %s via SMTP server %s:%d", opType, to, s.config.SMTPHost, s.config.SMTPPort)
	if err := s.sendMail([]string{to}, msg); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

// SendUsernameRecovery delivers the account's username to its verified
// address. Nothing is returned to the requester synchronously.
func (s *Service) SendUsernameRecovery(to, username string) error {
	if err := s.checkConfig(); err != nil {
		return err
	}

	msg, err := s.compose(to, "Your Username", `
		<h2>Hello,</h2>
		<p>You asked us to remind you of your username. It is:</p>
		<p><strong>{{.Username}}</strong></p>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, map[string]string{
		"Username": username,
	})
	if err != nil {
		return err
	}

	if err := s.sendMail([]string{to}, msg); err != nil {
		return fmt.Errorf("failed to send username recovery email: %w", err)
	}
	return nil
}
