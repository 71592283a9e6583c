package sendemail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"incubator/pkg/config"
)

// ErrDisabled is returned when no SendGrid API key is configured.
var ErrDisabled = errors.New("email delivery disabled")

type EmailService interface {
	SendEmail(ctx context.Context, subject, toEmail, plainTextContent, htmlContent string) error
}

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client      sender
	senderEmail string
	senderName  string
}

func NewEmailService(cfg config.Config) EmailService {
	if cfg.SendGridAPIKey == "" {
		return disabledService{}
	}
	return &emailService{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		senderEmail: cfg.SendGridSenderEmail,
		senderName:  cfg.SendGridSenderName,
	}
}

func (e *emailService) SendEmail(ctx context.Context, subject, toEmail, plainTextContent, htmlContent string) error {
	from := mail.NewEmail(e.senderName, e.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	resp, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

type disabledService struct{}

func (disabledService) SendEmail(context.Context, string, string, string, string) error {
	return ErrDisabled
}

// Mailer renders the platform's transactional emails.
type Mailer struct {
	svc    EmailService
	logger logrus.FieldLogger
}

func NewMailer(svc EmailService, logger logrus.FieldLogger) *Mailer {
	return &Mailer{svc: svc, logger: logger.WithField("component", "mailer")}
}

func (m *Mailer) SendRegistrationConfirmation(ctx context.Context, to, founderName, startupName string) error {
	subject, text, html := registrationEmail(founderName, startupName)
	return m.send(ctx, to, subject, text, html)
}

func (m *Mailer) SendDecision(ctx context.Context, to, founderName, startupName string, approved bool) error {
	subject, text, html := decisionEmail(founderName, startupName, approved)
	return m.send(ctx, to, subject, text, html)
}

func (m *Mailer) send(ctx context.Context, to, subject, text, html string) error {
	err := m.svc.SendEmail(ctx, subject, to, text, html)
	if errors.Is(err, ErrDisabled) {
		m.logger.WithField("to", to).Debug("email skipped, delivery disabled")
		return nil
	}
	return err
}
