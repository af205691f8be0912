package services

//go:generate mockgen -source=mailer.go -destination=mocks/mailer.go -package=mocks Mailer

import (
	"context"
	"fmt"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, plain, html string) error
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logging.SafeLogger
}

// NewSendGridMailer creates a SendGrid backed mailer.
func NewSendGridMailer(apiKey, fromAddress, fromName string, logger *logging.SafeLogger) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
		logger: logger,
	}
}

// Send delivers one message to a single recipient.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, plain, html string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), plain, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		m.logger.Error("sendgrid request failed",
			zap.Error(err),
			zap.String("to", observability.MaskEmail(to)))
		return fmt.Errorf("%w: %v", models.ErrMailDelivery, err)
	}
	if response.StatusCode >= 400 {
		m.logger.Error("sendgrid rejected message",
			zap.Int("status_code", response.StatusCode),
			zap.String("body", response.Body),
			zap.String("to", observability.MaskEmail(to)))
		return fmt.Errorf("%w: status code %d", models.ErrMailDelivery, response.StatusCode)
	}

	m.logger.Debug("email sent",
		zap.String("to", observability.MaskEmail(to)),
		zap.Int("status_code", response.StatusCode))
	return nil
}

// LogMailer only logs that a message would have been sent. It is used when
// no SendGrid key is configured.
type LogMailer struct {
	logger *logging.SafeLogger
}

// NewLogMailer creates a logging mailer.
func NewLogMailer(logger *logging.SafeLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the masked recipient and subject.
func (m *LogMailer) Send(ctx context.Context, to, subject, plain, html string) error {
	m.logger.Info("email delivery disabled, message not sent",
		zap.String("to", observability.MaskEmail(to)),
		zap.String("subject", subject))
	return nil
}

// NewMailer picks SendGrid when an API key is set and the log mailer otherwise.
func NewMailer(apiKey, fromAddress, fromName string, logger *logging.SafeLogger) Mailer {
	if apiKey == "" {
		logger.Warn("SENDGRID_API_KEY not set, OTP emails will only be logged")
		return NewLogMailer(logger)
	}
	return NewSendGridMailer(apiKey, fromAddress, fromName, logger)
}
