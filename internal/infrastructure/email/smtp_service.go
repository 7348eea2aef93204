// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package email dispatches rendered notification mails over SMTP, attaching
// the calendaring protocol part where one belongs.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config SMTPConfig
	itip   domain.ITIPPartGenerator
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig, itip domain.ITIPPartGenerator) (*SMTPService, error) {
	if config.Host == "" || config.Port == 0 {
		return nil, domain.NewValidationError("smtp host and port are required")
	}
	if config.From == "" {
		return nil, domain.NewValidationError("smtp from address is required")
	}
	return &SMTPService{config: config, itip: itip}, nil
}

// Ensure [SMTPService] implements [domain.EmailService]
var _ domain.EmailService = (*SMTPService)(nil)

// SendNotification attaches the calendaring part when the mail carries one
// and dispatches the mail to its recipient.
func (s *SMTPService) SendNotification(ctx context.Context, mail *models.NotificationMail) error {
	if mail == nil || mail.Recipient == nil || mail.Recipient.Email == "" {
		return domain.NewValidationError("notification mail has no recipient")
	}
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", mail.Recipient.Email))
	ctx = logging.AppendCtx(ctx, slog.String("state_type", string(mail.StateType)))

	if mail.CarriesITIP() && s.itip != nil {
		part, err := s.itip.GenerateITIPPart(mail)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate calendar part", logging.ErrKey, err)
			return fmt.Errorf("failed to generate calendar part: %w", err)
		}
		mail.AddAttachment(part)
	}

	message := buildMailMessage(mail, s.config)
	if err := sendMailMessage(mail.Recipient.Email, message, s.config); err != nil {
		slog.ErrorContext(ctx, "failed to send notification email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "notification email sent successfully")
	return nil
}
