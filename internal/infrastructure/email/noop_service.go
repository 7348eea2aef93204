// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package email

import (
	"context"
	"log/slog"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// Ensure [NoOpService] implements [domain.EmailService]
var _ domain.EmailService = (*NoOpService)(nil)

// SendNotification logs the notification but doesn't send an email
func (s *NoOpService) SendNotification(ctx context.Context, mail *models.NotificationMail) error {
	if mail != nil && mail.Recipient != nil {
		ctx = logging.AppendCtx(ctx, slog.String("recipient_email", mail.Recipient.Email))
		ctx = logging.AppendCtx(ctx, slog.String("state_type", string(mail.StateType)))
	}

	slog.DebugContext(ctx, "email service disabled, skipping notification email")
	return nil
}
