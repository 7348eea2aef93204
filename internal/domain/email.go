// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import (
	"context"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// EmailService defines the interface for dispatching rendered notification
// mails. Implementations own transport concerns; the core only produces the
// envelope.
type EmailService interface {
	SendNotification(ctx context.Context, mail *models.NotificationMail) error
}

// ITIPPartGenerator produces the calendaring protocol attachment for an
// envelope whose method has been selected by the generator.
type ITIPPartGenerator interface {
	GenerateITIPPart(mail *models.NotificationMail) (models.MailAttachment, error)
}
