// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/cache"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/messaging"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/render"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/service"
	"github.com/open-xchange/appsuite-middleware-sub049/pkg/concurrent"
)

// dispatcher turns one event change message into notification mails: it
// builds a generator for the message, fans per-recipient generation out on
// the worker pool, and hands the produced envelopes to the email service.
type dispatcher struct {
	resolver      domain.OccurrenceResolver
	attachments   *cache.AttachmentCache
	table         models.StringTable
	emails        domain.EmailService
	pool          *concurrent.WorkerPool
	defaultLocale string
}

// Handle processes one validated event change message.
func (d *dispatcher) Handle(ctx context.Context, msg *messaging.EventChangeMessage) error {
	participants := make([]*models.Participant, 0, len(msg.Participants))
	for i := range msg.Participants {
		participants = append(participants, &msg.Participants[i])
	}

	actor := models.FindParticipant(participants, msg.ActorEmail)
	if actor == nil {
		// Changes without an attributable participant, such as provisioning
		// jobs, act through a synthetic external actor.
		actor = &models.Participant{Email: msg.ActorEmail, External: true}
	}
	var onBehalfOf *models.Participant
	if msg.OnBehalfOfEmail != "" {
		onBehalfOf = models.FindParticipant(participants, msg.OnBehalfOfEmail)
	}

	original, updated := msg.Original, msg.Updated
	if updated == nil {
		updated = original
	}
	switch msg.Operation {
	case messaging.OperationDelete, messaging.OperationRefresh:
		// These runs describe a single snapshot. Clearing the original keeps
		// them from being mistaken for a no-op update.
		original = nil
	}

	generator, err := service.NewMailGenerator(service.GeneratorConfig{
		Participants:     participants,
		Original:         original,
		Updated:          updated,
		Actor:            actor,
		OnBehalfOf:       onBehalfOf,
		Resolver:         d.resolver,
		AttachmentMemory: d.attachments,
		StringTable:      d.table,
		PlainStrategy:    render.PlainStrategy{},
		HTMLStrategy:     render.HTMLStrategy{},
		DefaultLocale:    d.defaultLocale,
	})
	if err != nil {
		return err
	}

	// Attachment changes feed the memory the relevance filter consults on
	// later updates with an empty diff.
	if diff := generator.Diff(); diff != nil && diff.Contains(models.FieldAttachments) {
		d.attachments.RememberChange(updated.ContextID, updated.ID)
	}

	generate := operationOf(generator, msg.Operation)
	if generate == nil {
		return domain.NewValidationError("unknown operation " + string(msg.Operation))
	}

	tasks := make([]func() error, 0, len(participants))
	for _, participant := range participants {
		email := participant.Email
		tasks = append(tasks, func() error {
			mail := generate(ctx, email)
			if mail == nil {
				return nil
			}
			return d.emails.SendNotification(ctx, mail)
		})
	}

	if errs := d.pool.RunAll(ctx, tasks...); len(errs) > 0 {
		slog.ErrorContext(ctx, "some notifications failed to send",
			logging.ErrKey, errors.Join(errs...),
			"failed", len(errs), "recipients", len(participants))
		return errors.Join(errs...)
	}
	return nil
}

// operationOf maps the wire operation onto the generator entry point.
func operationOf(g *service.MailGenerator, op messaging.Operation) func(context.Context, string) *models.NotificationMail {
	switch op {
	case messaging.OperationCreate:
		return g.GenerateCreateMailFor
	case messaging.OperationUpdate:
		return g.GenerateUpdateMailFor
	case messaging.OperationDelete:
		return g.GenerateDeleteMailFor
	case messaging.OperationCreateException:
		return g.GenerateCreateExceptionMailFor
	case messaging.OperationRefresh:
		return g.GenerateRefreshMailFor
	case messaging.OperationDeclineCounter:
		return g.GenerateDeclineCounterMailFor
	default:
		return nil
	}
}
