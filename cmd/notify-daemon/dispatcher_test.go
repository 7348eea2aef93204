// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/cache"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/i18n"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/messaging"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/recurrence"
	"github.com/open-xchange/appsuite-middleware-sub049/pkg/concurrent"
)

func newTestDispatcher(t *testing.T, emails domain.EmailService) *dispatcher {
	t.Helper()
	catalogs, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	return &dispatcher{
		resolver:      recurrence.NewResolver(),
		attachments:   cache.NewAttachmentCache(cache.DefaultTTL, nil),
		table:         catalogs,
		emails:        emails,
		pool:          concurrent.NewWorkerPool(2),
		defaultLocale: "en-US",
	}
}

func upcomingEvent() *models.Event {
	start := time.Now().Add(24 * time.Hour)
	return &models.Event{
		ID:        7,
		ContextID: 1,
		Title:     "Team sync",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Attendees: []models.Attendee{
			{Email: "orga@example.com"},
			{Email: "anton@example.com"},
		},
	}
}

func changeMessage(op messaging.Operation) *messaging.EventChangeMessage {
	allOn := models.NotificationPolicy{
		SendITIP:              true,
		NotifyOnStateChange:   true,
		NotifyOnContentChange: true,
	}
	return &messaging.EventChangeMessage{
		Operation:  op,
		ActorEmail: "orga@example.com",
		Participants: []models.Participant{
			{Email: "orga@example.com", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn},
			{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn},
		},
		Original: upcomingEvent(),
	}
}

func TestDispatcherDeleteSendsCancellation(t *testing.T) {
	emails := &domain.MockEmailService{}
	var sent []*models.NotificationMail
	emails.On("SendNotification", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = append(sent, args.Get(1).(*models.NotificationMail))
		}).
		Return(nil)

	d := newTestDispatcher(t, emails)
	err := d.Handle(context.Background(), changeMessage(messaging.OperationDelete))

	require.NoError(t, err)
	require.Len(t, sent, 1, "the attendee gets a cancellation, the actor nothing")
	assert.Equal(t, "anton@example.com", sent[0].Recipient.Email)
	assert.Equal(t, models.StateDeleted, sent[0].StateType)
	assert.Equal(t, models.MethodCancel, sent[0].Method)
	emails.AssertExpectations(t)
}

func TestDispatcherRefreshReachesOrganizer(t *testing.T) {
	emails := &domain.MockEmailService{}
	var sent []*models.NotificationMail
	emails.On("SendNotification", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = append(sent, args.Get(1).(*models.NotificationMail))
		}).
		Return(nil)

	d := newTestDispatcher(t, emails)
	msg := changeMessage(messaging.OperationRefresh)
	msg.ActorEmail = "anton@example.com"
	msg.Participants[0].External = true
	err := d.Handle(context.Background(), msg)

	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "orga@example.com", sent[0].Recipient.Email)
	assert.Equal(t, models.MethodRefresh, sent[0].Method)
}

func TestDispatcherUnknownOperation(t *testing.T) {
	emails := &domain.MockEmailService{}
	d := newTestDispatcher(t, emails)

	msg := changeMessage("reschedule")
	err := d.Handle(context.Background(), msg)

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	emails.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
}
