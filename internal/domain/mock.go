// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNotification(ctx context.Context, mail *models.NotificationMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// MockITIPPartGenerator implements ITIPPartGenerator for testing
type MockITIPPartGenerator struct {
	mock.Mock
}

func (m *MockITIPPartGenerator) GenerateITIPPart(mail *models.NotificationMail) (models.MailAttachment, error) {
	args := m.Called(mail)
	return args.Get(0).(models.MailAttachment), args.Error(1)
}

// MockOccurrenceResolver implements OccurrenceResolver for testing
type MockOccurrenceResolver struct {
	mock.Mock
}

func (m *MockOccurrenceResolver) SeriesEnd(event *models.Event) *time.Time {
	args := m.Called(event)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*time.Time)
}

func (m *MockOccurrenceResolver) OccurrenceAt(event *models.Event, hint time.Time) (time.Time, time.Time, error) {
	args := m.Called(event, hint)
	return args.Get(0).(time.Time), args.Get(1).(time.Time), args.Error(2)
}

// MockAttachmentMemory implements AttachmentMemory for testing
type MockAttachmentMemory struct {
	mock.Mock
}

func (m *MockAttachmentMemory) HasRecentChange(contextID, objectID int) bool {
	args := m.Called(contextID, objectID)
	return args.Bool(0)
}
