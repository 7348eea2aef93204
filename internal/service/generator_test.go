// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/render"
)

// stubResolver answers series-end and occurrence queries from optional
// callbacks; the defaults treat every event as a bounded single occurrence.
type stubResolver struct {
	seriesEnd    func(*models.Event) *time.Time
	occurrenceAt func(*models.Event, time.Time) (time.Time, time.Time, error)
}

func (s *stubResolver) SeriesEnd(event *models.Event) *time.Time {
	if s.seriesEnd != nil {
		return s.seriesEnd(event)
	}
	if event == nil {
		return nil
	}
	end := event.EndDate
	return &end
}

func (s *stubResolver) OccurrenceAt(event *models.Event, hint time.Time) (time.Time, time.Time, error) {
	if s.occurrenceAt != nil {
		return s.occurrenceAt(event, hint)
	}
	return event.StartDate, event.EndDate, nil
}

type stubMemory struct {
	recent bool
}

func (s *stubMemory) HasRecentChange(contextID, objectID int) bool {
	return s.recent
}

// tableStub resolves keys from a fixed map, echoing unknown keys the way
// the real catalog does.
type tableStub map[string]string

func (t tableStub) Lookup(key, locale string) string {
	if text, ok := t[key]; ok {
		return text
	}
	return key
}

func allOn() models.NotificationPolicy {
	return models.NotificationPolicy{
		SendITIP:              true,
		NotifyOnStateChange:   true,
		NotifyOnContentChange: true,
	}
}

func newTestGenerator(t *testing.T, cfg GeneratorConfig) *MailGenerator {
	t.Helper()
	if cfg.Resolver == nil {
		cfg.Resolver = &stubResolver{}
	}
	if cfg.StringTable == nil {
		cfg.StringTable = tableStub{}
	}
	if cfg.PlainStrategy == nil {
		cfg.PlainStrategy = render.PlainStrategy{}
	}
	if cfg.HTMLStrategy == nil {
		cfg.HTMLStrategy = render.HTMLStrategy{}
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return testNow }
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en-US"
	}
	generator, err := NewMailGenerator(cfg)
	require.NoError(t, err)
	return generator
}

func TestNewMailGeneratorValidation(t *testing.T) {
	valid := GeneratorConfig{
		Updated:       futureEvent(),
		Actor:         &models.Participant{Email: "orga@example.com"},
		Resolver:      &stubResolver{},
		StringTable:   tableStub{},
		PlainStrategy: render.PlainStrategy{},
		HTMLStrategy:  render.HTMLStrategy{},
	}

	tests := []struct {
		name   string
		mutate func(*GeneratorConfig)
	}{
		{name: "missing updated snapshot", mutate: func(c *GeneratorConfig) { c.Updated = nil }},
		{name: "missing actor", mutate: func(c *GeneratorConfig) { c.Actor = nil }},
		{name: "missing resolver", mutate: func(c *GeneratorConfig) { c.Resolver = nil }},
		{name: "missing string table", mutate: func(c *GeneratorConfig) { c.StringTable = nil }},
		{name: "missing strategy", mutate: func(c *GeneratorConfig) { c.HTMLStrategy = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := NewMailGenerator(cfg)
			assert.Error(t, err)
		})
	}
}

// organizerRun is a freshly created three-party event acted on by its
// organizer.
func organizerRun(t *testing.T, original, updated *models.Event) (*MailGenerator, []*models.Participant) {
	t.Helper()
	participants := []*models.Participant{
		{Email: "orga@example.com", DisplayName: "Olga Organizer", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn()},
		{Email: "anton@example.com", DisplayName: "Anton Berg", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
		{Email: "berta@example.com", DisplayName: "Berta Blum", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Original:     original,
		Updated:      updated,
		Actor:        participants[0],
	})
	return generator, participants
}

func TestGenerateCreateMail(t *testing.T) {
	generator, _ := organizerRun(t, nil, futureEvent())

	mail := generator.GenerateCreateMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateNew, mail.StateType)
	assert.Equal(t, models.MethodRequest, mail.Method)
	assert.True(t, mail.CarriesITIP())
	assert.NotEmpty(t, mail.Subject)
	assert.NotEmpty(t, mail.Text)
	assert.NotEmpty(t, mail.HTML)
}

func TestGenerateSuppressesSelfNotification(t *testing.T) {
	generator, _ := organizerRun(t, nil, futureEvent())

	assert.Nil(t, generator.GenerateCreateMailFor(context.Background(), "orga@example.com"))
}

func TestMarkActorVirtualLiftsSelfSuppression(t *testing.T) {
	generator, _ := organizerRun(t, nil, futureEvent())
	generator.MarkActorVirtual()

	mail := generator.GenerateCreateMailFor(context.Background(), "orga@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateNew, mail.StateType)
}

func TestGenerateUnknownRecipient(t *testing.T) {
	generator, _ := organizerRun(t, nil, futureEvent())

	assert.Nil(t, generator.GenerateCreateMailFor(context.Background(), "stranger@example.com"))
}

func TestEmptyDiffProducesNothing(t *testing.T) {
	event := futureEvent()
	generator, _ := organizerRun(t, event, event.Clone())

	ctx := context.Background()
	assert.Nil(t, generator.GenerateCreateMailFor(ctx, "anton@example.com"))
	assert.Nil(t, generator.GenerateUpdateMailFor(ctx, "anton@example.com"))
	assert.Nil(t, generator.GenerateDeleteMailFor(ctx, "anton@example.com"))
	assert.Nil(t, generator.GenerateCreateExceptionMailFor(ctx, "anton@example.com"))
	assert.Nil(t, generator.GenerateRefreshMailFor(ctx, "anton@example.com"))
	assert.Nil(t, generator.GenerateDeclineCounterMailFor(ctx, "anton@example.com"))
}

func TestUpdateInvitesAddedAttendee(t *testing.T) {
	original := futureEvent()
	original.Attendees = []models.Attendee{
		{Email: "orga@example.com"},
		{Email: "anton@example.com"},
	}
	updated := original.Clone()
	updated.Attendees = append(updated.Attendees, models.Attendee{Email: "berta@example.com"})

	generator, _ := organizerRun(t, original, updated)

	mail := generator.GenerateUpdateMailFor(context.Background(), "berta@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateNew, mail.StateType, "a newly added attendee gets a fresh invitation")
	assert.Equal(t, models.MethodRequest, mail.Method)
}

func TestUpdateCancelsRemovedAttendee(t *testing.T) {
	original := futureEvent()
	original.Attendees = []models.Attendee{
		{Email: "orga@example.com"},
		{Email: "anton@example.com"},
		{Email: "berta@example.com"},
	}
	updated := original.Clone()
	updated.Attendees = updated.Attendees[:2]

	generator, _ := organizerRun(t, original, updated)

	mail := generator.GenerateUpdateMailFor(context.Background(), "berta@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeleted, mail.StateType)
	assert.Equal(t, models.MethodCancel, mail.Method)
}

func TestUpdateNotifiesRemainingAttendee(t *testing.T) {
	original := futureEvent()
	updated := original.Clone()
	updated.Location = "Room 2"

	generator, _ := organizerRun(t, original, updated)

	mail := generator.GenerateUpdateMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateModified, mail.StateType)
	assert.Equal(t, models.MethodRequest, mail.Method)
}

func TestDeleteByOrganizer(t *testing.T) {
	event := futureEvent()
	generator, _ := organizerRun(t, nil, event)

	mail := generator.GenerateDeleteMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeleted, mail.StateType)
	assert.Equal(t, models.MethodCancel, mail.Method)
}

func TestOrganizerNeverAsksForRefresh(t *testing.T) {
	original := futureEvent()
	updated := original.Clone()
	updated.Location = "Room 2"
	generator, _ := organizerRun(t, original, updated)

	assert.Nil(t, generator.GenerateRefreshMailFor(context.Background(), "anton@example.com"))
}

func TestDeclineCounterByOrganizer(t *testing.T) {
	original := futureEvent()
	updated := original.Clone()
	updated.Location = "Room 2"
	generator, _ := organizerRun(t, original, updated)

	mail := generator.GenerateDeclineCounterMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeclineCounter, mail.StateType)
	assert.Equal(t, models.MethodDeclineCounter, mail.Method)
}

// attendeeRun is a run acted on by an attendee; organizerExternal selects
// whether the organizer lives on this system or elsewhere.
func attendeeRun(t *testing.T, organizerExternal bool, original, updated *models.Event) (*MailGenerator, []*models.Participant) {
	t.Helper()
	participants := []*models.Participant{
		{Email: "orga@example.com", Roles: []models.Role{models.RoleOrganizer}, External: organizerExternal, Policy: allOn()},
		{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
		{Email: "berta@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Original:     original,
		Updated:      updated,
		Actor:        participants[1],
	})
	return generator, participants
}

// declineRun prepares snapshots where the acting attendee changed nothing
// but their own confirmation status.
func declineRun(t *testing.T, organizerExternal bool) *MailGenerator {
	t.Helper()
	original := futureEvent()
	original.Attendees = []models.Attendee{
		{Email: "orga@example.com", Status: models.ConfirmAccepted},
		{Email: "anton@example.com", Status: models.ConfirmNone},
		{Email: "berta@example.com", Status: models.ConfirmNone},
	}
	updated := original.Clone()
	updated.Attendees[1].Status = models.ConfirmDeclined

	generator, _ := attendeeRun(t, organizerExternal, original, updated)
	return generator
}

func TestAttendeeDeclineReachesInternalOrganizerAsNotice(t *testing.T) {
	generator := declineRun(t, false)

	mail := generator.GenerateUpdateMailFor(context.Background(), "orga@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeclined, mail.StateType)
	assert.True(t, mail.InternalNotice)
	assert.False(t, mail.CarriesITIP())
}

func TestAttendeeDeclineReachesExternalOrganizerAsReply(t *testing.T) {
	generator := declineRun(t, true)

	mail := generator.GenerateUpdateMailFor(context.Background(), "orga@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeclined, mail.StateType)
	assert.Equal(t, models.MethodReply, mail.Method)
	assert.True(t, mail.CarriesITIP())
}

func TestAttendeeDeclineSkipsUninterestedAttendee(t *testing.T) {
	original := futureEvent()
	original.Attendees = []models.Attendee{
		{Email: "orga@example.com", Status: models.ConfirmAccepted},
		{Email: "anton@example.com", Status: models.ConfirmNone},
		{Email: "berta@example.com", Status: models.ConfirmNone},
	}
	updated := original.Clone()
	updated.Attendees[1].Status = models.ConfirmDeclined

	participants := []*models.Participant{
		{Email: "orga@example.com", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn()},
		{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
		{Email: "berta@example.com", Roles: []models.Role{models.RoleAttendee}},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Original:     original,
		Updated:      updated,
		Actor:        participants[1],
	})

	assert.Nil(t, generator.GenerateUpdateMailFor(context.Background(), "berta@example.com"),
		"an attendee with default-off preferences hears nothing about someone else's decline")
}

func TestAttendeeSubstantiveChangeCountersExternalOrganizer(t *testing.T) {
	original := futureEvent()
	updated := original.Clone()
	updated.StartDate = updated.StartDate.Add(time.Hour)
	updated.EndDate = updated.EndDate.Add(time.Hour)

	generator, _ := attendeeRun(t, true, original, updated)

	mail := generator.GenerateUpdateMailFor(context.Background(), "orga@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.MethodCounter, mail.Method)
}

func TestAttendeeDeleteDeclinesTowardsExternalOrganizer(t *testing.T) {
	event := futureEvent()
	generator, _ := attendeeRun(t, true, nil, event)

	mail := generator.GenerateDeleteMailFor(context.Background(), "orga@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeclined, mail.StateType)
	assert.Equal(t, models.MethodReply, mail.Method)
}

func TestAttendeeDeletePresentsRemovalToPeers(t *testing.T) {
	event := futureEvent()
	event.Attendees = []models.Attendee{
		{Email: "orga@example.com"},
		{Email: "anton@example.com"},
		{Email: "berta@example.com"},
	}
	generator, _ := attendeeRun(t, false, nil, event)

	mail := generator.GenerateDeleteMailFor(context.Background(), "berta@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, models.StateDeleted, mail.StateType)
	assert.Equal(t, models.MethodRequest, mail.Method, "peers see the removal as an event change")
	_, actorPresent := mail.Updated.Attendee("anton@example.com")
	assert.False(t, actorPresent, "the acting attendee is gone from the presented list")
	_, organizerPresent := mail.Updated.Attendee("orga@example.com")
	assert.True(t, organizerPresent)
}

func TestAttendeeRefreshTargetsOnlyOrganizer(t *testing.T) {
	event := futureEvent()
	generator, _ := attendeeRun(t, true, nil, event)

	ctx := context.Background()
	mail := generator.GenerateRefreshMailFor(ctx, "orga@example.com")
	require.NotNil(t, mail)
	assert.Equal(t, models.StateRefresh, mail.StateType)
	assert.Equal(t, models.MethodRefresh, mail.Method)

	assert.Nil(t, generator.GenerateRefreshMailFor(ctx, "berta@example.com"))
}

func TestAttendeeCannotDeclineCounter(t *testing.T) {
	event := futureEvent()
	generator, _ := attendeeRun(t, false, nil, event)

	assert.Nil(t, generator.GenerateDeclineCounterMailFor(context.Background(), "berta@example.com"))
}

func TestRenderedTextSubstitutesTemplates(t *testing.T) {
	table := tableStub{
		msgCreateIntro: "%1$s has created a new appointment.",
		subjectNew:     "New appointment",
		msgWhen:        "When: %1$s - %2$s",
	}
	participants := []*models.Participant{
		{Email: "orga@example.com", DisplayName: "Olga Organizer", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn()},
		{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Updated:      futureEvent(),
		Actor:        participants[0],
		StringTable:  table,
	})

	mail := generator.GenerateCreateMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Equal(t, "New appointment: Team sync", mail.Subject)
	assert.Contains(t, mail.Text, "Olga Organizer has created a new appointment.")
	assert.Contains(t, mail.Text, "When: ")
}

func TestChangeSummaryListsScalarChanges(t *testing.T) {
	table := tableStub{
		msgUpdateIntro:  "%1$s has changed an appointment.",
		msgChangedField: "%1$s: changed from \"%2$s\" to \"%3$s\".",
		labelLocation:   "Location",
	}
	original := futureEvent()
	updated := original.Clone()
	updated.Location = "Room 2"
	original.Location = "Room 1"

	participants := []*models.Participant{
		{Email: "orga@example.com", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn()},
		{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Original:     original,
		Updated:      updated,
		Actor:        participants[0],
		StringTable:  table,
	})

	mail := generator.GenerateUpdateMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Contains(t, mail.Text, "Location: changed from \"Room 1\" to \"Room 2\".")
}

func TestChangeSummaryCoversRecurrenceRule(t *testing.T) {
	table := tableStub{
		msgUpdateIntro:  "%1$s has changed an appointment.",
		msgChangedField: "%1$s: changed from \"%2$s\" to \"%3$s\".",
		labelRecurrence: "Series",
	}
	original := futureEvent()
	original.RecurrenceRule = "FREQ=DAILY"
	updated := original.Clone()
	updated.RecurrenceRule = "FREQ=WEEKLY"

	participants := []*models.Participant{
		{Email: "orga@example.com", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn()},
		{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Original:     original,
		Updated:      updated,
		Actor:        participants[0],
		StringTable:  table,
	})

	mail := generator.GenerateUpdateMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.Contains(t, mail.Text, "Series: changed from \"FREQ=DAILY\" to \"FREQ=WEEKLY\".")
}

func TestHTMLRenditionEscapesUserText(t *testing.T) {
	table := tableStub{
		msgCreateIntro: "%1$s has created a new appointment.",
	}
	participants := []*models.Participant{
		{Email: "orga@example.com", DisplayName: "<script>alert(1)</script>", Roles: []models.Role{models.RoleOrganizer}, Policy: allOn()},
		{Email: "anton@example.com", Roles: []models.Role{models.RoleAttendee}, Policy: allOn()},
	}
	generator := newTestGenerator(t, GeneratorConfig{
		Participants: participants,
		Updated:      futureEvent(),
		Actor:        participants[0],
		StringTable:  table,
	})

	mail := generator.GenerateCreateMailFor(context.Background(), "anton@example.com")

	require.NotNil(t, mail)
	assert.NotContains(t, mail.HTML, "<script>")
	assert.Contains(t, mail.Text, "<script>alert(1)</script>")
}
