// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantName(t *testing.T) {
	tests := []struct {
		name        string
		participant *Participant
		expected    string
	}{
		{
			name:        "display name preferred",
			participant: &Participant{Email: "anton@example.com", DisplayName: "Anton Berg"},
			expected:    "Anton Berg",
		},
		{
			name:        "falls back to email",
			participant: &Participant{Email: "anton@example.com"},
			expected:    "anton@example.com",
		},
		{
			name:        "nil participant",
			participant: nil,
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.participant.Name())
		})
	}
}

func TestParticipantIs(t *testing.T) {
	anton := &Participant{Email: "anton@example.com"}

	assert.True(t, anton.Is(&Participant{Email: "Anton@Example.COM"}))
	assert.False(t, anton.Is(&Participant{Email: "berta@example.com"}))
	assert.False(t, anton.Is(nil))
	assert.False(t, (*Participant)(nil).Is(anton))
}

func TestParticipantHasRole(t *testing.T) {
	organizer := &Participant{
		Email: "orga@example.com",
		Roles: []Role{RoleOrganizer, RoleAttendee},
	}

	assert.True(t, organizer.HasRole(RoleOrganizer))
	assert.True(t, organizer.HasRole(RoleAttendee))
	assert.False(t, organizer.HasRole(RolePrincipal))
	assert.False(t, (*Participant)(nil).HasRole(RoleOrganizer))
}

func TestParticipantAsVirtual(t *testing.T) {
	actor := &Participant{Email: "anton@example.com", Roles: []Role{RoleAttendee}}

	virtual := actor.AsVirtual()

	assert.True(t, virtual.Virtual)
	assert.False(t, actor.Virtual, "original must stay untouched")
	assert.True(t, virtual.Is(actor))

	virtual.Roles[0] = RoleOrganizer
	assert.Equal(t, RoleAttendee, actor.Roles[0], "roles must be deep copied")
}

func TestFindParticipant(t *testing.T) {
	participants := []*Participant{
		{Email: "anton@example.com"},
		{Email: "berta@example.com"},
	}

	assert.Equal(t, participants[1], FindParticipant(participants, "BERTA@example.com"))
	assert.Nil(t, FindParticipant(participants, "carla@example.com"))
	assert.Nil(t, FindParticipant(nil, "anton@example.com"))
}

func TestNotificationPolicyInterestedInChanges(t *testing.T) {
	tests := []struct {
		name     string
		policy   NotificationPolicy
		expected bool
	}{
		{
			name:     "nothing wanted",
			policy:   NotificationPolicy{},
			expected: false,
		},
		{
			name:     "itip wanted",
			policy:   NotificationPolicy{SendITIP: true},
			expected: true,
		},
		{
			name:     "content changes wanted",
			policy:   NotificationPolicy{NotifyOnContentChange: true},
			expected: true,
		},
		{
			name:     "only state changes wanted",
			policy:   NotificationPolicy{NotifyOnStateChange: true},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.policy.InterestedInChanges())
		})
	}
}
