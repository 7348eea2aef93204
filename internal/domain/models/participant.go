// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"strings"
)

// Role represents a role a participant holds relative to an event.
// A participant can hold several roles at once.
type Role string

const (
	// RoleOrganizer is the technical organizer of the event.
	RoleOrganizer Role = "organizer"
	// RoleAttendee is a regular invited participant.
	RoleAttendee Role = "attendee"
	// RolePrincipal is the calendar owner when different from the organizer account.
	RolePrincipal Role = "principal"
	// RoleOnBehalfOf is a delegate acting for the principal.
	RoleOnBehalfOf Role = "on_behalf_of"
	// RoleResource is a bookable resource (room, equipment) rather than a person.
	RoleResource Role = "resource"
)

// NotificationPolicy holds the four independent per-recipient notification
// preferences. The booleans never change after the recipient's policy has
// been resolved for a generator run.
type NotificationPolicy struct {
	SendITIP              bool `json:"send_itip"`
	NotifyOnStateChange   bool `json:"notify_on_state_change"`
	NotifyOnContentChange bool `json:"notify_on_content_change"`
	ForceCancelMail       bool `json:"force_cancel_mail"`
}

// InterestedInChanges reports whether the recipient wants to hear about the
// event at all, either as ITIP invitations or as content-change notices.
func (p NotificationPolicy) InterestedInChanges() bool {
	return p.SendITIP || p.NotifyOnContentChange
}

// Clone returns a value copy of the policy. Used when duplicating defaults
// for per-participant overrides.
func (p NotificationPolicy) Clone() NotificationPolicy {
	return p
}

// Participant is one recipient (or actor) of a notification run, resolved
// from directory data with policy, locale and timezone already attached.
type Participant struct {
	// ID is the internal numeric identifier; zero for external participants.
	ID          int                `json:"id,omitempty"`
	Email       string             `json:"email"`
	DisplayName string             `json:"display_name,omitempty"`
	Roles       []Role             `json:"roles"`
	External    bool               `json:"external"`
	Virtual     bool               `json:"virtual,omitempty"`
	Locale      string             `json:"locale,omitempty"`
	Timezone    string             `json:"timezone,omitempty"`
	Policy      NotificationPolicy `json:"policy"`
}

// Name returns the display name, falling back to the email address.
func (p *Participant) Name() string {
	if p == nil {
		return ""
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}

// HasRole reports whether the participant holds the given role.
func (p *Participant) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Is reports whether two participants are the same identity. Equality is
// defined by case-insensitive email address regardless of other fields.
func (p *Participant) Is(other *Participant) bool {
	if p == nil || other == nil {
		return false
	}
	return strings.EqualFold(p.Email, other.Email)
}

// IsEmail reports whether the participant has the given email identity.
func (p *Participant) IsEmail(email string) bool {
	if p == nil {
		return false
	}
	return strings.EqualFold(p.Email, email)
}

// Clone returns a deep copy of the participant.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Roles = append([]Role(nil), p.Roles...)
	return &clone
}

// AsVirtual returns a copy of the participant marked as a synthetic actor.
// Virtual actors represent unattributed or system-originated changes and are
// exempt from the self-notification suppression rule.
func (p *Participant) AsVirtual() *Participant {
	clone := p.Clone()
	if clone != nil {
		clone.Virtual = true
	}
	return clone
}

// FindParticipant returns the first participant in the list with the given
// email identity, or nil if none matches.
func FindParticipant(participants []*Participant, email string) *Participant {
	for _, p := range participants {
		if p.IsEmail(email) {
			return p
		}
	}
	return nil
}
