// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"sort"
	"strings"
	"time"

	"github.com/open-xchange/appsuite-middleware-sub049/pkg/utils"
)

// ConfirmStatus is the confirmation state of an attendee for an event.
type ConfirmStatus string

const (
	ConfirmNone      ConfirmStatus = "none"
	ConfirmAccepted  ConfirmStatus = "accepted"
	ConfirmDeclined  ConfirmStatus = "declined"
	ConfirmTentative ConfirmStatus = "tentative"
)

// AttendeeType distinguishes people from bookable resources in the
// attendee list of an event.
type AttendeeType string

const (
	AttendeeTypeIndividual AttendeeType = "individual"
	AttendeeTypeResource   AttendeeType = "resource"
)

// Attendee is one entry of an event's participant list together with its
// confirmation bookkeeping.
type Attendee struct {
	ID             int           `json:"id,omitempty"`
	Email          string        `json:"email"`
	DisplayName    string        `json:"display_name,omitempty"`
	Type           AttendeeType  `json:"type"`
	External       bool          `json:"external"`
	Status         ConfirmStatus `json:"status"`
	ConfirmMessage string        `json:"confirm_message,omitempty"`
}

// Name returns the display name, falling back to the email address.
func (a Attendee) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Email
}

// Is reports identity equality with another attendee by case-insensitive
// email address.
func (a Attendee) Is(other Attendee) bool {
	return strings.EqualFold(a.Email, other.Email)
}

// IsEmail reports whether the attendee has the given email identity.
func (a Attendee) IsEmail(email string) bool {
	return strings.EqualFold(a.Email, email)
}

// Event is one snapshot of a calendar event, before or after an operation.
// Optional fields are pointers so that "unset" can be told apart from a
// zero value.
type Event struct {
	ID        int    `json:"id"`
	ContextID int    `json:"context_id,omitempty"`
	SeriesID  int    `json:"series_id,omitempty"`
	UID       string `json:"uid,omitempty"`
	Sequence  int    `json:"sequence,omitempty"`

	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
	Note     string `json:"note,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	FullTime  bool      `json:"full_time"`
	Timezone  string    `json:"timezone,omitempty"`

	// RecurrenceRule is the RRULE of a recurring series, empty for single
	// events. Until mirrors the rule's UNTIL part when bounded.
	RecurrenceRule     string     `json:"recurrence_rule,omitempty"`
	RecurrenceType     int        `json:"recurrence_type,omitempty"`
	Interval           int        `json:"interval,omitempty"`
	Days               int        `json:"days,omitempty"`
	DayInMonth         int        `json:"day_in_month,omitempty"`
	Month              int        `json:"month,omitempty"`
	Until              *time.Time `json:"until,omitempty"`
	RecurrencePosition int        `json:"recurrence_position,omitempty"`
	RecurrenceDatePos  *time.Time `json:"recurrence_date_position,omitempty"`

	// ChangeExceptions holds the recurrence positions of exceptions carved
	// out of this series.
	ChangeExceptions []time.Time `json:"change_exceptions,omitempty"`

	Attendees []Attendee `json:"attendees,omitempty"`

	// Notification is the per-event opt-out field: when present and false,
	// no notifications are produced for this event.
	Notification *bool `json:"notification,omitempty"`
}

// IsRecurring reports whether the event is a recurring series master.
func (e *Event) IsRecurring() bool {
	return e != nil && e.RecurrenceRule != "" && !e.IsException()
}

// IsException reports whether the event is an exception of a recurring
// series rather than the series master itself.
func (e *Event) IsException() bool {
	if e == nil {
		return false
	}
	return e.SeriesID != 0 && (e.RecurrencePosition != 0 || e.RecurrenceDatePos != nil) && e.SeriesID != e.ID
}

// ContainsNotification reports whether the opt-out field is present.
func (e *Event) ContainsNotification() bool {
	return e != nil && e.Notification != nil
}

// NotificationDisabled reports whether the opt-out field is present and set
// to false.
func (e *Event) NotificationDisabled() bool {
	return e.ContainsNotification() && !utils.BoolValue(e.Notification)
}

// Attendee returns the attendee entry with the given email identity, if any.
func (e *Event) Attendee(email string) (Attendee, bool) {
	if e == nil {
		return Attendee{}, false
	}
	for _, a := range e.Attendees {
		if a.IsEmail(email) {
			return a, true
		}
	}
	return Attendee{}, false
}

// ResourceIdentifiers returns the sorted identity set of RESOURCE-typed
// attendees, used to detect pseudo participant changes.
func (e *Event) ResourceIdentifiers() []string {
	if e == nil {
		return nil
	}
	var ids []string
	for _, a := range e.Attendees {
		if a.Type == AttendeeTypeResource {
			ids = append(ids, strings.ToLower(a.Email))
		}
	}
	sort.Strings(ids)
	return ids
}

// WithoutAttendee returns a reduced copy of the event with the given
// identity removed from the attendee list. Used when an attendee's own
// removal must be presented to them as an event change.
func (e *Event) WithoutAttendee(email string) *Event {
	if e == nil {
		return nil
	}
	clone := e.Clone()
	var kept []Attendee
	for _, a := range clone.Attendees {
		if !a.IsEmail(email) {
			kept = append(kept, a)
		}
	}
	clone.Attendees = kept
	return clone
}

// Clone returns a deep copy of the event snapshot.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Attendees = append([]Attendee(nil), e.Attendees...)
	clone.ChangeExceptions = append([]time.Time(nil), e.ChangeExceptions...)
	if e.Until != nil {
		until := *e.Until
		clone.Until = &until
	}
	if e.RecurrenceDatePos != nil {
		pos := *e.RecurrenceDatePos
		clone.RecurrenceDatePos = &pos
	}
	if e.Notification != nil {
		n := *e.Notification
		clone.Notification = &n
	}
	return &clone
}
