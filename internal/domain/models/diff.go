// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"sort"
	"strings"
	"time"
)

// AttendeeChange records one attendee entry that exists in both snapshots
// but differs between them.
type AttendeeChange struct {
	Before Attendee `json:"before"`
	After  Attendee `json:"after"`
}

// StatusOnly reports whether the entry differs only in confirmation
// bookkeeping (status or confirmation message).
func (c AttendeeChange) StatusOnly() bool {
	before, after := c.Before, c.After
	before.Status, after.Status = ConfirmNone, ConfirmNone
	before.ConfirmMessage, after.ConfirmMessage = "", ""
	return before == after
}

// FieldUpdate describes the change of one event field between the original
// and the updated snapshot. Collection-valued fields additionally carry
// structured added/removed/changed sub-lists.
type FieldUpdate struct {
	Field   EventField       `json:"field"`
	Old     any              `json:"old,omitempty"`
	New     any              `json:"new,omitempty"`
	Added   []Attendee       `json:"added,omitempty"`
	Removed []Attendee       `json:"removed,omitempty"`
	Changed []AttendeeChange `json:"changed,omitempty"`
}

func (u FieldUpdate) statusChangesOnly() bool {
	if len(u.Added) > 0 || len(u.Removed) > 0 {
		return false
	}
	for _, c := range u.Changed {
		if !c.StatusOnly() {
			return false
		}
	}
	return true
}

// EventDiff is the read-only, field-keyed description of what changed
// between two event snapshots. It is computed once per generator run and
// shared across all recipients so that every decision is based on the
// identical snapshot of changes.
type EventDiff struct {
	updates map[EventField]FieldUpdate
}

// NewEventDiff builds a diff from the given field updates. Used by tests
// and by callers that compute diffs elsewhere.
func NewEventDiff(updates ...FieldUpdate) *EventDiff {
	d := &EventDiff{updates: make(map[EventField]FieldUpdate, len(updates))}
	for _, u := range updates {
		d.updates[u.Field] = u
	}
	return d
}

// ComputeEventDiff computes the field-level diff between the original and
// updated snapshot of the same logical event. A nil original means the event
// was freshly created; the diff is nil in that case.
func ComputeEventDiff(original, updated *Event) *EventDiff {
	if original == nil || updated == nil {
		return nil
	}

	d := &EventDiff{updates: make(map[EventField]FieldUpdate)}

	scalar := func(field EventField, oldVal, newVal any) {
		if oldVal != newVal {
			d.updates[field] = FieldUpdate{Field: field, Old: oldVal, New: newVal}
		}
	}

	scalar(FieldTitle, original.Title, updated.Title)
	scalar(FieldLocation, original.Location, updated.Location)
	scalar(FieldNote, original.Note, updated.Note)
	scalar(FieldFullTime, original.FullTime, updated.FullTime)
	scalar(FieldRecurrenceType, original.RecurrenceType, updated.RecurrenceType)
	scalar(FieldInterval, original.Interval, updated.Interval)
	scalar(FieldDays, original.Days, updated.Days)
	scalar(FieldDayInMonth, original.DayInMonth, updated.DayInMonth)
	scalar(FieldMonth, original.Month, updated.Month)
	scalar(FieldRecurrenceRule, original.RecurrenceRule, updated.RecurrenceRule)
	scalar(FieldRecurrencePos, original.RecurrencePosition, updated.RecurrencePosition)

	if !original.StartDate.Equal(updated.StartDate) {
		d.updates[FieldStartDate] = FieldUpdate{Field: FieldStartDate, Old: original.StartDate, New: updated.StartDate}
	}
	if !original.EndDate.Equal(updated.EndDate) {
		d.updates[FieldEndDate] = FieldUpdate{Field: FieldEndDate, Old: original.EndDate, New: updated.EndDate}
	}
	if !timePtrEqual(original.Until, updated.Until) {
		d.updates[FieldUntil] = FieldUpdate{Field: FieldUntil, Old: original.Until, New: updated.Until}
	}
	if !timePtrEqual(original.RecurrenceDatePos, updated.RecurrenceDatePos) {
		d.updates[FieldRecurrenceDatePos] = FieldUpdate{Field: FieldRecurrenceDatePos, Old: original.RecurrenceDatePos, New: updated.RecurrenceDatePos}
	}
	if !timesEqual(original.ChangeExceptions, updated.ChangeExceptions) {
		d.updates[FieldChangeExceptions] = FieldUpdate{Field: FieldChangeExceptions, Old: original.ChangeExceptions, New: updated.ChangeExceptions}
	}

	diffAttendees(d, original.Attendees, updated.Attendees)

	return d
}

// diffAttendees fills the participants, users and confirmations field
// updates from the two attendee lists. Participant membership changes go to
// the participants field (internal entries additionally to users), pure
// confirmation bookkeeping goes to the confirmations field.
func diffAttendees(d *EventDiff, original, updated []Attendee) {
	byEmail := func(list []Attendee) map[string]Attendee {
		m := make(map[string]Attendee, len(list))
		for _, a := range list {
			m[strings.ToLower(a.Email)] = a
		}
		return m
	}
	oldByEmail := byEmail(original)
	newByEmail := byEmail(updated)

	var added, removed []Attendee
	var changed []AttendeeChange
	var confirmations []AttendeeChange
	usersChanged := false

	for _, a := range updated {
		before, ok := oldByEmail[strings.ToLower(a.Email)]
		if !ok {
			added = append(added, a)
			if !a.External {
				usersChanged = true
			}
			continue
		}
		if before == a {
			continue
		}
		c := AttendeeChange{Before: before, After: a}
		if c.StatusOnly() {
			confirmations = append(confirmations, c)
		} else {
			changed = append(changed, c)
		}
		if !a.External {
			usersChanged = true
		}
	}
	for _, a := range original {
		if _, ok := newByEmail[strings.ToLower(a.Email)]; !ok {
			removed = append(removed, a)
			if !a.External {
				usersChanged = true
			}
		}
	}

	if len(added)+len(removed)+len(changed) > 0 {
		d.updates[FieldParticipants] = FieldUpdate{
			Field:   FieldParticipants,
			Added:   added,
			Removed: removed,
			Changed: changed,
		}
	}
	if len(confirmations) > 0 {
		d.updates[FieldConfirmations] = FieldUpdate{
			Field:   FieldConfirmations,
			Changed: confirmations,
		}
	}
	if usersChanged {
		d.updates[FieldUsers] = FieldUpdate{
			Field:   FieldUsers,
			Added:   added,
			Removed: removed,
			Changed: append(append([]AttendeeChange(nil), changed...), confirmations...),
		}
	}
}

// IsEmpty reports whether no field differs between the snapshots.
func (d *EventDiff) IsEmpty() bool {
	return d == nil || len(d.updates) == 0
}

// Len returns the number of differing fields.
func (d *EventDiff) Len() int {
	if d == nil {
		return 0
	}
	return len(d.updates)
}

// Contains reports whether the given field changed.
func (d *EventDiff) Contains(field EventField) bool {
	if d == nil {
		return false
	}
	_, ok := d.updates[field]
	return ok
}

// Update returns the update entry for the given field.
func (d *EventDiff) Update(field EventField) (FieldUpdate, bool) {
	if d == nil {
		return FieldUpdate{}, false
	}
	u, ok := d.updates[field]
	return u, ok
}

// Fields returns the sorted list of differing fields.
func (d *EventDiff) Fields() []EventField {
	if d == nil {
		return nil
	}
	fields := make([]EventField, 0, len(d.updates))
	for f := range d.updates {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// AnyChangedOf reports whether at least one of the given fields changed.
func (d *EventDiff) AnyChangedOf(fields ...EventField) bool {
	for _, f := range fields {
		if d.Contains(f) {
			return true
		}
	}
	return false
}

// OnlyChangedOf reports whether something changed and every changed field is
// within the given set.
func (d *EventDiff) OnlyChangedOf(fields ...EventField) bool {
	if d.IsEmpty() {
		return false
	}
	allowed := make(map[EventField]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	for f := range d.updates {
		if !allowed[f] {
			return false
		}
	}
	return true
}

// ParticipantsAdded returns the attendees newly added to the event.
func (d *EventDiff) ParticipantsAdded() []Attendee {
	u, _ := d.Update(FieldParticipants)
	return u.Added
}

// ParticipantsRemoved returns the attendees removed from the event.
func (d *EventDiff) ParticipantsRemoved() []Attendee {
	u, _ := d.Update(FieldParticipants)
	return u.Removed
}

// ParticipantAdded reports whether the given identity was newly added.
func (d *EventDiff) ParticipantAdded(email string) bool {
	for _, a := range d.ParticipantsAdded() {
		if a.IsEmail(email) {
			return true
		}
	}
	return false
}

// ParticipantRemoved reports whether the given identity was removed.
func (d *EventDiff) ParticipantRemoved(email string) bool {
	for _, a := range d.ParticipantsRemoved() {
		if a.IsEmail(email) {
			return true
		}
	}
	return false
}

// IsAboutStateChangesOnly reports whether every change in the diff is
// participant confirmation bookkeeping, with no substantive change to the
// event itself.
func (d *EventDiff) IsAboutStateChangesOnly() bool {
	if d.IsEmpty() {
		return false
	}
	for field, u := range d.updates {
		switch field {
		case FieldConfirmations:
			if !u.statusChangesOnly() {
				return false
			}
		case FieldUsers, FieldParticipants:
			if !u.statusChangesOnly() {
				return false
			}
		case FieldChangeExceptions, FieldRecurrencePos, FieldRecurrenceDatePos:
			// per-user bookkeeping that accompanies confirmation changes
		default:
			return false
		}
	}
	return true
}

// IsAboutStateChangeOf reports whether the diff is about state changes only
// and every confirmation change is attributable to the given identity. Used
// to distinguish "they only confirmed or declined" from a substantive change.
func (d *EventDiff) IsAboutStateChangeOf(email string) bool {
	if !d.IsAboutStateChangesOnly() {
		return false
	}
	for _, field := range []EventField{FieldConfirmations, FieldUsers, FieldParticipants} {
		u, ok := d.Update(field)
		if !ok {
			continue
		}
		for _, c := range u.Changed {
			if !c.After.IsEmail(email) {
				return false
			}
		}
	}
	return true
}

// StatusOf returns the new confirmation status recorded for the given
// identity, if the diff carries one.
func (d *EventDiff) StatusOf(email string) (ConfirmStatus, bool) {
	u, ok := d.Update(FieldConfirmations)
	if !ok {
		return ConfirmNone, false
	}
	for _, c := range u.Changed {
		if c.After.IsEmail(email) {
			return c.After.Status, true
		}
	}
	return ConfirmNone, false
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func timesEqual(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
