// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

// EventField identifies one diffable field of an event snapshot.
type EventField string

const (
	FieldTitle             EventField = "title"
	FieldLocation          EventField = "location"
	FieldNote              EventField = "note"
	FieldStartDate         EventField = "start_date"
	FieldEndDate           EventField = "end_date"
	FieldFullTime          EventField = "full_time"
	FieldRecurrenceType    EventField = "recurrence_type"
	FieldInterval          EventField = "interval"
	FieldDays              EventField = "days"
	FieldDayInMonth        EventField = "day_in_month"
	FieldMonth             EventField = "month"
	FieldUntil             EventField = "until"
	FieldRecurrenceRule    EventField = "recurrence_rule"
	FieldRecurrencePos     EventField = "recurrence_position"
	FieldRecurrenceDatePos EventField = "recurrence_date_position"
	FieldChangeExceptions  EventField = "change_exceptions"
	FieldParticipants      EventField = "participants"
	FieldUsers             EventField = "users"
	FieldConfirmations     EventField = "confirmations"
	FieldAttachments       EventField = "attachments"
)

// InterestingFields is the fixed set of externally visible fields whose
// change warrants telling the recipients about.
var InterestingFields = []EventField{
	FieldLocation,
	FieldFullTime,
	FieldStartDate,
	FieldEndDate,
	FieldRecurrenceType,
	FieldRecurrenceDatePos,
	FieldRecurrencePos,
	FieldDays,
	FieldDayInMonth,
	FieldMonth,
	FieldInterval,
	FieldUntil,
	FieldRecurrenceRule,
	FieldTitle,
	FieldNote,
	FieldParticipants,
	FieldUsers,
	FieldConfirmations,
}
