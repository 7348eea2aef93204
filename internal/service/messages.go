// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package service

// Message keys of the sentences this package composes. The localized format
// templates live in the embedded i18n catalogs; an unknown key renders as
// the key itself.
const (
	msgCreateIntro         = "notify.appointment.create.intro"
	msgCreateOnMyBehalf    = "notify.appointment.create.onmybehalf"
	msgCreateOnBehalf      = "notify.appointment.create.onbehalf"
	msgUpdateIntro         = "notify.appointment.update.intro"
	msgUpdateOnMyBehalf    = "notify.appointment.update.onmybehalf"
	msgUpdateOnBehalf      = "notify.appointment.update.onbehalf"
	msgDeleteIntro         = "notify.appointment.delete.intro"
	msgDeleteOnMyBehalf    = "notify.appointment.delete.onmybehalf"
	msgDeleteOnBehalf      = "notify.appointment.delete.onbehalf"
	msgDeclineCounterIntro = "notify.appointment.declinecounter.intro"
	msgStatusChange        = "notify.appointment.statuschange"
	msgStatusOnMyBehalf    = "notify.appointment.statuschange.onmybehalf"
	msgStatusOnBehalf      = "notify.appointment.statuschange.onbehalf"
	msgCounterIntro        = "notify.appointment.counter.intro"
	msgRefreshIntro        = "notify.appointment.refresh.intro"
	msgExceptionIntro      = "notify.appointment.exception.intro"
	msgSelfRemoved         = "notify.appointment.removed.you"

	msgChangedField = "notify.appointment.changed.field"
	msgWhen         = "notify.appointment.when"
)

// Subject keys per state transition kind.
const (
	subjectNew            = "notify.subject.new"
	subjectModified       = "notify.subject.modified"
	subjectDeleted        = "notify.subject.deleted"
	subjectStateChanged   = "notify.subject.statechanged"
	subjectRefresh        = "notify.subject.refresh"
	subjectCounter        = "notify.subject.counter"
	subjectDeclineCounter = "notify.subject.declinecounter"
)

// Human-readable labels for changed fields in update summaries.
const (
	labelTitle      = "label.title"
	labelLocation   = "label.location"
	labelNote       = "label.note"
	labelStart      = "label.start"
	labelEnd        = "label.end"
	labelFullTime   = "label.fulltime"
	labelRecurrence = "label.recurrence"
)

// Template names handed to the external page rendering engine.
const (
	templateCreate          = "notify.appointment.create"
	templateUpdate          = "notify.appointment.update"
	templateDelete          = "notify.appointment.delete"
	templateException       = "notify.appointment.createexception"
	templateStateChanged    = "notify.appointment.statechanged"
	templateCounter         = "notify.appointment.counter"
	templateRefresh         = "notify.appointment.refresh"
	templateDeclineCounter  = "notify.appointment.declinecounter"
	templateParticipantless = "notify.appointment.removed"
)
