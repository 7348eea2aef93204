// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package service

import (
	"time"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// changeFilter is the suppression pipeline: given a filled envelope it
// decides whether sending the notification is warranted at all, and whether
// the recipient's policy wants to be told about this particular category of
// change. Every predicate is a pure query over the envelope's immutable
// inputs.
type changeFilter struct {
	resolver    domain.OccurrenceResolver
	attachments domain.AttachmentMemory
	now         func() time.Time
}

// ShouldSend evaluates the suppression pipeline in order, short-circuiting
// on the first check that decides the outcome. Idempotent for an unmodified
// envelope.
func (f *changeFilter) ShouldSend(mail *models.NotificationMail) bool {
	now := f.now()
	recipient := mail.Recipient
	diff := mail.Diff

	// A series that already ended is not worth a notification, except that a
	// force-send-on-cancel recipient still gets cancellations.
	if f.occurrenceEndsBefore(mail, now) {
		return recipient.Policy.ForceCancelMail && mail.IsCancelMail()
	}

	// Per-event opt-out.
	if mail.Updated.NotificationDisabled() {
		return false
	}

	// Freshly created but already expired items never notify. Duplicate
	// guard for the first check; kept so a nil series end on one snapshot
	// cannot leak an expired creation through.
	if mail.StateType == models.StateNew && f.endsBefore(mail.Updated, now) {
		return false
	}

	if mail.StateType == models.StateModified && f.modificationNotWorthNotifying(mail, now) {
		return false
	}

	// Deletions travel through the cancel mail path, never this gate.
	if mail.StateType == models.StateDeleted {
		return false
	}

	if !f.interestingFieldChanged(mail) {
		return false
	}

	if f.isPseudoParticipantChange(mail) {
		return false
	}

	// An attached calendaring protocol message overrides the remaining
	// preference checks for recipients that asked for invitations.
	if recipient.Policy.SendITIP && mail.CarriesITIP() {
		return true
	}

	wantsState := recipient.Policy.NotifyOnStateChange
	wantsContent := recipient.Policy.NotifyOnContentChange
	switch {
	case !wantsState && !wantsContent:
		return false
	case wantsState && !wantsContent:
		return f.aboutStateChangesOnly(diff)
	case wantsContent && !wantsState:
		return !f.aboutStateChangesOnly(diff)
	default:
		return true
	}
}

// shouldSendCancel gates cancellation mails, which bypass the generic
// pipeline: only the past-occurrence rule applies, and force-send-on-cancel
// recipients get their cancellation regardless.
func (f *changeFilter) shouldSendCancel(mail *models.NotificationMail) bool {
	if !f.occurrenceEndsBefore(mail, f.now()) {
		return true
	}
	return mail.Recipient.Policy.ForceCancelMail
}

// occurrenceEndsBefore reports whether the event's last occurrence ends
// strictly before the given instant. The later of the original and updated
// series ends is taken so a legitimately extended series is not suppressed.
func (f *changeFilter) occurrenceEndsBefore(mail *models.NotificationMail, now time.Time) bool {
	end := f.laterSeriesEnd(mail.Original, mail.Updated)
	return end != nil && end.Before(now)
}

func (f *changeFilter) laterSeriesEnd(original, updated *models.Event) *time.Time {
	end := f.resolver.SeriesEnd(updated)
	if end == nil {
		// Unbounded series never lie in the past.
		return nil
	}
	if original != nil {
		originalEnd := f.resolver.SeriesEnd(original)
		if originalEnd == nil {
			return nil
		}
		if originalEnd.After(*end) {
			end = originalEnd
		}
	}
	return end
}

func (f *changeFilter) endsBefore(event *models.Event, now time.Time) bool {
	if event == nil {
		return false
	}
	end := f.resolver.SeriesEnd(event)
	return end != nil && end.Before(now)
}

// modificationNotWorthNotifying judges whether a MODIFIED envelope concerns
// only occurrences that lie entirely in the past.
func (f *changeFilter) modificationNotWorthNotifying(mail *models.NotificationMail, now time.Time) bool {
	updated := mail.Updated
	original := mail.Original

	switch {
	case updated.IsRecurring():
		// Non-exception recurring master: suppress only if the series was
		// already over and the new version does not extend it into the
		// future.
		return f.endsBefore(original, now) && f.endsBefore(updated, now)
	case updated.IsException():
		// A newly created exception only matters if its own occurrence is
		// still ahead.
		return f.endsBefore(updated, now)
	default:
		return f.endsBefore(original, now)
	}
}

// interestingFieldChanged reports whether the diff contains anything the
// recipients should hear about. A nil diff means a freshly created item,
// which is always interesting; an attachment-only update is interesting via
// the attachment-change memory.
func (f *changeFilter) interestingFieldChanged(mail *models.NotificationMail) bool {
	diff := mail.Diff
	if diff == nil {
		return true
	}
	if f.isAttachmentOnlyUpdate(mail) {
		return true
	}
	// User-specific bookkeeping limited to change-exception and recurrence
	// position fields is noise.
	if diff.OnlyChangedOf(models.FieldChangeExceptions, models.FieldRecurrencePos, models.FieldRecurrenceDatePos) {
		return false
	}
	return diff.AnyChangedOf(models.InterestingFields...)
}

func (f *changeFilter) isAttachmentOnlyUpdate(mail *models.NotificationMail) bool {
	if mail.Diff.Contains(models.FieldAttachments) {
		return true
	}
	if f.attachments == nil || mail.Updated == nil {
		return false
	}
	return mail.Diff.IsEmpty() && f.attachments.HasRecentChange(mail.Updated.ContextID, mail.Updated.ID)
}

// isPseudoParticipantChange detects the resource swap artifact: exactly the
// participant list changed, but the identity set of RESOURCE participants is
// the same before and after.
func (f *changeFilter) isPseudoParticipantChange(mail *models.NotificationMail) bool {
	diff := mail.Diff
	if diff == nil {
		return false
	}
	if !diff.OnlyChangedOf(models.FieldParticipants, models.FieldUsers, models.FieldConfirmations) {
		return false
	}
	update, ok := diff.Update(models.FieldParticipants)
	if !ok {
		return false
	}
	for _, a := range append(append([]models.Attendee(nil), update.Added...), update.Removed...) {
		if a.Type != models.AttendeeTypeResource {
			return false
		}
	}
	for _, c := range update.Changed {
		if c.After.Type != models.AttendeeTypeResource {
			return false
		}
	}
	return stringSlicesEqual(mail.Original.ResourceIdentifiers(), mail.Updated.ResourceIdentifiers())
}

// aboutStateChangesOnly answers whether the diff boils down to participant
// confirmation bookkeeping. The per-user change-exception and recurrence
// position fields count as accompanying bookkeeping inside the predicate.
func (f *changeFilter) aboutStateChangesOnly(diff *models.EventDiff) bool {
	return diff != nil && diff.IsAboutStateChangesOnly()
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
