// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import (
	"time"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// OccurrenceResolver answers the recurrence questions the notification core
// needs without reimplementing recurrence math. Tie-break rules for
// ambiguous occurrence lookups are owned by the implementation.
type OccurrenceResolver interface {
	// SeriesEnd returns the end time of the last occurrence of the event.
	// For non-recurring events this is the event's end date. Returns nil for
	// unbounded recurrence (the series never ends).
	SeriesEnd(event *models.Event) *time.Time

	// OccurrenceAt resolves the concrete occurrence of a recurring event
	// that covers the given hint time, returning its start and end. Used to
	// recalculate the displayed interval of change-exception and refresh
	// messages before rendering.
	OccurrenceAt(event *models.Event, hint time.Time) (start, end time.Time, err error)
}
