// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recurrence answers the recurrence questions of the notification
// core by expanding RRULE series.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// Resolver expands an event's recurrence rule on demand. It is stateless
// and safe for concurrent use.
type Resolver struct{}

// NewResolver creates a rule-expanding occurrence resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Ensure [Resolver] implements [domain.OccurrenceResolver]
var _ domain.OccurrenceResolver = (*Resolver)(nil)

// SeriesEnd returns the end of the last occurrence of the event, nil for
// unbounded series. Non-recurring events end with their own end date.
func (r *Resolver) SeriesEnd(event *models.Event) *time.Time {
	if event == nil {
		return nil
	}
	if !event.IsRecurring() {
		end := event.EndDate
		return &end
	}

	set, err := ruleSet(event)
	if err != nil {
		// An unparsable rule falls back to the mirrored UNTIL bound.
		if event.Until != nil {
			end := event.Until.Add(event.EndDate.Sub(event.StartDate))
			return &end
		}
		return nil
	}
	if unbounded(set) {
		return nil
	}

	occurrences := set.All()
	if len(occurrences) == 0 {
		end := event.EndDate
		return &end
	}
	end := occurrences[len(occurrences)-1].Add(event.EndDate.Sub(event.StartDate))
	return &end
}

// OccurrenceAt resolves the occurrence of a recurring event that covers the
// hint time. When no occurrence is in progress at the hint, the next
// upcoming one is returned.
func (r *Resolver) OccurrenceAt(event *models.Event, hint time.Time) (time.Time, time.Time, error) {
	if event == nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("event is required")
	}
	if !event.IsRecurring() {
		return event.StartDate, event.EndDate, nil
	}

	set, err := ruleSet(event)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError(
			fmt.Sprintf("invalid recurrence rule %q", event.RecurrenceRule), err)
	}
	duration := event.EndDate.Sub(event.StartDate)
	hint = hint.In(event.StartDate.Location())

	if current := set.Before(hint, true); !current.IsZero() && current.Add(duration).After(hint) {
		return current, current.Add(duration), nil
	}
	next := set.After(hint, false)
	if next.IsZero() {
		return time.Time{}, time.Time{}, domain.NewNotFoundError(
			fmt.Sprintf("no occurrence at or after %s", hint.Format(time.RFC3339)))
	}
	return next, next.Add(duration), nil
}

// ruleSet builds the expansion set of a series master, with the carved-out
// exception occurrences excluded.
func ruleSet(event *models.Event) (*rrule.Set, error) {
	rule, err := rrule.StrToRRule(event.RecurrenceRule)
	if err != nil {
		return nil, err
	}
	rule.DTStart(event.StartDate)

	var set rrule.Set
	set.RRule(rule)
	for _, exception := range event.ChangeExceptions {
		set.ExDate(exception.In(event.StartDate.Location()))
	}
	return &set, nil
}

// unbounded reports whether the set's rule has neither UNTIL nor COUNT.
func unbounded(set *rrule.Set) bool {
	rule := set.GetRRule()
	if rule == nil {
		return false
	}
	return rule.OrigOptions.Until.IsZero() && rule.OrigOptions.Count == 0
}
