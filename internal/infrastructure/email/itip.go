// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package email

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// ProdID identifies this service in generated calendar payloads.
const ProdID = "-//Open-Xchange//OX App Suite Notification Service//EN"

// AttachmentFilename is the fixed name of the calendar part.
const AttachmentFilename = "invite.ics"

// ITIPGenerator renders the calendaring protocol part of a notification
// mail as an iCalendar attachment.
type ITIPGenerator struct {
	now func() time.Time
}

// NewITIPGenerator creates a generator stamping payloads with the current
// wall clock time.
func NewITIPGenerator() *ITIPGenerator {
	return &ITIPGenerator{now: time.Now}
}

// Ensure [ITIPGenerator] implements [domain.ITIPPartGenerator]
var _ domain.ITIPPartGenerator = (*ITIPGenerator)(nil)

// GenerateITIPPart builds the iCalendar attachment for a notification mail.
// The mail must carry a protocol method; internal notices have none.
func (g *ITIPGenerator) GenerateITIPPart(mail *models.NotificationMail) (models.MailAttachment, error) {
	if !mail.CarriesITIP() {
		return models.MailAttachment{}, domain.NewValidationError("mail carries no calendaring protocol method")
	}
	event := mail.Updated
	if event == nil {
		event = mail.Original
	}
	if event == nil {
		return models.MailAttachment{}, domain.NewValidationError("mail carries no event snapshot")
	}

	method, err := calendarMethod(mail.Method)
	if err != nil {
		return models.MailAttachment{}, err
	}

	cal := ics.NewCalendar()
	cal.SetProductId(ProdID)
	cal.SetMethod(method)

	ve := cal.AddEvent(eventUID(event))
	ve.SetDtStampTime(g.now().UTC())
	ve.SetProperty(ics.ComponentPropertySequence, strconv.Itoa(event.Sequence))
	ve.SetSummary(event.Title)
	if event.Location != "" {
		ve.SetLocation(event.Location)
	}
	if event.Note != "" {
		ve.SetDescription(event.Note)
	}

	if event.FullTime {
		ve.SetAllDayStartAt(event.StartDate)
		ve.SetAllDayEndAt(event.EndDate)
	} else {
		ve.SetStartAt(event.StartDate.UTC())
		ve.SetEndAt(event.EndDate.UTC())
	}

	if event.RecurrenceRule != "" && !event.IsException() {
		ve.SetProperty(ics.ComponentPropertyRrule, event.RecurrenceRule)
	}
	if event.IsException() && event.RecurrenceDatePos != nil {
		ve.SetProperty(ics.ComponentPropertyRecurrenceId,
			event.RecurrenceDatePos.UTC().Format("20060102T150405Z"))
	}

	if organizer := mail.Organizer; organizer != nil {
		ve.SetOrganizer("mailto:"+organizer.Email, ics.WithCN(organizer.Name()))
	}
	g.addAttendees(ve, mail, event)

	if mail.IsCancelMail() {
		ve.SetStatus(ics.ObjectStatusCancelled)
	}

	return models.MailAttachment{
		Filename:    AttachmentFilename,
		ContentType: fmt.Sprintf("text/calendar; charset=UTF-8; method=%s", string(mail.Method)),
		Content:     base64.StdEncoding.EncodeToString([]byte(cal.Serialize())),
	}, nil
}

// addAttendees fills the ATTENDEE properties. A REPLY speaks for the acting
// attendee alone; every other method carries the full participant list.
func (g *ITIPGenerator) addAttendees(ve *ics.VEvent, mail *models.NotificationMail, event *models.Event) {
	if mail.Method == models.MethodReply {
		actor := mail.Actor
		if actor == nil {
			return
		}
		status := models.ConfirmNone
		if entry, ok := event.Attendee(actor.Email); ok {
			status = entry.Status
		}
		ve.AddAttendee(actor.Email, ics.WithCN(actor.Name()), participationStatus(status))
		return
	}
	for _, attendee := range event.Attendees {
		params := []ics.PropertyParameter{
			ics.WithCN(attendee.Name()),
			participationStatus(attendee.Status),
			ics.ParticipationRoleReqParticipant,
		}
		if attendee.Type == models.AttendeeTypeResource {
			params = append(params, ics.CalendarUserTypeResource)
		} else {
			params = append(params, ics.CalendarUserTypeIndividual)
		}
		ve.AddAttendee(attendee.Email, params...)
	}
}

func calendarMethod(method models.ITIPMethod) (ics.Method, error) {
	switch method {
	case models.MethodRequest:
		return ics.MethodRequest, nil
	case models.MethodCancel:
		return ics.MethodCancel, nil
	case models.MethodReply:
		return ics.MethodReply, nil
	case models.MethodCounter:
		return ics.MethodCounter, nil
	case models.MethodRefresh:
		return ics.MethodRefresh, nil
	case models.MethodDeclineCounter:
		return ics.MethodDeclinecounter, nil
	default:
		return "", domain.NewValidationError(fmt.Sprintf("unsupported protocol method %q", method))
	}
}

func participationStatus(status models.ConfirmStatus) ics.PropertyParameter {
	switch status {
	case models.ConfirmAccepted:
		return ics.ParticipationStatusAccepted
	case models.ConfirmDeclined:
		return ics.ParticipationStatusDeclined
	case models.ConfirmTentative:
		return ics.ParticipationStatusTentative
	default:
		return ics.ParticipationStatusNeedsAction
	}
}

// eventUID returns the stable calendar object identifier, synthesizing one
// from the database identity for legacy events that never stored a UID.
func eventUID(event *models.Event) string {
	if event.UID != "" {
		return event.UID
	}
	return fmt.Sprintf("%d-%d@appsuite.open-xchange.com", event.ContextID, event.ID)
}
