// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package service

import (
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// mailGeneratorState dispatches each requested operation to role-specific
// behavior. Exactly four states exist; they are selected once at generator
// construction and stored on the generator, so all variants stay
// exhaustively matchable.
type mailGeneratorState interface {
	create(g *MailGenerator, recipient *models.Participant) *models.NotificationMail
	update(g *MailGenerator, recipient *models.Participant) *models.NotificationMail
	delete(g *MailGenerator, recipient *models.Participant) *models.NotificationMail
	createException(g *MailGenerator, recipient *models.Participant) *models.NotificationMail
	refresh(g *MailGenerator, recipient *models.Participant) *models.NotificationMail
	declineCounter(g *MailGenerator, recipient *models.Participant) *models.NotificationMail
}

// organizerState handles runs where the acting user is the organizer or the
// principal of the event.
type organizerState struct{}

func (organizerState) create(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	mail := g.newMail(recipient, models.StateNew, models.MethodRequest, templateCreate)
	g.render(mail, g.phrase.CreateIntro())
	return mail
}

func (organizerState) update(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	// A recipient that was removed from the participant list gets a
	// cancellation; a newly added one gets a fresh invitation. Everyone
	// else sees a generic update.
	if g.diff.ParticipantRemoved(recipient.Email) {
		mail := g.newMail(recipient, models.StateDeleted, models.MethodCancel, templateDelete)
		g.render(mail, g.phrase.DeleteIntro())
		return mail
	}
	if g.diff.ParticipantAdded(recipient.Email) {
		mail := g.newMail(recipient, models.StateNew, models.MethodRequest, templateCreate)
		g.render(mail, g.phrase.CreateIntro())
		return mail
	}
	mail := g.newMail(recipient, models.StateModified, models.MethodRequest, templateUpdate)
	g.render(mail, g.phrase.UpdateIntro())
	return mail
}

func (organizerState) delete(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	mail := g.newMail(recipient, models.StateDeleted, models.MethodCancel, templateDelete)
	g.render(mail, g.phrase.DeleteIntro())
	return mail
}

func (organizerState) createException(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	mail := g.newExceptionMail(recipient, models.StateModified, models.MethodRequest)
	g.render(mail, models.NewSentence(msgExceptionIntro).Add(g.actor.Name(), models.ArgParticipant))
	return mail
}

func (organizerState) refresh(*MailGenerator, *models.Participant) *models.NotificationMail {
	// Organizers hold the authoritative copy; there is nobody to ask.
	return nil
}

func (organizerState) declineCounter(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	mail := g.newMail(recipient, models.StateDeclineCounter, models.MethodDeclineCounter, templateDeclineCounter)
	g.render(mail, g.phrase.DeclineCounterIntro())
	return mail
}

// attendeeExternalOrganizerState handles runs where the acting user is an
// attendee and the organizer is an external party: anything addressed to
// the organizer has to travel as a calendaring protocol message.
type attendeeExternalOrganizerState struct{}

func (attendeeExternalOrganizerState) create(*MailGenerator, *models.Participant) *models.NotificationMail {
	// Attendees never originate invitations.
	return nil
}

func (s attendeeExternalOrganizerState) update(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	onlyMyState := g.diff.IsAboutStateChangeOf(g.actor.Email)

	if recipient.Is(g.organizer) {
		if onlyMyState {
			mail := g.newMail(recipient, g.actorStatusState(), models.MethodReply, templateStateChanged)
			g.render(mail, g.phrase.StatusChange(g.actor, g.actorStatus()))
			return mail
		}
		mail := g.newMail(recipient, models.StateModified, models.MethodCounter, templateCounter)
		g.render(mail, models.NewSentence(msgCounterIntro).Add(g.actor.Name(), models.ArgParticipant))
		return mail
	}
	if recipient.External {
		// Attendees do not fan substantive changes out to other external
		// parties; that is the organizer's job.
		return nil
	}
	state := models.StateModified
	if onlyMyState {
		state = g.actorStatusState()
	}
	mail := g.newNoticeMail(recipient, state, templateStateChanged)
	if onlyMyState {
		g.render(mail, g.phrase.StatusChange(g.actor, g.actorStatus()))
	} else {
		g.render(mail, g.phrase.UpdateIntro())
	}
	return mail
}

func (attendeeExternalOrganizerState) delete(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	// Deleting as an attendee means declining and removing oneself.
	if recipient.Is(g.organizer) {
		mail := g.newMail(recipient, models.StateDeclined, models.MethodReply, templateStateChanged)
		g.render(mail, g.phrase.StatusChange(g.actor, models.ConfirmDeclined))
		return mail
	}
	if recipient.External {
		return nil
	}
	mail := g.newNoticeMail(recipient, models.StateDeclined, templateStateChanged)
	g.render(mail, g.phrase.StatusChange(g.actor, models.ConfirmDeclined))
	return mail
}

func (attendeeExternalOrganizerState) createException(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	if recipient.Is(g.organizer) {
		mail := g.newExceptionMail(recipient, models.StateModified, models.MethodCounter)
		g.render(mail, models.NewSentence(msgCounterIntro).Add(g.actor.Name(), models.ArgParticipant))
		return mail
	}
	if recipient.External {
		return nil
	}
	mail := g.newExceptionNotice(recipient, models.StateModified)
	g.render(mail, models.NewSentence(msgExceptionIntro).Add(g.actor.Name(), models.ArgParticipant))
	return mail
}

func (attendeeExternalOrganizerState) refresh(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	if !recipient.Is(g.organizer) {
		return nil
	}
	mail := g.newMail(recipient, models.StateRefresh, models.MethodRefresh, templateRefresh)
	g.render(mail, models.NewSentence(msgRefreshIntro).Add(g.actor.Name(), models.ArgParticipant))
	return mail
}

func (attendeeExternalOrganizerState) declineCounter(*MailGenerator, *models.Participant) *models.NotificationMail {
	// Only organizers reject counter proposals.
	return nil
}

// attendeeInternalOrganizerState specializes the external-organizer
// behavior for runs where the organizer lives on this system: messages to
// the organizer become local notices, and substantive changes fall back to
// the organizer-state fan-out.
type attendeeInternalOrganizerState struct {
	attendeeExternalOrganizerState
}

func (s attendeeInternalOrganizerState) update(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	onlyMyState := g.diff.IsAboutStateChangeOf(g.actor.Email)

	if recipient.Is(g.organizer) {
		if onlyMyState {
			mail := g.newNoticeMail(recipient, g.actorStatusState(), templateStateChanged)
			g.render(mail, g.phrase.StatusChange(g.actor, g.actorStatus()))
			return mail
		}
		mail := g.newNoticeMail(recipient, models.StateModified, templateUpdate)
		g.render(mail, g.phrase.UpdateIntro())
		return mail
	}
	if onlyMyState {
		if recipient.External {
			return nil
		}
		mail := g.newNoticeMail(recipient, g.actorStatusState(), templateStateChanged)
		g.render(mail, g.phrase.StatusChange(g.actor, g.actorStatus()))
		return mail
	}
	return organizerState{}.update(g, recipient)
}

func (s attendeeInternalOrganizerState) delete(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	if !recipient.Is(g.organizer) && !recipient.External {
		// The attendee sees the actor's own removal as an event change, not
		// as a cancellation of the whole series.
		reduced := g.updated.WithoutAttendee(g.actor.Email)
		mail := g.newMail(recipient, models.StateDeleted, models.MethodRequest, templateParticipantless)
		mail.Updated = reduced
		mail.Diff = models.ComputeEventDiff(g.updated, reduced)
		g.render(mail, models.NewSentence(msgSelfRemoved).Add(g.actor.Name(), models.ArgParticipant))
		return mail
	}
	return s.attendeeExternalOrganizerState.delete(g, recipient)
}

func (s attendeeInternalOrganizerState) createException(g *MailGenerator, recipient *models.Participant) *models.NotificationMail {
	if recipient.Is(g.organizer) {
		mail := g.newExceptionNotice(recipient, models.StateModified)
		g.render(mail, models.NewSentence(msgExceptionIntro).Add(g.actor.Name(), models.ArgParticipant))
		return mail
	}
	return organizerState{}.createException(g, recipient)
}

func (s attendeeInternalOrganizerState) declineCounter(*MailGenerator, *models.Participant) *models.NotificationMail {
	// Rejecting a counter proposal from the attendee side has no defined
	// meaning; deliberately absent pending product clarification.
	return nil
}

// doNothingState is the terminal state selected when the diff reports zero
// differing fields: every operation yields no message.
type doNothingState struct{}

func (doNothingState) create(*MailGenerator, *models.Participant) *models.NotificationMail {
	return nil
}

func (doNothingState) update(*MailGenerator, *models.Participant) *models.NotificationMail {
	return nil
}

func (doNothingState) delete(*MailGenerator, *models.Participant) *models.NotificationMail {
	return nil
}

func (doNothingState) createException(*MailGenerator, *models.Participant) *models.NotificationMail {
	return nil
}

func (doNothingState) refresh(*MailGenerator, *models.Participant) *models.NotificationMail {
	return nil
}

func (doNothingState) declineCounter(*MailGenerator, *models.Participant) *models.NotificationMail {
	return nil
}
