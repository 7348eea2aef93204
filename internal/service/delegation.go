// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package service

import (
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// delegationPhrase produces the introductory sentences of a notification,
// phrased according to whose behalf the action was taken on. Exactly three
// phrasings exist; one is selected per generator run and applied to every
// sentence of that run.
type delegationPhrase interface {
	StatusChange(actor *models.Participant, status models.ConfirmStatus) *models.Sentence
	CreateIntro() *models.Sentence
	UpdateIntro() *models.Sentence
	DeleteIntro() *models.Sentence
	DeclineCounterIntro() *models.Sentence
}

// selectDelegationPhrase picks the phrasing for a run. "On my behalf"
// addresses the principal whose calendar was acted on by someone else;
// "on behalf of another" names the delegate; otherwise the plain phrasing
// applies.
func selectDelegationPhrase(actor, principal, onBehalfOf *models.Participant) delegationPhrase {
	switch {
	case principal != nil && actor != nil && !actor.Is(principal) &&
		(onBehalfOf == nil || onBehalfOf.Is(principal)):
		return &onMyBehalfPhrase{actor: actor}
	case onBehalfOf != nil && actor != nil && !actor.Is(onBehalfOf) &&
		(principal == nil || !actor.Is(principal)):
		return &onBehalfOfAnotherPhrase{actor: actor, delegate: onBehalfOf}
	default:
		return &noDelegationPhrase{actor: actor}
	}
}

// noDelegationPhrase is the plain first-person phrasing: the actor acted for
// themselves.
type noDelegationPhrase struct {
	actor *models.Participant
}

func (p *noDelegationPhrase) StatusChange(actor *models.Participant, status models.ConfirmStatus) *models.Sentence {
	return models.NewSentence(msgStatusChange).
		Add(actor.Name(), models.ArgParticipant).
		AddStatus(status, models.StatusNoneKey)
}

func (p *noDelegationPhrase) CreateIntro() *models.Sentence {
	return models.NewSentence(msgCreateIntro).Add(p.actor.Name(), models.ArgParticipant)
}

func (p *noDelegationPhrase) UpdateIntro() *models.Sentence {
	return models.NewSentence(msgUpdateIntro).Add(p.actor.Name(), models.ArgParticipant)
}

func (p *noDelegationPhrase) DeleteIntro() *models.Sentence {
	return models.NewSentence(msgDeleteIntro).Add(p.actor.Name(), models.ArgParticipant)
}

func (p *noDelegationPhrase) DeclineCounterIntro() *models.Sentence {
	return models.NewSentence(msgDeclineCounterIntro).Add(p.actor.Name(), models.ArgParticipant)
}

// onMyBehalfPhrase phrases everything as "X did this for you": the
// recipient is the principal the action was taken for.
type onMyBehalfPhrase struct {
	actor *models.Participant
}

func (p *onMyBehalfPhrase) StatusChange(actor *models.Participant, status models.ConfirmStatus) *models.Sentence {
	return models.NewSentence(msgStatusOnMyBehalf).
		Add(actor.Name(), models.ArgParticipant).
		AddStatus(status, models.StatusNoneKey)
}

func (p *onMyBehalfPhrase) CreateIntro() *models.Sentence {
	return models.NewSentence(msgCreateOnMyBehalf).Add(p.actor.Name(), models.ArgParticipant)
}

func (p *onMyBehalfPhrase) UpdateIntro() *models.Sentence {
	return models.NewSentence(msgUpdateOnMyBehalf).Add(p.actor.Name(), models.ArgParticipant)
}

func (p *onMyBehalfPhrase) DeleteIntro() *models.Sentence {
	return models.NewSentence(msgDeleteOnMyBehalf).Add(p.actor.Name(), models.ArgParticipant)
}

func (p *onMyBehalfPhrase) DeclineCounterIntro() *models.Sentence {
	return models.NewSentence(msgDeclineCounterIntro).Add(p.actor.Name(), models.ArgParticipant)
}

// onBehalfOfAnotherPhrase additionally names the delegate the action was
// taken for.
type onBehalfOfAnotherPhrase struct {
	actor    *models.Participant
	delegate *models.Participant
}

func (p *onBehalfOfAnotherPhrase) StatusChange(actor *models.Participant, status models.ConfirmStatus) *models.Sentence {
	return models.NewSentence(msgStatusOnBehalf).
		Add(actor.Name(), models.ArgParticipant).
		AddStatus(status, models.StatusNoneKey).
		Add(p.delegate.Name(), models.ArgParticipant)
}

func (p *onBehalfOfAnotherPhrase) CreateIntro() *models.Sentence {
	return models.NewSentence(msgCreateOnBehalf).
		Add(p.actor.Name(), models.ArgParticipant).
		Add(p.delegate.Name(), models.ArgParticipant)
}

func (p *onBehalfOfAnotherPhrase) UpdateIntro() *models.Sentence {
	return models.NewSentence(msgUpdateOnBehalf).
		Add(p.actor.Name(), models.ArgParticipant).
		Add(p.delegate.Name(), models.ArgParticipant)
}

func (p *onBehalfOfAnotherPhrase) DeleteIntro() *models.Sentence {
	return models.NewSentence(msgDeleteOnBehalf).
		Add(p.actor.Name(), models.ArgParticipant).
		Add(p.delegate.Name(), models.ArgParticipant)
}

func (p *onBehalfOfAnotherPhrase) DeclineCounterIntro() *models.Sentence {
	return models.NewSentence(msgDeclineCounterIntro).Add(p.actor.Name(), models.ArgParticipant)
}
