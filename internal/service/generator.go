// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package service contains the notification mail generation core: the
// role-sensitive state machine, the change-relevance filter and the
// delegation phrasing that together decide whether, what kind of, and with
// which text a notification is produced for each participant of a changed
// calendar event.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
	"github.com/open-xchange/appsuite-middleware-sub049/pkg/utils"
)

// GeneratorConfig carries everything a generator run needs. Participants,
// snapshots and acting user come from the event-lifecycle orchestrator; the
// collaborators are injected.
type GeneratorConfig struct {
	Participants []*models.Participant
	// Original is nil for freshly created events and for single-snapshot
	// runs such as deletions and refresh requests; supplying two snapshots
	// that do not differ turns the whole run into a no-op.
	Original *models.Event
	Updated  *models.Event
	Actor        *models.Participant
	OnBehalfOf   *models.Participant

	Resolver         domain.OccurrenceResolver
	AttachmentMemory domain.AttachmentMemory
	StringTable      models.StringTable
	PlainStrategy    models.RenderingStrategy
	HTMLStrategy     models.RenderingStrategy

	// DefaultLocale is used for recipients without a locale of their own.
	DefaultLocale string

	// Clock is injected for tests; defaults to time.Now.
	Clock func() time.Time
}

// MailGenerator produces, per participant and operation, either a fully
// rendered notification envelope or nil. The diff between the two snapshots
// is computed once at construction and shared by every decision of the run.
type MailGenerator struct {
	participants []*models.Participant
	original     *models.Event
	updated      *models.Event
	diff         *models.EventDiff

	actor      *models.Participant
	organizer  *models.Participant
	principal  *models.Participant
	onBehalfOf *models.Participant

	state  mailGeneratorState
	phrase delegationPhrase
	filter *changeFilter

	resolver      domain.OccurrenceResolver
	table         models.StringTable
	plain         models.RenderingStrategy
	html          models.RenderingStrategy
	defaultLocale string
}

// NewMailGenerator resolves the actor's role, computes the diff, and selects
// the initial state for a generator run.
func NewMailGenerator(cfg GeneratorConfig) (*MailGenerator, error) {
	if cfg.Updated == nil {
		return nil, domain.NewValidationError("updated event snapshot is required")
	}
	if cfg.Actor == nil {
		return nil, domain.NewValidationError("acting user is required")
	}
	if cfg.Resolver == nil {
		return nil, domain.NewValidationError("occurrence resolver is required")
	}
	if cfg.StringTable == nil || cfg.PlainStrategy == nil || cfg.HTMLStrategy == nil {
		return nil, domain.NewValidationError("string table and rendering strategies are required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	g := &MailGenerator{
		participants:  cfg.Participants,
		original:      cfg.Original,
		updated:       cfg.Updated,
		diff:          models.ComputeEventDiff(cfg.Original, cfg.Updated),
		actor:         cfg.Actor,
		onBehalfOf:    cfg.OnBehalfOf,
		resolver:      cfg.Resolver,
		table:         cfg.StringTable,
		plain:         cfg.PlainStrategy,
		html:          cfg.HTMLStrategy,
		defaultLocale: cfg.DefaultLocale,
	}

	for _, p := range cfg.Participants {
		if g.organizer == nil && p.HasRole(models.RoleOrganizer) {
			g.organizer = p
		}
		if g.principal == nil && p.HasRole(models.RolePrincipal) {
			g.principal = p
		}
	}

	g.state = g.selectState()
	g.phrase = selectDelegationPhrase(g.actor, g.principal, g.onBehalfOf)
	g.filter = &changeFilter{
		resolver:    cfg.Resolver,
		attachments: cfg.AttachmentMemory,
		now:         clock,
	}

	return g, nil
}

// selectState resolves the actor's role relative to the event. A non-nil,
// empty diff overrides the role: nothing actually changed, so no operation
// may produce a message.
func (g *MailGenerator) selectState() mailGeneratorState {
	if g.diff != nil && g.diff.IsEmpty() {
		return doNothingState{}
	}
	if g.actor.HasRole(models.RoleOrganizer) || g.actor.HasRole(models.RolePrincipal) {
		return organizerState{}
	}
	if g.organizer == nil || g.organizer.External {
		return attendeeExternalOrganizerState{}
	}
	return attendeeInternalOrganizerState{}
}

// MarkActorVirtual converts the acting participant into a synthetic,
// self-excluded actor. Used when the system itself, not a user, caused the
// change: the stand-in keeps the self-notification rule from suppressing
// anyone's mail.
func (g *MailGenerator) MarkActorVirtual() {
	g.actor = g.actor.AsVirtual()
	g.phrase = selectDelegationPhrase(g.actor, g.principal, g.onBehalfOf)
}

// Diff exposes the compute-once diff snapshot shared by the whole run.
func (g *MailGenerator) Diff() *models.EventDiff {
	return g.diff
}

// GenerateCreateMailFor produces the invitation for a freshly created event,
// or nil when no message is warranted for the recipient.
func (g *MailGenerator) GenerateCreateMailFor(ctx context.Context, email string) *models.NotificationMail {
	return g.generate(ctx, email, "create", mailGeneratorState.create, true)
}

// GenerateUpdateMailFor produces the message describing an event change.
func (g *MailGenerator) GenerateUpdateMailFor(ctx context.Context, email string) *models.NotificationMail {
	return g.generate(ctx, email, "update", mailGeneratorState.update, true)
}

// GenerateDeleteMailFor produces the cancellation (or self-removal) message.
func (g *MailGenerator) GenerateDeleteMailFor(ctx context.Context, email string) *models.NotificationMail {
	return g.generate(ctx, email, "delete", mailGeneratorState.delete, false)
}

// GenerateCreateExceptionMailFor produces the message for a newly carved-out
// change exception of a recurring series.
func (g *MailGenerator) GenerateCreateExceptionMailFor(ctx context.Context, email string) *models.NotificationMail {
	return g.generate(ctx, email, "create_exception", mailGeneratorState.createException, true)
}

// GenerateRefreshMailFor produces the request asking the organizer to
// resend full event details.
func (g *MailGenerator) GenerateRefreshMailFor(ctx context.Context, email string) *models.NotificationMail {
	return g.generate(ctx, email, "refresh", mailGeneratorState.refresh, false)
}

// GenerateDeclineCounterMailFor produces the organizer's rejection of an
// attendee's counter proposal.
func (g *MailGenerator) GenerateDeclineCounterMailFor(ctx context.Context, email string) *models.NotificationMail {
	return g.generate(ctx, email, "decline_counter", mailGeneratorState.declineCounter, false)
}

type stateOperation func(mailGeneratorState, *MailGenerator, *models.Participant) *models.NotificationMail

func (g *MailGenerator) generate(ctx context.Context, email, operation string, op stateOperation, gated bool) *models.NotificationMail {
	recipient := models.FindParticipant(g.participants, email)
	if recipient == nil {
		slog.DebugContext(ctx, "recipient is not a participant of this run", "recipient", email)
		return nil
	}

	// A person is never notified of their own action. Virtual actors stand
	// in for unattributed changes and are exempt.
	if recipient.Is(g.actor) && !g.actor.Virtual {
		return nil
	}

	mail := op(g.state, g, recipient)
	if mail == nil {
		return nil
	}

	ctx = logging.AppendCtx(ctx, slog.String("operation", operation))
	switch {
	case mail.IsCancelMail():
		// Cancellations bypass the generic gate no matter which operation
		// produced them.
		if !g.filter.shouldSendCancel(mail) {
			slog.DebugContext(ctx, "cancellation suppressed for past occurrence", "recipient", email)
			return nil
		}
	case gated && !g.filter.ShouldSend(mail):
		slog.DebugContext(ctx, "notification suppressed by change filter",
			"recipient", email, "state_type", string(mail.StateType))
		return nil
	}

	slog.DebugContext(ctx, "generated notification mail",
		"recipient", email,
		"state_type", string(mail.StateType),
		"method", string(mail.Method))
	return mail
}

// newMail fills a fresh envelope with the run-wide context for one
// recipient.
func (g *MailGenerator) newMail(recipient *models.Participant, state models.StateType, method models.ITIPMethod, template string) *models.NotificationMail {
	mail := models.NewNotificationMail(recipient, g.original, g.updated, g.diff)
	mail.Sender = g.actor
	mail.Organizer = g.organizer
	mail.Principal = g.principal
	mail.OnBehalfOf = g.onBehalfOf
	mail.Actor = g.actor
	mail.StateType = state
	mail.Method = method
	mail.Template = template
	return mail
}

// newNoticeMail builds an internal-only notice that carries no calendaring
// protocol payload.
func (g *MailGenerator) newNoticeMail(recipient *models.Participant, state models.StateType, template string) *models.NotificationMail {
	mail := g.newMail(recipient, state, models.MethodNone, template)
	mail.InternalNotice = true
	return mail
}

// newExceptionMail builds the envelope of a change-exception message. The
// displayed interval is recalculated against the concrete recurrence
// occurrence before rendering; occurrence lookup is owned by the resolver.
func (g *MailGenerator) newExceptionMail(recipient *models.Participant, state models.StateType, method models.ITIPMethod) *models.NotificationMail {
	mail := g.newMail(recipient, state, method, templateException)
	g.recalculateOccurrence(mail)
	return mail
}

func (g *MailGenerator) newExceptionNotice(recipient *models.Participant, state models.StateType) *models.NotificationMail {
	mail := g.newNoticeMail(recipient, state, templateException)
	g.recalculateOccurrence(mail)
	return mail
}

func (g *MailGenerator) recalculateOccurrence(mail *models.NotificationMail) {
	start, end, err := g.resolver.OccurrenceAt(g.updated, g.updated.StartDate)
	if err != nil {
		// Ambiguous or unresolvable occurrence: render with the snapshot's
		// own interval rather than failing the notification.
		return
	}
	display := g.updated.Clone()
	display.StartDate = start
	display.EndDate = end
	mail.Updated = display
}

// actorStatus returns the acting user's new confirmation status from the
// diff, when the run is about a confirmation change.
func (g *MailGenerator) actorStatus() models.ConfirmStatus {
	if status, ok := g.diff.StatusOf(g.actor.Email); ok {
		return status
	}
	if attendee, ok := g.updated.Attendee(g.actor.Email); ok {
		return attendee.Status
	}
	return models.ConfirmNone
}

func (g *MailGenerator) actorStatusState() models.StateType {
	switch g.actorStatus() {
	case models.ConfirmAccepted:
		return models.StateAccepted
	case models.ConfirmDeclined:
		return models.StateDeclined
	case models.ConfirmTentative:
		return models.StateTentative
	default:
		return models.StateNoneAccepted
	}
}

// render fills the envelope's subject and plain/styled body text. Both
// renditions carry identical semantic content; only the per-argument
// wrapping differs.
func (g *MailGenerator) render(mail *models.NotificationMail, intro *models.Sentence) {
	locale := utils.CoalesceString(mail.Recipient.Locale, g.defaultLocale)

	sentences := []*models.Sentence{intro}
	sentences = append(sentences, g.whenSentence(mail)...)
	sentences = append(sentences, g.changeSummary(mail)...)

	mail.Subject = g.subject(mail, locale)
	mail.Text = renderSentences(sentences, locale, g.table, g.plain, "\n")
	mail.HTML = renderSentences(sentences, locale, g.table, g.html, "<br>")
}

func renderSentences(sentences []*models.Sentence, locale string, table models.StringTable, strategy models.RenderingStrategy, sep string) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		parts = append(parts, s.Render(locale, table, strategy))
	}
	return strings.Join(parts, sep)
}

func (g *MailGenerator) whenSentence(mail *models.NotificationMail) []*models.Sentence {
	event := mail.Updated
	if event == nil {
		return nil
	}
	return []*models.Sentence{
		models.NewSentence(msgWhen).
			Add(event.StartDate, models.ArgUpdated).
			Add(event.EndDate, models.ArgUpdated),
	}
}

// changeSummary lists the externally visible scalar changes of an update so
// the recipient can see what moved without comparing snapshots.
func (g *MailGenerator) changeSummary(mail *models.NotificationMail) []*models.Sentence {
	if mail.StateType != models.StateModified || mail.Diff == nil {
		return nil
	}

	labels := map[models.EventField]string{
		models.FieldTitle:          labelTitle,
		models.FieldLocation:       labelLocation,
		models.FieldNote:           labelNote,
		models.FieldStartDate:      labelStart,
		models.FieldEndDate:        labelEnd,
		models.FieldFullTime:       labelFullTime,
		models.FieldRecurrenceRule: labelRecurrence,
	}

	var sentences []*models.Sentence
	for _, field := range mail.Diff.Fields() {
		label, ok := labels[field]
		if !ok {
			continue
		}
		update, _ := mail.Diff.Update(field)
		sentences = append(sentences, models.NewSentence(msgChangedField).
			AddShownAs(label, nil).
			Add(update.Old, models.ArgOriginal).
			Add(update.New, models.ArgUpdated))
	}
	return sentences
}

func (g *MailGenerator) subject(mail *models.NotificationMail, locale string) string {
	var key string
	switch mail.StateType {
	case models.StateNew:
		key = subjectNew
	case models.StateDeleted:
		key = subjectDeleted
	case models.StateAccepted, models.StateDeclined, models.StateTentative, models.StateNoneAccepted:
		key = subjectStateChanged
	case models.StateRefresh:
		key = subjectRefresh
	case models.StateDeclineCounter:
		key = subjectDeclineCounter
	default:
		if mail.Method == models.MethodCounter {
			key = subjectCounter
		} else {
			key = subjectModified
		}
	}

	subject := g.table.Lookup(key, locale)
	if title := mail.Updated.Title; title != "" {
		return subject + ": " + title
	}
	return subject
}
