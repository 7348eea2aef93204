// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package messaging receives event change messages from NATS and hands them
// to the notification orchestrator.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
)

// NATS subjects and queue group of the notification daemon.
const (
	EventChangeSubject = "notify.calendar.event.change"
	QueueName          = "notify-daemon"
)

// Operation names the calendar operation a change message is about.
type Operation string

const (
	OperationCreate          Operation = "create"
	OperationUpdate          Operation = "update"
	OperationDelete          Operation = "delete"
	OperationCreateException Operation = "create_exception"
	OperationRefresh         Operation = "refresh"
	OperationDeclineCounter  Operation = "decline_counter"
)

// EventChangeMessage is the wire payload of one calendar operation: the
// event snapshots around it, who performed it, and who is to be considered
// for notification.
type EventChangeMessage struct {
	Operation       Operation            `json:"operation"`
	ActorEmail      string               `json:"actor_email"`
	OnBehalfOfEmail string               `json:"on_behalf_of_email,omitempty"`
	Participants    []models.Participant `json:"participants"`
	Original        *models.Event        `json:"original,omitempty"`
	Updated         *models.Event        `json:"updated,omitempty"`
}

// Validate checks the structural invariants of a change message.
func (m *EventChangeMessage) Validate() error {
	switch m.Operation {
	case OperationCreate, OperationUpdate, OperationDelete,
		OperationCreateException, OperationRefresh, OperationDeclineCounter:
	default:
		return domain.NewValidationError("unknown operation " + string(m.Operation))
	}
	if m.ActorEmail == "" {
		return domain.NewValidationError("actor email is required")
	}
	if m.Updated == nil && m.Original == nil {
		return domain.NewValidationError("message carries no event snapshot")
	}
	if len(m.Participants) == 0 {
		return domain.NewValidationError("participant list is empty")
	}
	return nil
}

// Handler processes one validated change message.
type Handler func(ctx context.Context, msg *EventChangeMessage) error

// NatsConn is the NATS connection surface the ingress needs.
type NatsConn interface {
	IsConnected() bool
	QueueSubscribe(subj, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Ingress subscribes to the event change subject and dispatches each message
// to the handler. Messages that fail validation are logged and dropped;
// handler errors are logged but do not stop the subscription.
type Ingress struct {
	conn    NatsConn
	handler Handler
}

// NewIngress creates an ingress for the given connection and handler.
func NewIngress(conn NatsConn, handler Handler) *Ingress {
	return &Ingress{conn: conn, handler: handler}
}

// Start creates the queue subscription. The passed context is attached to
// every dispatched message.
func (i *Ingress) Start(ctx context.Context) (*nats.Subscription, error) {
	if !i.conn.IsConnected() {
		return nil, domain.NewUnavailableError("NATS connection is not established")
	}
	sub, err := i.conn.QueueSubscribe(EventChangeSubject, QueueName, func(msg *nats.Msg) {
		i.dispatch(ctx, msg.Data)
	})
	if err != nil {
		slog.ErrorContext(ctx, "error subscribing to event change subject", logging.ErrKey, err)
		return nil, err
	}
	slog.DebugContext(ctx, "subscribed to event change subject", "subject", EventChangeSubject, "queue", QueueName)
	return sub, nil
}

// dispatch unmarshals, validates and handles one raw message.
func (i *Ingress) dispatch(ctx context.Context, data []byte) {
	var msg EventChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling event change message", logging.ErrKey, err)
		return
	}
	ctx = logging.AppendCtx(ctx, slog.String("operation", string(msg.Operation)))
	ctx = logging.AppendCtx(ctx, slog.String("actor_email", msg.ActorEmail))

	if err := msg.Validate(); err != nil {
		slog.WarnContext(ctx, "dropping invalid event change message", logging.ErrKey, err)
		return
	}
	if err := i.handler(ctx, &msg); err != nil {
		slog.ErrorContext(ctx, "error handling event change message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "handled event change message")
}
