// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidHeaderName is returned when an additional mail header does not
// use the experimental "X-" prefix.
var ErrInvalidHeaderName = errors.New("additional header name must start with X-")

// StateType tags the kind of state transition a notification mail is about.
type StateType string

const (
	StateNew            StateType = "new"
	StateModified       StateType = "modified"
	StateDeleted        StateType = "deleted"
	StateAccepted       StateType = "accepted"
	StateDeclined       StateType = "declined"
	StateTentative      StateType = "tentative"
	StateNoneAccepted   StateType = "none_accepted"
	StateRefresh        StateType = "refresh"
	StateDeclineCounter StateType = "decline_counter"
)

// ITIPMethod is the calendaring protocol method of the message attached to a
// notification, selecting how a consuming calendar client interprets it.
type ITIPMethod string

const (
	MethodNone           ITIPMethod = ""
	MethodRequest        ITIPMethod = "REQUEST"
	MethodCancel         ITIPMethod = "CANCEL"
	MethodReply          ITIPMethod = "REPLY"
	MethodCounter        ITIPMethod = "COUNTER"
	MethodRefresh        ITIPMethod = "REFRESH"
	MethodDeclineCounter ITIPMethod = "DECLINECOUNTER"
)

// MailAttachment is one attachment of a notification mail.
type MailAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"` // base64 encoded
}

// NotificationMail is the mutable per-(recipient, operation) carrier of
// everything needed to render and dispatch one notification. It is created
// fresh for each recipient and discarded after rendering; the diff it
// carries is the shared, compute-once snapshot of the generator run.
type NotificationMail struct {
	UID string

	Recipient  *Participant
	Sender     *Participant
	Organizer  *Participant
	Principal  *Participant
	OnBehalfOf *Participant
	Actor      *Participant

	Original *Event
	Updated  *Event
	Diff     *EventDiff

	StateType StateType
	Method    ITIPMethod
	Template  string

	Subject string
	Text    string
	HTML    string

	// InternalNotice marks mails that only inform an internal recipient and
	// must not carry a calendaring protocol payload.
	InternalNotice bool

	Attachments       []MailAttachment
	additionalHeaders map[string]string
}

// NewNotificationMail creates an envelope for one recipient. The diff must
// be the generator-run-wide snapshot so all recipients decide on identical
// data.
func NewNotificationMail(recipient *Participant, original, updated *Event, diff *EventDiff) *NotificationMail {
	return &NotificationMail{
		UID:       uuid.New().String(),
		Recipient: recipient,
		Original:  original,
		Updated:   updated,
		Diff:      diff,
	}
}

// CarriesITIP reports whether a calendaring protocol message is attached.
func (m *NotificationMail) CarriesITIP() bool {
	return m != nil && m.Method != MethodNone && !m.InternalNotice
}

// IsCancelMail reports whether this is a cancellation message.
func (m *NotificationMail) IsCancelMail() bool {
	return m != nil && m.Method == MethodCancel
}

// AddAttachment appends an attachment. The list is append-only during
// envelope construction.
func (m *NotificationMail) AddAttachment(a MailAttachment) {
	m.Attachments = append(m.Attachments, a)
}

// SetAdditionalHeader registers an extra mail header. Header names must be
// experimental ("X-" prefixed) headers; anything else is a caller
// programming error.
func (m *NotificationMail) SetAdditionalHeader(name, value string) error {
	if !strings.HasPrefix(name, "X-") {
		return ErrInvalidHeaderName
	}
	if m.additionalHeaders == nil {
		m.additionalHeaders = make(map[string]string)
	}
	m.additionalHeaders[name] = value
	return nil
}

// AdditionalHeaders returns a copy of the registered extra headers.
func (m *NotificationMail) AdditionalHeaders() map[string]string {
	if len(m.additionalHeaders) == 0 {
		return nil
	}
	headers := make(map[string]string, len(m.additionalHeaders))
	for k, v := range m.additionalHeaders {
		headers[k] = v
	}
	return headers
}
