// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

// AttachmentMemory remembers which events recently had an attachment change.
// The field-level diff does not cover attachments, so the suppression filter
// consults this memory to recognize attachment-only updates as interesting.
type AttachmentMemory interface {
	HasRecentChange(contextID, objectID int) bool
}
