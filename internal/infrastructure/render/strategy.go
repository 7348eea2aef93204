// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render provides the two argument rendering strategies used when
// composing notification sentences: a pass-through plain text strategy and an
// HTML-decorating one.
package render

import (
	"fmt"
	"html"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// PlainStrategy renders every argument as unadorned text.
type PlainStrategy struct{}

// Ensure [PlainStrategy] implements [models.RenderingStrategy]
var _ models.RenderingStrategy = (*PlainStrategy)(nil)

func (PlainStrategy) Plain(value string) string       { return value }
func (PlainStrategy) Original(value string) string    { return value }
func (PlainStrategy) Updated(value string) string     { return value }
func (PlainStrategy) Participant(name string) string  { return name }
func (PlainStrategy) State(value string) string       { return value }
func (PlainStrategy) Emphasized(value string) string  { return value }
func (PlainStrategy) Reference(href string) string    { return href }
func (PlainStrategy) ShownAs(value string, _ any) string {
	return value
}

// HTMLStrategy escapes every argument and wraps it in markup matching its
// kind, so rendered sentences can be embedded into the HTML mail body as-is.
type HTMLStrategy struct{}

// Ensure [HTMLStrategy] implements [models.RenderingStrategy]
var _ models.RenderingStrategy = (*HTMLStrategy)(nil)

func (HTMLStrategy) Plain(value string) string {
	return html.EscapeString(value)
}

func (HTMLStrategy) Original(value string) string {
	return fmt.Sprintf(`<span class="original">%s</span>`, html.EscapeString(value))
}

func (HTMLStrategy) Updated(value string) string {
	return fmt.Sprintf(`<span class="updated">%s</span>`, html.EscapeString(value))
}

func (HTMLStrategy) Participant(name string) string {
	return fmt.Sprintf(`<span class="person">%s</span>`, html.EscapeString(name))
}

func (HTMLStrategy) State(value string) string {
	return fmt.Sprintf(`<span class="status">%s</span>`, html.EscapeString(value))
}

func (HTMLStrategy) Emphasized(value string) string {
	return "<em>" + html.EscapeString(value) + "</em>"
}

func (HTMLStrategy) Reference(href string) string {
	escaped := html.EscapeString(href)
	return fmt.Sprintf(`<a href="%s">%s</a>`, escaped, escaped)
}

func (HTMLStrategy) ShownAs(value string, _ any) string {
	return fmt.Sprintf(`<span class="label">%s</span>`, html.EscapeString(value))
}
