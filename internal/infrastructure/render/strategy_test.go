// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainStrategyPassesThrough(t *testing.T) {
	s := PlainStrategy{}

	assert.Equal(t, "Team <sync>", s.Plain("Team <sync>"))
	assert.Equal(t, "Room 1", s.Original("Room 1"))
	assert.Equal(t, "Room 2", s.Updated("Room 2"))
	assert.Equal(t, "Anton Berg", s.Participant("Anton Berg"))
	assert.Equal(t, "declined", s.State("declined"))
	assert.Equal(t, "note", s.Emphasized("note"))
	assert.Equal(t, "https://example.com", s.Reference("https://example.com"))
	assert.Equal(t, "Location", s.ShownAs("Location", nil))
}

func TestHTMLStrategyWrapsAndEscapes(t *testing.T) {
	s := HTMLStrategy{}

	tests := []struct {
		name     string
		actual   string
		expected string
	}{
		{
			name:     "plain escapes",
			actual:   s.Plain(`Tom & Jerry <3`),
			expected: "Tom &amp; Jerry &lt;3",
		},
		{
			name:     "original value",
			actual:   s.Original("Room 1"),
			expected: `<span class="original">Room 1</span>`,
		},
		{
			name:     "updated value",
			actual:   s.Updated("Room 2"),
			expected: `<span class="updated">Room 2</span>`,
		},
		{
			name:     "participant escapes markup in names",
			actual:   s.Participant("<b>Anton</b>"),
			expected: `<span class="person">&lt;b&gt;Anton&lt;/b&gt;</span>`,
		},
		{
			name:     "status",
			actual:   s.State("declined"),
			expected: `<span class="status">declined</span>`,
		},
		{
			name:     "emphasized",
			actual:   s.Emphasized("note"),
			expected: "<em>note</em>",
		},
		{
			name:     "reference",
			actual:   s.Reference("https://example.com/?a=1&b=2"),
			expected: `<a href="https://example.com/?a=1&amp;b=2">https://example.com/?a=1&amp;b=2</a>`,
		},
		{
			name:     "label",
			actual:   s.ShownAs("Location", nil),
			expected: `<span class="label">Location</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}
