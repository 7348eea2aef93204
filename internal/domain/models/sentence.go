// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// StringTable resolves a message key to its localized text. Implementations
// return the key itself when no localized text is found; lookup never fails.
type StringTable interface {
	Lookup(key, locale string) string
}

// RenderingStrategy wraps one rendered argument according to its kind. There
// are exactly two concrete strategies: pass-through plain text and an
// HTML-decorating one.
type RenderingStrategy interface {
	Plain(value string) string
	Original(value string) string
	Updated(value string) string
	Participant(name string) string
	State(value string) string
	Emphasized(value string) string
	Reference(href string) string
	ShownAs(value string, extra any) string
}

// ArgumentKind selects the wrap function applied to a sentence argument.
type ArgumentKind int

const (
	ArgPlain ArgumentKind = iota
	ArgOriginal
	ArgUpdated
	ArgParticipant
	ArgStatus
	ArgEmphasized
	ArgReference
	ArgShownAs
)

// SentenceArg is one typed argument of a sentence.
type SentenceArg struct {
	Value any
	Kind  ArgumentKind
	Extra any
}

// Sentence is a message key plus an ordered list of typed arguments. It is
// built fluently, then rendered once per (locale, strategy) pair; rendering
// is a pure function of its inputs.
type Sentence struct {
	Key  string
	Args []SentenceArg
}

// NewSentence starts a sentence for the given message key.
func NewSentence(key string) *Sentence {
	return &Sentence{Key: key}
}

// Add appends an argument of the given kind.
func (s *Sentence) Add(value any, kind ArgumentKind) *Sentence {
	s.Args = append(s.Args, SentenceArg{Value: value, Kind: kind})
	return s
}

// AddStatus appends a confirmation status argument. The fallbackKey is used
// as the message key for the NONE status.
func (s *Sentence) AddStatus(status ConfirmStatus, fallbackKey string) *Sentence {
	s.Args = append(s.Args, SentenceArg{Value: status, Kind: ArgStatus, Extra: fallbackKey})
	return s
}

// AddShownAs appends a translatable "shown as" label with its extra data.
func (s *Sentence) AddShownAs(key string, extra any) *Sentence {
	s.Args = append(s.Args, SentenceArg{Value: key, Kind: ArgShownAs, Extra: extra})
	return s
}

// Message keys for the fixed confirmation verb translations.
const (
	StatusAcceptedKey  = "status.accepted"
	StatusDeclinedKey  = "status.declined"
	StatusTentativeKey = "status.tentative"
	StatusNoneKey      = "status.waiting"
)

// Legacy message templates end a sentence with a bare "$" (optionally after
// a positional "%N") where a "%s" placeholder is meant. Normalized before
// substitution.
var trailingPlaceholder = regexp.MustCompile(`(%\d+)?\$(\s|$)`)

// positionalPlaceholder rewrites "%N$s" positional placeholders into the
// indexed form the fmt package understands.
var positionalPlaceholder = regexp.MustCompile(`%(\d+)\$s`)

// Render composes the localized sentence: every argument is translated and
// wrapped according to its kind, then substituted into the localized format
// template of the message key. An unknown key renders as the key itself.
func (s *Sentence) Render(locale string, table StringTable, strategy RenderingStrategy) string {
	format := normalizeFormat(table.Lookup(s.Key, locale))

	args := make([]any, 0, len(s.Args))
	for _, arg := range s.Args {
		args = append(args, renderArg(arg, locale, table, strategy))
	}
	// An unknown key yields the key itself, which carries no placeholders;
	// substitution would append fmt's EXTRA diagnostics in that case.
	if len(args) == 0 || !strings.Contains(format, "%") {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func renderArg(arg SentenceArg, locale string, table StringTable, strategy RenderingStrategy) string {
	value := stringify(arg.Value)

	switch arg.Kind {
	case ArgShownAs:
		return strategy.ShownAs(table.Lookup(value, locale), arg.Extra)
	case ArgStatus:
		return strategy.State(statusVerb(arg, locale, table))
	case ArgOriginal:
		return strategy.Original(value)
	case ArgUpdated:
		return strategy.Updated(value)
	case ArgParticipant:
		return strategy.Participant(value)
	case ArgEmphasized:
		return strategy.Emphasized(value)
	case ArgReference:
		return strategy.Reference(value)
	default:
		return strategy.Plain(value)
	}
}

// statusVerb resolves the localized verb form of a confirmation status. The
// NONE status has no fixed verb and falls back to the literal message key
// carried as extra data.
func statusVerb(arg SentenceArg, locale string, table StringTable) string {
	status, ok := arg.Value.(ConfirmStatus)
	if !ok {
		return stringify(arg.Value)
	}
	switch status {
	case ConfirmAccepted:
		return table.Lookup(StatusAcceptedKey, locale)
	case ConfirmDeclined:
		return table.Lookup(StatusDeclinedKey, locale)
	case ConfirmTentative:
		return table.Lookup(StatusTentativeKey, locale)
	default:
		key := StatusNoneKey
		if extra, isString := arg.Extra.(string); isString && extra != "" {
			key = extra
		}
		return table.Lookup(key, locale)
	}
}

func normalizeFormat(format string) string {
	format = trailingPlaceholder.ReplaceAllStringFunc(format, func(match string) string {
		sub := trailingPlaceholder.FindStringSubmatch(match)
		if sub[1] == "" {
			return "%s" + sub[2]
		}
		return sub[1] + "$s" + sub[2]
	})
	return positionalPlaceholder.ReplaceAllString(format, "%[${1}]s")
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("Mon, Jan 2, 2006 15:04 MST")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
