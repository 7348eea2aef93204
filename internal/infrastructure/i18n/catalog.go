// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n resolves message keys to localized strings from embedded
// YAML catalogs. Lookup degrades gracefully: an unknown locale falls back to
// the base locale, an unknown key renders as the key itself.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedCatalogFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle contains all locale catalogs and answers key lookups. It
// implements [models.StringTable].
type Bundle struct {
	locales map[string]map[string]string

	// matcher maps arbitrary locale strings onto the loaded catalogs;
	// matchNames holds the catalog name per matcher index.
	matcher    language.Matcher
	matchNames []string
}

// Ensure [Bundle] implements [models.StringTable]
var _ models.StringTable = (*Bundle)(nil)

// LoadEmbedded loads the catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files from the provided filesystem.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]map[string]string{}}

	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if strings.TrimSpace(file.Locale) == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if file.Messages == nil {
			return nil, fmt.Errorf("catalog %s: messages map is required", path)
		}
		bundle.locales[file.Locale] = file.Messages
	}

	if _, ok := bundle.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// Base locale first so the matcher falls back to it.
	bundle.matchNames = []string{BaseLocale}
	for name := range bundle.locales {
		if name != BaseLocale {
			bundle.matchNames = append(bundle.matchNames, name)
		}
	}
	sort.Strings(bundle.matchNames[1:])
	tags := make([]language.Tag, len(bundle.matchNames))
	for i, name := range bundle.matchNames {
		tags[i] = language.Make(name)
	}
	bundle.matcher = language.NewMatcher(tags)

	return bundle, nil
}

// Locales returns the sorted names of all loaded locales.
func (b *Bundle) Locales() []string {
	names := make([]string, 0, len(b.locales))
	for name := range b.locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a message key for the given locale. The locale is matched
// against the loaded catalogs ("de" and "de-AT" both resolve to "de-DE");
// a key missing from the matched catalog is retried against the base locale
// and finally returned as-is.
func (b *Bundle) Lookup(key, locale string) string {
	catalog := b.catalogFor(locale)
	if text, ok := catalog[key]; ok {
		return text
	}
	if text, ok := b.locales[BaseLocale][key]; ok {
		return text
	}
	return key
}

func (b *Bundle) catalogFor(locale string) map[string]string {
	if catalog, ok := b.locales[locale]; ok {
		return catalog
	}
	_, index := language.MatchStrings(b.matcher, locale)
	return b.locales[b.matchNames[index]]
}
