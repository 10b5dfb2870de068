// Package renderer turns a letter template plus resolved field values into
// document text. It is pure: no clock, no I/O, identical inputs give
// identical output. Unresolved placeholders are reported as data, never as
// an error; callers decide whether that blocks them.
package renderer

import (
	"regexp"
	"sort"
	"strings"

	ltmodels "suratdesa/internal/lettertype/models"
)

// Mode selects how resolved and unresolved placeholders appear in the output.
type Mode int

const (
	// ModePreview wraps resolved values in guillemets so authors can see
	// what was substituted, and marks unresolved placeholders inline.
	ModePreview Mode = iota
	// ModeFinal inserts values verbatim and leaves unresolved placeholders
	// untouched in the text.
	ModeFinal
)

// Result is the outcome of one render pass.
type Result struct {
	Text string
	// Unresolved lists placeholder names that had no matching value, each
	// name once, sorted.
	Unresolved []string
}

// The three accepted placeholder syntaxes as one alternation. Substitution
// is a single left-to-right scan, so inserted values are never rescanned
// even when they happen to contain placeholder-shaped text.
var placeholderPattern = regexp.MustCompile(
	`\(([A-Za-z0-9_][A-Za-z0-9_ ]*)\)` +
		`|\{\{\s*([A-Za-z0-9_][A-Za-z0-9_ ]*?)\s*\}\}` +
		`|\[([A-Za-z0-9_][A-Za-z0-9_ ]*)\]`,
)

// Render substitutes field values into the opening statement and template
// body. Placeholder names are normalized the same way field names are, so
// "(Full Name)" matches the field "full_name".
func Render(template, opening string, values map[string]string, mode Mode) Result {
	text := template
	if strings.TrimSpace(opening) != "" {
		text = opening + "\n\n" + template
	}

	unresolved := make(map[string]struct{})
	text = placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		raw := groups[1]
		if raw == "" {
			raw = groups[2]
		}
		if raw == "" {
			raw = groups[3]
		}
		name := ltmodels.NormalizeName(raw)
		value, ok := values[raw]
		if !ok {
			value, ok = values[name]
		}
		if !ok || value == "" {
			unresolved[name] = struct{}{}
			if mode == ModePreview {
				return "[unresolved: " + name + "]"
			}
			return match
		}
		if mode == ModePreview {
			return "«" + value + "»"
		}
		return value
	})

	names := make([]string, 0, len(unresolved))
	for n := range unresolved {
		names = append(names, n)
	}
	sort.Strings(names)
	return Result{Text: text, Unresolved: names}
}
