// Package numbering produces permanent document numbers from
// administrator-configured format strings.
package numbering

import (
	"fmt"
	"regexp"
	"time"

	dErrors "suratdesa/pkg/domain-errors"
)

// Format tokens. Matching is case-insensitive and every occurrence of each
// token is substituted; tokens are disjoint so substitution order is
// irrelevant.
var (
	tokenSequence = regexp.MustCompile(`(?i)NOMOR`)
	tokenCode     = regexp.MustCompile(`(?i)KODE`)
	tokenMonth    = regexp.MustCompile(`(?i)BULAN`)
	tokenYear     = regexp.MustCompile(`(?i)TAHUN`)
)

// sequenceWidth is the conventional zero-padding of the sequence token.
const sequenceWidth = 3

// ValidateFormat checks that a number format carries at least the sequence
// token. A format without NOMOR would mint identical numbers for different
// letters.
func ValidateFormat(format string) error {
	if format == "" {
		return dErrors.New(dErrors.CodeValidation, "number format is required")
	}
	if !tokenSequence.MatchString(format) {
		return dErrors.New(dErrors.CodeValidation, "number format must contain the NOMOR token")
	}
	return nil
}

// RenderNumber substitutes all format tokens for the given sequence value,
// letter type code, and point in time.
func RenderNumber(format, code string, sequence int, at time.Time) string {
	out := tokenSequence.ReplaceAllString(format, fmt.Sprintf("%0*d", sequenceWidth, sequence))
	out = tokenCode.ReplaceAllString(out, code)
	out = tokenMonth.ReplaceAllString(out, fmt.Sprintf("%02d", int(at.Month())))
	out = tokenYear.ReplaceAllString(out, fmt.Sprintf("%04d", at.Year()))
	return out
}
