// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// spaceBeforePunctRe matches a space directly before , . ; or :
var spaceBeforePunctRe = regexp.MustCompile(` ([,.;:])`)

// Normalize collapses every run of whitespace to a single space, trims the
// ends, and removes whitespace immediately preceding a comma, period,
// semicolon, or colon. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return spaceBeforePunctRe.ReplaceAllString(s, "$1")
}
