package security

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy  = bluemonday.StrictPolicy()
	abbrevRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)
)

// SanitizeString removes potentially dangerous characters from free-text
// input such as game results, ticket subjects and announcement bodies.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 1000 {
		input = input[:1000]
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// ValidateTeamAbbrev checks if a team abbreviation is usable as a lookup
// key and in callback payloads.
func ValidateTeamAbbrev(abbrev string) bool {
	return abbrevRegex.MatchString(abbrev)
}

// ValidateIGN checks that an in-game name is plausible.
func ValidateIGN(ign string) bool {
	ign = strings.TrimSpace(ign)
	return len(ign) >= 2 && len(ign) <= 32 && !strings.ContainsAny(ign, "\x00\n\r")
}
