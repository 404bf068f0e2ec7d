package news

import (
	"regexp"
	"strings"
)

const maxQueryLen = 100

var nonWordRe = regexp.MustCompile(`[^\w\s]`)
var spaceRe = regexp.MustCompile(`\s+`)
var wordRe = regexp.MustCompile(`\w+`)

// SanitizeQuery strips characters that trip up provider query parsers and
// caps the length to stay clear of URL limits.
func SanitizeQuery(query string) string {
	sanitized := nonWordRe.ReplaceAllString(query, " ")
	sanitized = strings.TrimSpace(spaceRe.ReplaceAllString(sanitized, " "))
	if len(sanitized) > maxQueryLen {
		sanitized = sanitized[:maxQueryLen]
	}
	return sanitized
}

// AlternativeQuery builds a shorter query from the leading key terms of the
// original, used for one retry pass when the full query found nothing.
func AlternativeQuery(query string) string {
	terms := wordRe.FindAllString(query, -1)
	switch {
	case len(terms) >= 3:
		return strings.Join(terms[:3], " ")
	case len(terms) >= 2:
		return strings.Join(terms[:2], " ")
	default:
		return query
	}
}
