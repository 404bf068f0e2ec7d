package classify

import (
	"regexp"
	"strings"

	"github.com/factchecker/newsvet/internal/models"
)

var wordSplitRe = regexp.MustCompile(`[^A-Za-z]+`)

// ExtractLabel pulls the verdict out of a free-form model response. The
// explicit label lines are checked first, in fixed priority order; when the
// model ignored the format, a bare true/false mention (not negated by "not")
// is accepted; anything still ambiguous is UNVERIFIABLE.
func ExtractLabel(response string) models.Label {
	upper := strings.ToUpper(response)

	switch {
	case strings.Contains(upper, "LABEL: TRUE"):
		return models.LabelTrue
	case strings.Contains(upper, "LABEL: FALSE"):
		return models.LabelFalse
	case strings.Contains(upper, "LABEL: UNVERIFIABLE"):
		return models.LabelUnverifiable
	}

	// A bare "false" anywhere outranks a bare "true", regardless of which
	// comes first in the response.
	words := wordSplitRe.Split(upper, -1)
	prev := ""
	foundTrue := false
	for _, w := range words {
		if w == "" {
			continue
		}
		switch w {
		case "FALSE":
			if prev != "NOT" {
				return models.LabelFalse
			}
		case "TRUE":
			if prev != "NOT" {
				foundTrue = true
			}
		}
		prev = w
	}
	if foundTrue {
		return models.LabelTrue
	}

	return models.LabelUnverifiable
}

// ExtractExplanation returns the text following "EXPLANATION:" up to the
// next blank line, or "" when the model omitted the section.
func ExtractExplanation(response string) string {
	upper := strings.ToUpper(response)
	idx := strings.Index(upper, "EXPLANATION:")
	if idx < 0 {
		return ""
	}

	start := idx + len("EXPLANATION:")
	rest := response[start:]
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
