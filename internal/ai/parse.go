package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	answerPattern  = regexp.MustCompile(`\$([^$]+)\$`)
	ErrParseFailed = errors.New("parse_failed")
)

// ParseCategory extracts the chosen category name from a model answer. It
// first tries the strict $<name>$ envelope, then falls back to scanning the
// text for any candidate name. The result always matches one of candidates.
func ParseCategory(text string, candidates []string) (string, error) {
	if m := answerPattern.FindStringSubmatch(text); len(m) >= 2 {
		got := strings.TrimSpace(m[1])
		for _, cand := range candidates {
			if strings.EqualFold(got, cand) {
				return cand, nil
			}
		}
		return "", fmt.Errorf("%w: %q is not a known category", ErrParseFailed, got)
	}
	// fallback: longest candidate mentioned anywhere in the text
	lower := strings.ToLower(text)
	best := ""
	for _, cand := range candidates {
		if strings.Contains(lower, strings.ToLower(cand)) && len(cand) > len(best) {
			best = cand
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no category found in answer", ErrParseFailed)
	}
	return best, nil
}
