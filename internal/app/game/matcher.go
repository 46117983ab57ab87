package game

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// tokenThreshold is the minimum similarity rating for a candidate token
// to count as matching a target token.
const tokenThreshold = 0.7

// Matcher decides whether a free-text guess matches a target phrase.
// It tolerates typos, word-order variation and partial answers (first
// name only, omitted feat. credits) while rejecting unrelated text.
type Matcher struct {
	metric *metrics.SorensenDice
}

// NewMatcher creates a matcher using a Sorensen-Dice bigram similarity.
func NewMatcher() *Matcher {
	metric := metrics.NewSorensenDice()
	metric.CaseSensitive = false
	return &Matcher{metric: metric}
}

// Matches reports whether candidate is an acceptable guess for target.
// Both strings are lower-cased and whitespace-tokenized. Each candidate
// token is rated against every target token; tokens rating at least
// tokenThreshold count as matched. The guess is accepted when the
// matched count reaches half the target token count. The comparison is
// fractional: a 5-token target needs 3 matched tokens, a 2-token target
// needs 1.
func (m *Matcher) Matches(target, candidate string) bool {
	targetTokens := strings.Fields(strings.ToLower(target))
	candidateTokens := strings.Fields(strings.ToLower(candidate))
	if len(targetTokens) == 0 || len(candidateTokens) == 0 {
		return false
	}

	matched := 0
	for _, ct := range candidateTokens {
		best := 0.0
		for _, tt := range targetTokens {
			if rating := strutil.Similarity(ct, tt, m.metric); rating > best {
				best = rating
			}
		}
		if best >= tokenThreshold {
			matched++
		}
	}

	return float64(matched) >= float64(len(targetTokens))/2
}
