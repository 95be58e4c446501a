package sentiment

import (
	"context"
	"strings"

	"github.com/pulseworks/newspulse/internal/domain"
)

// KeywordEngineVersion tags results produced by the keyword fallback.
const KeywordEngineVersion = "keyword-fallback-v1"

// confidenceNorm is the number of lexicon hits at which the keyword engine
// reaches full confidence.
const confidenceNorm = 5.0

// Crypto/financial lexicons. The two sets are disjoint; multi-word phrases
// are matched as substrings, single words per token.
var bullishTerms = []string{
	"bull", "bullish", "growth", "surge", "surges", "rally", "profit", "gain",
	"gains", "positive", "rise", "rises", "pump", "moon", "breakout",
	"buy", "accumulate", "hodl", "adoption", "partnership", "all-time high",
	"institutional adoption",
}

var bearishTerms = []string{
	"bear", "bearish", "decline", "crash", "drop", "drops", "loss", "losses",
	"negative", "fall", "falls", "dump", "dip", "breakdown", "sell",
	"fear", "panic", "hack", "scam", "regulatory crackdown", "panic sell",
}

// KeywordEngine is the deterministic lexical fallback. It never fails and
// depends on nothing external, which is what makes it a safe landing spot
// when the model engine is unavailable.
type KeywordEngine struct{}

func NewKeywordEngine() *KeywordEngine {
	return &KeywordEngine{}
}

func (e *KeywordEngine) Name() string { return KeywordEngineVersion }

// Classify scores text against the bullish and bearish lexicons. It is a
// total function: any input, including empty text, yields a valid result.
func (e *KeywordEngine) Classify(_ context.Context, text string) (domain.SentimentResult, error) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	positive := countMatches(lowered, bullishTerms)
	negative := countMatches(lowered, bearishTerms)

	result := domain.SentimentResult{
		Label:        domain.LabelNeutral,
		Score:        0.5,
		Confidence:   0.1,
		ModelVersion: KeywordEngineVersion,
	}

	total := positive + negative
	if total == 0 {
		return result, nil
	}

	score := float64(positive) / float64(total)
	result.Score = score
	result.Confidence = min(1.0, float64(total)/confidenceNorm)

	switch {
	case score >= 0.6:
		result.Label = domain.LabelBullish
	case score <= 0.4:
		result.Label = domain.LabelBearish
	default:
		result.Label = domain.LabelNeutral
	}

	return result, nil
}

func countMatches(text string, terms []string) int {
	if text == "" {
		return 0
	}

	tokens := tokenize(text)

	count := 0
	for _, term := range terms {
		if strings.ContainsRune(term, ' ') || strings.ContainsRune(term, '-') {
			if strings.Contains(text, term) {
				count++
			}
			continue
		}
		if _, ok := tokens[term]; ok {
			count++
		}
	}
	return count
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '\'' || r == '-' ||
		('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}
