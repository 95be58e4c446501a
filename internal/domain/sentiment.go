package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Label is the closed set of sentiment classifications. Anything else coming
// back from a model is a contract violation, not a new label.
type Label string

const (
	LabelBullish  Label = "bullish"
	LabelBearish  Label = "bearish"
	LabelNeutral  Label = "neutral"
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
)

// ParseLabel validates a raw label string against the enumeration.
func ParseLabel(raw string) (Label, error) {
	switch Label(raw) {
	case LabelBullish, LabelBearish, LabelNeutral, LabelPositive, LabelNegative:
		return Label(raw), nil
	default:
		return "", fmt.Errorf("invalid sentiment label %q", raw)
	}
}

// SentimentResult is the canonical output of a classification, regardless of
// which engine produced it. Score and Confidence are always in [0, 1].
// ModelVersion identifies the producing engine and is assigned server-side.
type SentimentResult struct {
	Label        Label    `json:"sentiment_label"`
	Score        float64  `json:"sentiment_score"`
	Confidence   float64  `json:"confidence"`
	ModelVersion string   `json:"model_version"`
	KeyFactors   []string `json:"key_factors,omitempty"`
}

// Clamp forces Score and Confidence into [0, 1]. Applied as the single
// invariant-enforcement point even for results from trusted engines.
func (r SentimentResult) Clamp() SentimentResult {
	r.Score = clamp01(r.Score)
	r.Confidence = clamp01(r.Confidence)
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SentimentRecord is a persisted classification tied to one article. Records
// are append-only: a new analysis creates a new row, never an update.
type SentimentRecord struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	SentimentResult
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
