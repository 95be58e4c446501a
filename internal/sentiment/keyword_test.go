package sentiment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseworks/newspulse/internal/domain"
)

func TestKeywordEngine_BullishText(t *testing.T) {
	engine := NewKeywordEngine()

	result, err := engine.Classify(context.Background(), "Bitcoin surges to new all-time high as institutional adoption grows")
	require.NoError(t, err)

	assert.Equal(t, domain.LabelBullish, result.Label)
	assert.GreaterOrEqual(t, result.Score, 0.6)
	assert.Equal(t, KeywordEngineVersion, result.ModelVersion)
}

func TestKeywordEngine_BearishText(t *testing.T) {
	engine := NewKeywordEngine()

	result, err := engine.Classify(context.Background(), "Market crash imminent, investors panic sell")
	require.NoError(t, err)

	assert.Equal(t, domain.LabelBearish, result.Label)
	assert.LessOrEqual(t, result.Score, 0.4)
}

func TestKeywordEngine_NoLexiconHits(t *testing.T) {
	engine := NewKeywordEngine()

	result, err := engine.Classify(context.Background(), "Bitcoin trading sideways")
	require.NoError(t, err)

	assert.Equal(t, domain.LabelNeutral, result.Label)
	assert.Equal(t, 0.5, result.Score)
}

func TestKeywordEngine_EmptyAndWhitespace(t *testing.T) {
	engine := NewKeywordEngine()

	for _, text := range []string{"", "   ", "\n\t  "} {
		result, err := engine.Classify(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, domain.LabelNeutral, result.Label)
		assert.Equal(t, 0.5, result.Score)
		assert.LessOrEqual(t, result.Confidence, 0.2)
	}
}

func TestKeywordEngine_MixedEvidenceIsNeutral(t *testing.T) {
	engine := NewKeywordEngine()

	// one bullish hit, one bearish hit: score 0.5 lands between thresholds
	result, err := engine.Classify(context.Background(), "rally meets crash")
	require.NoError(t, err)

	assert.Equal(t, domain.LabelNeutral, result.Label)
	assert.Equal(t, 0.5, result.Score)
}

func TestKeywordEngine_ConfidenceGrowsWithHits(t *testing.T) {
	engine := NewKeywordEngine()
	ctx := context.Background()

	few, err := engine.Classify(ctx, "rally")
	require.NoError(t, err)

	many, err := engine.Classify(ctx, "rally surge pump moon breakout adoption")
	require.NoError(t, err)

	assert.Greater(t, many.Confidence, few.Confidence)
	assert.LessOrEqual(t, many.Confidence, 1.0)
}

func TestKeywordEngine_ConfidenceCappedAtOne(t *testing.T) {
	engine := NewKeywordEngine()

	text := strings.Join(bullishTerms, " ")
	result, err := engine.Classify(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, domain.LabelBullish, result.Label)
}

func TestKeywordEngine_CaseInsensitive(t *testing.T) {
	engine := NewKeywordEngine()
	ctx := context.Background()

	lower, err := engine.Classify(ctx, "bitcoin rally and surge")
	require.NoError(t, err)

	upper, err := engine.Classify(ctx, "BITCOIN RALLY AND SURGE")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
}

func TestKeywordEngine_PhraseMatching(t *testing.T) {
	engine := NewKeywordEngine()

	result, err := engine.Classify(context.Background(), "Regulators announce regulatory crackdown on exchanges")
	require.NoError(t, err)

	assert.Equal(t, domain.LabelBearish, result.Label)
}

func TestKeywordEngine_ResultAlwaysInRange(t *testing.T) {
	engine := NewKeywordEngine()
	ctx := context.Background()

	inputs := []string{
		"",
		"completely unrelated text about cooking pasta",
		strings.Repeat("surge crash ", 500),
		"HODL HODL HODL",
		"!!!@@@###",
		strings.Repeat("a", 10000),
	}

	for _, text := range inputs {
		result, err := engine.Classify(ctx, text)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 1.0)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
		_, labelErr := domain.ParseLabel(string(result.Label))
		assert.NoError(t, labelErr)
	}
}

func TestLexiconsAreDisjoint(t *testing.T) {
	seen := make(map[string]struct{}, len(bullishTerms))
	for _, term := range bullishTerms {
		seen[term] = struct{}{}
	}
	for _, term := range bearishTerms {
		_, dup := seen[term]
		assert.False(t, dup, "term %q appears in both lexicons", term)
	}
}
