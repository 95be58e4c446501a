package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pulseworks/newspulse/internal/domain"
	"github.com/pulseworks/newspulse/internal/metrics"
)

const systemPrompt = `You are an expert financial sentiment analyzer specializing in cryptocurrency and trading news.

Analyze the sentiment of the given text and respond with a JSON object containing:
- sentiment_label: one of "bullish", "bearish", "neutral", "positive", or "negative"
- sentiment_score: a float between 0.0 (most negative/bearish) and 1.0 (most positive/bullish)
- confidence: a float between 0.0 and 1.0 indicating your confidence in the analysis
- key_factors: a list of 2-3 key phrases or factors that influenced your decision

Consider:
- Financial terminology (bull/bear markets, support/resistance, etc.)
- Price action indicators (surge, crash, rally, decline)
- Market sentiment indicators (fear, greed, uncertainty, confidence)
- News impact (adoption, regulation, partnerships, security issues)

Respond ONLY with valid JSON, no additional text.`

// OpenAIConfig holds the server-side settings for the model engine. Values
// come from process configuration; callers cannot influence any of them.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpenAIEngine classifies text by calling an OpenAI-compatible
// chat-completions endpoint. Every failure mode (transport, bad status,
// malformed JSON, schema violation, open breaker) surfaces as an
// UpstreamError so the classifier can fall back.
type OpenAIEngine struct {
	cfg     OpenAIConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewOpenAIEngine(cfg OpenAIConfig) *OpenAIEngine {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Model engine circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &OpenAIEngine{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
	}
}

func (e *OpenAIEngine) Name() string { return e.cfg.Model }

// chat-completions wire types, limited to the fields this service uses
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// modelOutput is the JSON shape the prompt demands from the model.
type modelOutput struct {
	SentimentLabel string   `json:"sentiment_label"`
	SentimentScore *float64 `json:"sentiment_score"`
	Confidence     *float64 `json:"confidence"`
	KeyFactors     []string `json:"key_factors"`
}

func (e *OpenAIEngine) Classify(ctx context.Context, text string) (domain.SentimentResult, error) {
	out, err := e.breaker.Execute(func() (any, error) {
		return e.classify(ctx, text)
	})
	if err != nil {
		var ue *UpstreamError
		if !errors.As(err, &ue) {
			// breaker rejected the call without invoking it
			ue = upstreamErr("breaker", err)
		}
		metrics.ModelFailuresTotal.WithLabelValues(ue.Reason).Inc()
		return domain.SentimentResult{}, ue
	}
	return out.(domain.SentimentResult), nil
}

func (e *OpenAIEngine) classify(ctx context.Context, text string) (domain.SentimentResult, error) {
	reqBody := chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Analyze the sentiment of this text:\n\n" + text},
		},
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return domain.SentimentResult{}, upstreamErr("parse", fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return domain.SentimentResult{}, upstreamErr("transport", fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.SentimentResult{}, upstreamErr("transport", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.SentimentResult{}, upstreamErr("transport", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return domain.SentimentResult{}, upstreamErr("status", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return domain.SentimentResult{}, upstreamErr("parse", fmt.Errorf("response is not valid JSON: %w", err))
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return domain.SentimentResult{}, upstreamErr("parse", fmt.Errorf("empty completion"))
	}

	result, err := e.parseOutput(completion)
	if err != nil {
		return domain.SentimentResult{}, err
	}

	slog.Debug("Model sentiment analysis completed",
		"model", result.ModelVersion,
		"label", result.Label,
		"score", result.Score,
		"confidence", result.Confidence,
	)

	return result, nil
}

// parseOutput hard-validates the model's free-form JSON against the result
// schema. A missing or out-of-contract field is an upstream failure, never a
// guessed default.
func (e *OpenAIEngine) parseOutput(completion chatResponse) (domain.SentimentResult, error) {
	content := completion.Choices[0].Message.Content

	var out modelOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return domain.SentimentResult{}, upstreamErr("parse", fmt.Errorf("completion content is not valid JSON: %w", err))
	}

	label, err := domain.ParseLabel(out.SentimentLabel)
	if err != nil {
		return domain.SentimentResult{}, upstreamErr("schema", err)
	}
	if out.SentimentScore == nil {
		return domain.SentimentResult{}, upstreamErr("schema", fmt.Errorf("sentiment_score missing"))
	}
	if out.Confidence == nil {
		return domain.SentimentResult{}, upstreamErr("schema", fmt.Errorf("confidence missing"))
	}
	if *out.SentimentScore < 0 || *out.SentimentScore > 1 {
		return domain.SentimentResult{}, upstreamErr("schema", fmt.Errorf("sentiment_score %g outside [0,1]", *out.SentimentScore))
	}
	if *out.Confidence < 0 || *out.Confidence > 1 {
		return domain.SentimentResult{}, upstreamErr("schema", fmt.Errorf("confidence %g outside [0,1]", *out.Confidence))
	}

	modelVersion := completion.Model
	if modelVersion == "" {
		modelVersion = e.cfg.Model
	}

	return domain.SentimentResult{
		Label:        label,
		Score:        *out.SentimentScore,
		Confidence:   *out.Confidence,
		ModelVersion: modelVersion,
		KeyFactors:   out.KeyFactors,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
