// Package sentiment implements the classification subsystem: a model-backed
// engine calling an external chat-completions API, a deterministic keyword
// engine used as its fallback, and the classifier that orchestrates the two
// with a prefer-model, fail-open policy.
package sentiment
