// Package domain holds the core types shared across the service: news
// articles, sentiment results and records, and the sentinel errors the
// repositories translate storage failures into.
package domain
