package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is a stored news article. URL is unique across the table.
type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	Author      *string    `json:"author,omitempty"`
	Category    *string    `json:"category,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AnalysisText is the text fed into sentiment classification for an article.
func (a *Article) AnalysisText() string {
	return a.Title + "\n\n" + a.Content
}
