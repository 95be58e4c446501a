package domain

import "errors"

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrDuplicateArticle = errors.New("article with this URL already exists")
	ErrNoAnalysis       = errors.New("no sentiment analysis found for article")
)
