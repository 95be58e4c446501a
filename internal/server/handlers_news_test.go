package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseworks/newspulse/internal/domain"
)

func TestHandleCreateArticle(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"title":"Fed cuts rates","content":"Markets rally.","source":"newswire","url":"https://example.com/fed","author":"Jane Reporter"}`
	rec := doRequest(srv, http.MethodPost, "/api/v1/news", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var article domain.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &article))
	assert.NotEqual(t, uuid.Nil, article.ID)
	assert.Equal(t, "Fed cuts rates", article.Title)
	require.NotNil(t, article.Author)
	assert.Equal(t, "Jane Reporter", *article.Author)
}

func TestHandleCreateArticle_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"content":"c","source":"s","url":"https://example.com/1"}`},
		{"missing content", `{"title":"t","source":"s","url":"https://example.com/2"}`},
		{"missing source", `{"title":"t","content":"c","url":"https://example.com/3"}`},
		{"missing url", `{"title":"t","content":"c","source":"s"}`},
		{"blank title", `{"title":"   ","content":"c","source":"s","url":"https://example.com/4"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/v1/news", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleCreateArticle_DuplicateURL(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"title":"t","content":"c","source":"s","url":"https://example.com/dup"}`
	rec := doRequest(srv, http.MethodPost, "/api/v1/news", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(srv, http.MethodPost, "/api/v1/news", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestHandleListArticles(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.articles.add(&domain.Article{ID: uuid.New(), Title: "one", URL: "https://example.com/one"})
	deps.articles.add(&domain.Article{ID: uuid.New(), Title: "two", URL: "https://example.com/two"})

	rec := doRequest(srv, http.MethodGet, "/api/v1/news", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Articles []domain.Article `json:"articles"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
}

func TestHandleSearchArticles(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.articles.add(&domain.Article{ID: uuid.New(), Title: "Ethereum upgrade", URL: "https://example.com/eth"})
	deps.articles.add(&domain.Article{ID: uuid.New(), Title: "Oil prices", URL: "https://example.com/oil"})

	rec := doRequest(srv, http.MethodGet, "/api/v1/news/search?q=ethereum", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Query    string           `json:"query"`
		Articles []domain.Article `json:"articles"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "ethereum", response.Query)
	assert.Equal(t, 1, response.Count)
}

func TestHandleSearchArticles_MissingQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/news/search", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetArticle(t *testing.T) {
	srv, deps := newTestServer(t)
	article := &domain.Article{ID: uuid.New(), Title: "found", URL: "https://example.com/found"}
	deps.articles.add(article)

	rec := doRequest(srv, http.MethodGet, "/api/v1/news/"+article.ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)

	var fetched domain.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, article.ID, fetched.ID)
}

func TestHandleGetArticle_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/news/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetArticle_InvalidID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/news/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDeleteArticle(t *testing.T) {
	srv, deps := newTestServer(t)
	article := &domain.Article{ID: uuid.New(), Title: "doomed", URL: "https://example.com/doomed"}
	deps.articles.add(article)

	rec := doRequest(srv, http.MethodDelete, "/api/v1/news/"+article.ID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/v1/news/"+article.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDeleteArticle_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodDelete, "/api/v1/news/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
