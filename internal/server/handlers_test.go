package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pulseworks/newspulse/internal/config"
	"github.com/pulseworks/newspulse/internal/database"
	"github.com/pulseworks/newspulse/internal/domain"
)

// mockClassifier records calls and returns canned results.
type mockClassifier struct {
	mu sync.Mutex

	result      domain.SentimentResult
	record      *domain.SentimentRecord
	err         error
	classifyIn  []string
	articleIn   []uuid.UUID
	batchIn     [][]string
	useModelIn  []bool
}

func (m *mockClassifier) Classify(_ context.Context, text string, useModel bool) (domain.SentimentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifyIn = append(m.classifyIn, text)
	m.useModelIn = append(m.useModelIn, useModel)
	if m.err != nil {
		return domain.SentimentResult{}, m.err
	}
	return m.result, nil
}

func (m *mockClassifier) ClassifyArticle(_ context.Context, articleID uuid.UUID) (*domain.SentimentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articleIn = append(m.articleIn, articleID)
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *mockClassifier) ClassifyBatch(_ context.Context, texts []string, useModel bool) ([]domain.SentimentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchIn = append(m.batchIn, texts)
	m.useModelIn = append(m.useModelIn, useModel)
	if m.err != nil {
		return nil, m.err
	}
	results := make([]domain.SentimentResult, len(texts))
	for i := range texts {
		results[i] = m.result
	}
	return results, nil
}

type mockArticleStore struct {
	mu sync.Mutex

	articles  map[uuid.UUID]*domain.Article
	createErr error
	listErr   error
	deleted   []uuid.UUID
}

func newMockArticleStore() *mockArticleStore {
	return &mockArticleStore{articles: make(map[uuid.UUID]*domain.Article)}
}

func (m *mockArticleStore) add(article *domain.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[article.ID] = article
}

func (m *mockArticleStore) Create(_ context.Context, params database.CreateArticleParams) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, existing := range m.articles {
		if existing.URL == params.URL {
			return nil, domain.ErrDuplicateArticle
		}
	}
	article := &domain.Article{
		ID:        uuid.New(),
		Title:     params.Title,
		Content:   params.Content,
		Source:    params.Source,
		URL:       params.URL,
		Author:    params.Author,
		Category:  params.Category,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	m.articles[article.ID] = article
	return article, nil
}

func (m *mockArticleStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	return article, nil
}

func (m *mockArticleStore) List(_ context.Context, limit, offset int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	articles := make([]domain.Article, 0, len(m.articles))
	for _, article := range m.articles {
		articles = append(articles, *article)
	}
	return articles, nil
}

func (m *mockArticleStore) Search(_ context.Context, query string, limit, offset int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matches := make([]domain.Article, 0)
	for _, article := range m.articles {
		if strings.Contains(strings.ToLower(article.Title), strings.ToLower(query)) {
			matches = append(matches, *article)
		}
	}
	return matches, nil
}

func (m *mockArticleStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(m.articles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRecordStore struct {
	mu sync.Mutex

	latest  *domain.SentimentRecord
	history []domain.SentimentRecord
	err     error
}

func (m *mockRecordStore) Latest(_ context.Context, articleID uuid.UUID) (*domain.SentimentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.latest == nil {
		return nil, domain.ErrNoAnalysis
	}
	return m.latest, nil
}

func (m *mockRecordStore) History(_ context.Context, articleID uuid.UUID) ([]domain.SentimentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func (m *mockRecordStore) ListByLabel(_ context.Context, label domain.Label, limit, offset int) ([]domain.SentimentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	matches := make([]domain.SentimentRecord, 0)
	for _, record := range m.history {
		if record.Label == label {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// mockPgxPool provides a minimal mock for PostgreSQL health checks
type mockPgxPool struct {
	pingErr error
}

func (m *mockPgxPool) Ping(ctx context.Context) error {
	return m.pingErr
}

// mockRedisClient provides a minimal mock for Redis health checks
type mockRedisClient struct {
	pingErr error
}

func (m *mockRedisClient) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	if m.pingErr != nil {
		cmd.SetErr(m.pingErr)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

type testDeps struct {
	classifier *mockClassifier
	articles   *mockArticleStore
	records    *mockRecordStore
	postgres   *mockPgxPool
	redis      redisHealthChecker
}

type testServerOption func(*testDeps)

func withRedisHealthCheck(redis redisHealthChecker) testServerOption {
	return func(d *testDeps) { d.redis = redis }
}

func withPostgresHealthCheck(pg *mockPgxPool) testServerOption {
	return func(d *testDeps) { d.postgres = pg }
}

func newTestServer(t *testing.T, opts ...testServerOption) (*Server, *testDeps) {
	t.Helper()

	deps := &testDeps{
		classifier: &mockClassifier{},
		articles:   newMockArticleStore(),
		records:    &mockRecordStore{},
		postgres:   &mockPgxPool{},
	}
	for _, opt := range opts {
		opt(deps)
	}

	cfg := &config.Config{
		Port:               "8080",
		MaxTextLength:      10000,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
	}

	srv := NewServer(cfg, deps.classifier, deps.articles, deps.records, deps.postgres, deps.redis)
	return srv, deps
}

// doRequest runs a request through the full router so middleware applies.
func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}
