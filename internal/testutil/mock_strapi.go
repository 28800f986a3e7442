// Package testutil provides testing utilities for the blog's content API client.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"time"
)

// MockResponse defines a canned answer for a GraphQL operation.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockArticle is an article served by MockStrapi.
type MockArticle struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Content     string
	PublishedAt time.Time
}

// GraphQLRequest is the request body MockStrapi decodes.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// MockStrapi is a configurable mock Strapi GraphQL server for testing.
// Without overrides it serves GetPaginatedArticles, GetArticleBySlug and Ping
// from its article list.
type MockStrapi struct {
	server    *httptest.Server
	mu        sync.RWMutex
	articles  []MockArticle
	responses map[string]MockResponse

	// Tracking
	RequestCount      int
	OperationCounts   map[string]int
	LastRequest       GraphQLRequest
	LastRequestHeader http.Header
}

// NewMockStrapi creates a mock server holding n generated articles.
func NewMockStrapi(n int) *MockStrapi {
	mock := &MockStrapi{
		articles:        GenerateArticles(n),
		responses:       make(map[string]MockResponse),
		OperationCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// GenerateArticles returns n articles, newest first, with slugs article-1..article-n.
func GenerateArticles(n int) []MockArticle {
	base := time.Date(2022, 6, 1, 9, 0, 0, 0, time.UTC)
	articles := make([]MockArticle, 0, n)
	for i := 1; i <= n; i++ {
		articles = append(articles, MockArticle{
			ID:          fmt.Sprintf("%d", i),
			Title:       fmt.Sprintf("Article %d", i),
			Slug:        fmt.Sprintf("article-%d", i),
			Description: fmt.Sprintf("Description of article %d", i),
			Content:     fmt.Sprintf("Body of article %d.", i),
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return articles
}

// URL returns the GraphQL endpoint of the mock server.
func (m *MockStrapi) URL() string {
	return m.server.URL + "/graphql"
}

// Close shuts down the mock server.
func (m *MockStrapi) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockStrapi) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.OperationCounts = make(map[string]int)
	m.LastRequest = GraphQLRequest{}
	m.LastRequestHeader = nil
}

// SetArticles replaces the served articles.
func (m *MockStrapi) SetArticles(articles []MockArticle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = articles
}

// SetResponse overrides the answer for an operation.
func (m *MockStrapi) SetResponse(operation string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[operation] = resp
}

// ClearResponse removes an override set with SetResponse.
func (m *MockStrapi) ClearResponse(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.responses, operation)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockStrapi) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetOperationCount returns the number of requests for operation.
func (m *MockStrapi) GetOperationCount(operation string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.OperationCounts[operation]
}

// GetLastRequest returns the most recent request body and headers.
func (m *MockStrapi) GetLastRequest() (GraphQLRequest, http.Header) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequest, m.LastRequestHeader
}

func (m *MockStrapi) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	if req.OperationName == "" {
		if match := operationPattern.FindStringSubmatch(req.Query); match != nil {
			req.OperationName = match[1]
		}
	}

	m.mu.Lock()
	m.RequestCount++
	m.OperationCounts[req.OperationName]++
	m.LastRequest = req
	m.LastRequestHeader = r.Header.Clone()
	resp, overridden := m.responses[req.OperationName]
	articles := m.articles
	m.mu.Unlock()

	if overridden {
		writeResponse(w, resp)
		return
	}

	switch req.OperationName {
	case "GetPaginatedArticles":
		writeJSON(w, paginatedArticles(articles, intVar(req.Variables, "page", 1), intVar(req.Variables, "pageSize", 10)))
	case "GetArticleBySlug":
		slug, _ := req.Variables["slug"].(string)
		writeJSON(w, articleBySlug(articles, slug))
	case "Ping":
		writeJSON(w, map[string]any{"data": map[string]any{"__typename": "Query"}})
	default:
		writeJSON(w, map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": fmt.Sprintf("unknown operation %q", req.OperationName)}},
		})
	}
}

// operationPattern finds the name of the first named operation in a document.
var operationPattern = regexp.MustCompile(`(?m)^\s*(?:query|mutation)\s+(\w+)`)

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func intVar(vars map[string]any, name string, def int) int {
	// encoding/json decodes numbers as float64
	if v, ok := vars[name].(float64); ok && v >= 1 {
		return int(v)
	}
	return def
}

func articleJSON(a MockArticle, withContent bool) map[string]any {
	attrs := map[string]any{
		"title":       a.Title,
		"slug":        a.Slug,
		"description": a.Description,
		"publishedAt": a.PublishedAt.Format(time.RFC3339),
	}
	if withContent {
		attrs["content"] = a.Content
	}
	return map[string]any{"id": a.ID, "attributes": attrs}
}

func paginatedArticles(articles []MockArticle, page, pageSize int) map[string]any {
	total := len(articles)
	pageCount := (total + pageSize - 1) / pageSize

	data := []map[string]any{}
	start := (page - 1) * pageSize
	for i := start; i < start+pageSize && i < total; i++ {
		data = append(data, articleJSON(articles[i], false))
	}

	return map[string]any{"data": map[string]any{"articles": map[string]any{
		"data": data,
		"meta": map[string]any{"pagination": map[string]any{
			"total":     total,
			"page":      page,
			"pageSize":  pageSize,
			"pageCount": pageCount,
		}},
	}}}
}

func articleBySlug(articles []MockArticle, slug string) map[string]any {
	data := []map[string]any{}
	for _, a := range articles {
		if a.Slug == slug {
			data = append(data, articleJSON(a, true))
			break
		}
	}
	return map[string]any{"data": map[string]any{"articles": map[string]any{"data": data}}}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}

// NewBadRequestResponse creates a 400 Bad Request response.
func NewBadRequestResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       `{"error": "Bad request"}`,
	}
}

// NewGraphQLErrorResponse creates a 200 OK response carrying a GraphQL error.
func NewGraphQLErrorResponse(message string) MockResponse {
	body, _ := json.Marshal(map[string]any{
		"data":   nil,
		"errors": []map[string]any{{"message": message}},
	})
	return MockResponse{StatusCode: http.StatusOK, Body: string(body)}
}

// NewHealthyResponse creates a 200 OK response with data as the "data" member
// and a Cache-Control max-age.
func NewHealthyResponse(data string, maxAge time.Duration) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data":` + data + `}`,
		Headers: map[string]string{
			"Cache-Control": fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())),
		},
	}
}
