// Package strapi provides a GraphQL client for a Strapi content API with
// optional Redis response caching.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Bilaal96/blog-next-strapi/pkg/cache"
	"github.com/Bilaal96/blog-next-strapi/pkg/logging"
	graphql "github.com/hasura/go-graphql-client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for content API operations.
var (
	contentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_content_requests_total",
		Help: "Total content API requests by operation and status",
	}, []string{"operation", "status"})

	contentRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_content_request_duration_seconds",
		Help:    "Content API request duration in seconds by operation",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"operation"})

	contentErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_content_errors_total",
		Help: "Total content API errors by class",
	}, []string{"class"})
)

// maxErrorBody bounds how much of an error response is kept in APIError.Message.
const maxErrorBody = 512

// Client queries a Strapi GraphQL endpoint.
type Client struct {
	gql        *graphql.Client
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Endpoint is the GraphQL URL, e.g. "http://localhost:1337/graphql"
	Endpoint string

	// UserAgent header sent with every request
	UserAgent string

	// Redis enables response caching; nil disables it
	Redis *redis.Client

	// CacheTTL applies when a response has no freshness headers
	CacheTTL time.Duration

	// Timeout per HTTP request
	Timeout time.Duration

	// PageSize is the page size used by FetchPage
	PageSize int
}

// DefaultConfig returns a default configuration for endpoint.
func DefaultConfig(endpoint string, redis *redis.Client) Config {
	return Config{
		Endpoint:  endpoint,
		UserAgent: "blog-next-strapi/1.0",
		Redis:     redis,
		CacheTTL:  cache.DefaultTTL,
		Timeout:   10 * time.Second,
		PageSize:  10,
	}
}

// New creates a new content API client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}

	c := &Client{
		config: cfg,
		logger: logging.NewLogger("strapi-client"),
	}
	c.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})
	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// Request is a GraphQL request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Query executes req and decodes its "data" member into out.
// Successful responses are served from and stored in the cache when one is configured.
func (c *Client) Query(ctx context.Context, req Request, out any) error {
	return c.query(ctx, req, out, c.cache != nil)
}

func (c *Client) query(ctx context.Context, req Request, out any, useCache bool) error {
	op := req.OperationName
	if op == "" {
		op = "anonymous"
	}

	startTime := time.Now()
	defer func() {
		contentRequestDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	}()

	key := cache.QueryKey{Operation: op, Variables: req.Variables}

	if useCache {
		entry, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			decodeErr := c.decode(op, entry.Data, out)
			if decodeErr == nil {
				c.logger.Debug().
					Str("operation", op).
					Str("key", key.String()).
					Dur("age", entry.Age()).
					Msg("Cache hit")
				contentRequestsTotal.WithLabelValues(op, "cache_hit").Inc()
				return nil
			}
			// Undecodable: evict and refetch.
			c.logger.Warn().Err(decodeErr).Str("key", key.String()).Msg("Evicting undecodable cache entry")
			if err := c.cache.Delete(ctx, key); err != nil {
				c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache delete error")
			}
		case errors.Is(err, cache.ErrCacheMiss):
			c.logger.Debug().Str("operation", op).Str("key", key.String()).Msg("Cache miss")
		default:
			c.logger.Warn().Err(err).Str("operation", op).Msg("Cache get error")
		}
	}

	entry, err := c.exec(ctx, op, req)
	if err != nil {
		return err
	}

	if err := c.decode(op, entry.Data, out); err != nil {
		return err
	}

	if useCache && entry.TTL() > 0 {
		if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Str("operation", op).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("operation", op).
				Dur("ttl", entry.TTL()).
				Msg("Cached response")
		}
	}

	return nil
}

// exec runs req and returns its "data" member as a cache entry whose expiry
// follows the response headers.
func (c *Client) exec(ctx context.Context, op string, req Request) (*cache.Entry, error) {
	ctx, ex := withExchange(ctx)

	var opts []graphql.Option
	if req.OperationName != "" {
		opts = append(opts, graphql.OperationName(req.OperationName))
	}

	c.logger.Debug().
		Str("operation", op).
		Str("endpoint", c.config.Endpoint).
		Msg("Executing content API request")

	data, err := c.gql.ExecRaw(ctx, req.Query, req.Variables, opts...)
	if ex.status != 0 {
		contentRequestsTotal.WithLabelValues(op, strconv.Itoa(ex.status)).Inc()
	}
	if err != nil {
		return nil, c.classify(ctx, op, ex, err)
	}

	return cache.NewEntry(data, ex.header, c.config.CacheTTL), nil
}

// gqlClientCodes are the extension codes the GraphQL client puts on errors it
// raises itself, as opposed to errors reported by the server.
var gqlClientCodes = map[string]bool{
	graphql.ErrRequestError:  true,
	graphql.ErrJsonEncode:    true,
	graphql.ErrJsonDecode:    true,
	graphql.ErrGraphQLEncode: true,
	graphql.ErrGraphQLDecode: true,
}

// classify turns a failed query into an *APIError or *GraphQLError.
func (c *Client) classify(ctx context.Context, op string, ex *exchange, err error) error {
	if ex.err != nil || (ex.status == 0 && ctx.Err() != nil) {
		cause := ex.err
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(cause, ctxErr) {
			if cause == nil {
				cause = ctxErr
			} else {
				cause = fmt.Errorf("%w: %w", ctxErr, cause)
			}
		}
		c.logger.Error().Err(cause).Str("operation", op).Msg("HTTP request failed")
		contentErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		contentRequestsTotal.WithLabelValues(op, "network_error").Inc()
		return &APIError{
			Operation:  op,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        cause,
		}
	}

	if class := classifyStatus(ex.status); class != "" {
		contentErrorsTotal.WithLabelValues(string(class)).Inc()

		event := c.logger.Warn()
		if class == ErrorClassServer {
			event = c.logger.Error()
		}
		event.
			Str("operation", op).
			Int("status", ex.status).
			Str("error_class", string(class)).
			Msg("Content API request error")

		msg := strconv.Itoa(ex.status) + " " + http.StatusText(ex.status)
		if snippet := bytes.TrimSpace(ex.body); len(snippet) > 0 {
			msg += ": " + string(snippet)
		}
		return &APIError{
			Operation:  op,
			StatusCode: ex.status,
			ErrorClass: class,
			Message:    msg,
		}
	}

	var gqlErrs graphql.Errors
	if errors.As(err, &gqlErrs) && len(gqlErrs) > 0 && !raisedByClient(gqlErrs) {
		items := make([]GraphQLErrorItem, 0, len(gqlErrs))
		for _, e := range gqlErrs {
			items = append(items, GraphQLErrorItem{Message: e.Message, Path: e.Path, Extensions: e.Extensions})
		}
		contentErrorsTotal.WithLabelValues(string(ErrorClassGraphQL)).Inc()
		c.logger.Warn().
			Str("operation", op).
			Str("first_error", items[0].Message).
			Int("errors", len(items)).
			Msg("GraphQL errors in response")
		return &GraphQLError{Operation: op, Errors: items}
	}

	contentErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
	return &APIError{Operation: op, StatusCode: ex.status, ErrorClass: ErrorClassDecode, Message: "invalid response envelope", Err: err}
}

func raisedByClient(errs graphql.Errors) bool {
	for _, e := range errs {
		if code, _ := e.Extensions["code"].(string); gqlClientCodes[code] {
			return true
		}
	}
	return false
}

// decode unpacks the "data" member of a response into out.
func (c *Client) decode(op string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if len(data) == 0 || string(data) == "null" {
		contentErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &APIError{Operation: op, StatusCode: http.StatusOK, ErrorClass: ErrorClassDecode, Message: "response has no data"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		contentErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &APIError{Operation: op, StatusCode: http.StatusOK, ErrorClass: ErrorClassDecode, Message: "decode data", Err: err}
	}
	return nil
}

// Ping checks that the endpoint answers GraphQL queries. The response is never cached.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Typename string `json:"__typename"`
	}
	return c.query(ctx, Request{Query: "query Ping { __typename }", OperationName: "Ping"}, &out, false)
}

// Cache returns the response cache, or nil when caching is disabled.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

// SetHTTPClient replaces the HTTP client used for queries. The client's
// transport is wrapped to set the request headers.
func (c *Client) SetHTTPClient(client *http.Client) {
	hc := *client
	hc.Transport = newHeaderTransport(client.Transport, c.config.UserAgent)
	c.httpClient = &hc
	c.gql = graphql.NewClient(c.config.Endpoint, c.httpClient)
}
