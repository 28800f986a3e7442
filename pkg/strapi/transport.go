package strapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// exchange is what the transport saw of the HTTP response behind one query.
// The GraphQL client returns only the decoded envelope.
type exchange struct {
	status int
	header http.Header
	body   []byte // first maxErrorBody bytes of an error response
	err    error  // transport failure
}

type exchangeKey struct{}

func withExchange(ctx context.Context) (context.Context, *exchange) {
	ex := &exchange{}
	return context.WithValue(ctx, exchangeKey{}, ex), ex
}

func exchangeFrom(ctx context.Context) *exchange {
	ex, _ := ctx.Value(exchangeKey{}).(*exchange)
	return ex
}

// headerTransport sets the client headers on every request and records the
// response into the request's exchange, if it carries one.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func newHeaderTransport(base http.RoundTripper, userAgent string) *headerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &headerTransport{base: base, userAgent: userAgent}
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.base.RoundTrip(req)

	ex := exchangeFrom(req.Context())
	if ex == nil {
		return resp, err
	}
	if err != nil {
		ex.err = err
		return resp, err
	}

	ex.status = resp.StatusCode
	ex.header = resp.Header.Clone()
	if classifyStatus(resp.StatusCode) != "" {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		ex.body = snippet
		resp.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(snippet), resp.Body), resp.Body}
	}
	return resp, nil
}
