package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pquerna/cachecontrol/cacheobject"
)

const (
	// DefaultTTL is the fallback TTL when the response carries no freshness headers
	DefaultTTL = 5 * time.Minute
)

// ResponseToEntry converts an HTTP response to an Entry.
// Expiry comes from Cache-Control or Expires, falling back to fallback
// (DefaultTTL when fallback is not positive). The response body is restored after reading.
func ResponseToEntry(resp *http.Response, fallback time.Duration) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("response body cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return NewEntry(body, resp.Header, fallback), nil
}

// NewEntry wraps data fetched with the given response headers.
func NewEntry(data []byte, headers http.Header, fallback time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:     data,
		Expires:  parseExpires(headers, now, fallback),
		CachedAt: now,
	}
}

// parseExpires returns when a response with headers stops being fresh for a
// shared cache. s-maxage wins over max-age, which wins over Expires.
func parseExpires(headers http.Header, now time.Time, fallback time.Duration) time.Time {
	if fallback <= 0 {
		fallback = DefaultTTL
	}

	if cc := headers.Get("Cache-Control"); cc != "" {
		// A malformed header is ignored as a whole.
		if cd, err := cacheobject.ParseResponseCacheControl(cc); err == nil {
			switch {
			case cd.NoStore, cd.NoCachePresent, cd.PrivatePresent:
				return now
			case cd.SMaxAge >= 0:
				return now.Add(time.Duration(cd.SMaxAge) * time.Second)
			case cd.MaxAge >= 0:
				return now.Add(time.Duration(cd.MaxAge) * time.Second)
			}
		}
	}

	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return now.Add(fallback)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return now.Add(fallback)
	}

	// Already expired
	if expires.Before(now) {
		return now
	}

	return expires
}
