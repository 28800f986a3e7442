// Package cache stores content API responses in Redis.
//
// Entries are keyed by GraphQL operation name and variables and expire after the
// lifetime advertised by the upstream response:
//
// - Cache-Control no-store / no-cache / private: not cached
// - Cache-Control s-maxage or max-age: cached for that many seconds
// - Expires: cached until that time
// - anything else: cached for the caller's fallback TTL (DefaultTTL if unset)
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.QueryKey{
//		Operation: "GetPaginatedArticles",
//		Variables: map[string]any{"page": 2, "pageSize": 10},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the content API
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp, 0)
//	if err != nil {
//		return err
//	}
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Metrics
//
//   - blog_cache_hits_total{layer="redis"} - Cache hits
//   - blog_cache_misses_total - Cache misses
//   - blog_cache_written_bytes_total{layer="redis"} - Bytes written to the cache
//   - blog_cache_errors_total{operation} - Cache operation errors
//
// The cache is a plain TTL store. It never revalidates entries with the upstream.
package cache
