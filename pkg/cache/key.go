package cache

import (
	"fmt"
	"sort"
	"strings"
)

// KeyPrefix is prepended to every key written by the cache.
const KeyPrefix = "blog:gql"

// QueryKey identifies a cached GraphQL response.
type QueryKey struct {
	// Operation is the GraphQL operation name (e.g., "GetPaginatedArticles")
	Operation string

	// Variables are the operation variables
	Variables map[string]any
}

// String generates a deterministic cache key string.
// Format: blog:gql:<operation>:var1=val1:var2=val2
//
// Example:
//
//	blog:gql:GetPaginatedArticles:page=2:pageSize=10
func (k QueryKey) String() string {
	parts := []string{KeyPrefix}

	op := strings.TrimSpace(k.Operation)
	if op == "" {
		op = "anonymous"
	}
	parts = append(parts, op)

	// sorted for determinism
	names := make([]string, 0, len(k.Variables))
	for name := range k.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, k.Variables[name]))
	}

	return strings.Join(parts, ":")
}
