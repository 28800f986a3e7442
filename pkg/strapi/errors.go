package strapi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrArticleNotFound is returned when no article matches a slug.
var ErrArticleNotFound = errors.New("article not found")

// ErrorClass represents a classification of content API errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassGraphQL represents errors reported in the GraphQL response body.
	ErrorClassGraphQL ErrorClass = "graphql"

	// ErrorClassDecode represents malformed response bodies.
	ErrorClassDecode ErrorClass = "decode"
)

// classifyStatus maps an HTTP status to an error class.
// Statuses below 400 have no class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 500:
		return ErrorClassServer
	case status >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// APIError is a failed exchange with the content API.
type APIError struct {
	Operation  string
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strapi %s error (%s, status %d): %s: %v",
			e.ErrorClass, e.Operation, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("strapi %s error (%s, status %d): %s",
		e.ErrorClass, e.Operation, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// GraphQLErrorItem is one entry of a GraphQL "errors" array.
type GraphQLErrorItem struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLError is returned when the API answers with a non-empty "errors" array.
type GraphQLError struct {
	Operation string
	Errors    []GraphQLErrorItem
}

// Error implements the error interface.
func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Message)
	}
	return fmt.Sprintf("strapi graphql error (%s): %s", e.Operation, strings.Join(msgs, "; "))
}

// Class returns the error class of err, or "" when err did not come from the client.
func Class(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorClass
	}
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return ErrorClassGraphQL
	}
	return ""
}
