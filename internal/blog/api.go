package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Bilaal96/blog-next-strapi/pkg/logging"
	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/go-playground/validator/v10"
)

// PaginationQuery holds the parameters of a pagination range request.
type PaginationQuery struct {
	CurrentPage     int `json:"currentPage" validate:"gte=0"`
	TotalItemsCount int `json:"totalItemsCount" validate:"gte=0"`
	ItemsPerPage    int `json:"itemsPerPage" validate:"gte=1"`
	SiblingCount    int `json:"siblingCount" validate:"gte=0,lte=10"`
}

// PaginationResponse is the JSON answer of the pagination API.
type PaginationResponse struct {
	TotalPageCount int                `json:"totalPageCount"`
	Range          []pagination.Token `json:"range"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParsePaginationQuery reads and validates the range parameters from q.
// siblingCount is optional and defaults to pagination.DefaultSiblingCount.
func ParsePaginationQuery(q url.Values) (PaginationQuery, error) {
	pq := PaginationQuery{SiblingCount: pagination.DefaultSiblingCount}

	fields := []struct {
		name     string
		dst      *int
		required bool
	}{
		{"currentPage", &pq.CurrentPage, true},
		{"totalItemsCount", &pq.TotalItemsCount, true},
		{"itemsPerPage", &pq.ItemsPerPage, true},
		{"siblingCount", &pq.SiblingCount, false},
	}
	for _, f := range fields {
		v := strings.TrimSpace(q.Get(f.name))
		if v == "" {
			if f.required {
				return pq, fmt.Errorf("%s is required", f.name)
			}
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return pq, fmt.Errorf("%s must be an integer", f.name)
		}
		*f.dst = n
	}

	if err := validate.Struct(pq); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return pq, fmt.Errorf("%s must satisfy %s=%s", jsonName(fe.Field()), fe.Tag(), fe.Param())
		}
		return pq, err
	}
	return pq, nil
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// PaginationAPI answers GET /api/pagination with the range for the query parameters.
func PaginationAPI(w http.ResponseWriter, r *http.Request) {
	pq, err := ParsePaginationQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, r, http.StatusOK, PaginationResponse{
		TotalPageCount: pagination.TotalPageCount(pq.TotalItemsCount, pq.ItemsPerPage),
		Range:          pagination.ComputeRange(pq.CurrentPage, pq.TotalItemsCount, pq.ItemsPerPage, pq.SiblingCount),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}
