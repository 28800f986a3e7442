package blog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationAPI(t *testing.T) {
	router := newTestRouter(t, &fakeSource{}, RouterConfig{})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/pagination?currentPage=1&totalItemsCount=100&itemsPerPage=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"totalPageCount":10,"range":[1,2,3,4,5,"...",10]}`, rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/pagination?currentPage=5&totalItemsCount=100&itemsPerPage=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalPageCount":10,"range":[1,"...",4,5,6,"...",10]}`, rec.Body.String())

	var resp PaginationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 4, 5, 6, 10}, pagination.Pages(resp.Range))
}

func TestPaginationAPI_ExtremeValues(t *testing.T) {
	router := newTestRouter(t, &fakeSource{}, RouterConfig{})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			"current page at max int",
			"currentPage=9223372036854775807&totalItemsCount=100&itemsPerPage=10",
			`{"totalPageCount":10,"range":[1,"...",6,7,8,9,10]}`,
		},
		{
			"item count at max int",
			"currentPage=1&totalItemsCount=9223372036854775807&itemsPerPage=1",
			`{"totalPageCount":9223372036854775807,"range":[1,2,3,4,5,"...",9223372036854775807]}`,
		},
		{
			"page size at max int",
			"currentPage=1&totalItemsCount=100&itemsPerPage=9223372036854775807",
			`{"totalPageCount":1,"range":[1]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/pagination?"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestPaginationAPI_BadRequest(t *testing.T) {
	router := newTestRouter(t, &fakeSource{}, RouterConfig{})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing current page", "totalItemsCount=100&itemsPerPage=10", "currentPage is required"},
		{"not an integer", "currentPage=one&totalItemsCount=100&itemsPerPage=10", "currentPage must be an integer"},
		{"zero page size", "currentPage=1&totalItemsCount=100&itemsPerPage=0", "itemsPerPage must satisfy gte=1"},
		{"negative total", "currentPage=1&totalItemsCount=-1&itemsPerPage=10", "totalItemsCount must satisfy gte=0"},
		{"sibling count too large", "currentPage=1&totalItemsCount=100&itemsPerPage=10&siblingCount=11", "siblingCount must satisfy lte=10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/pagination?"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestPaginationAPI_CORS(t *testing.T) {
	router := newTestRouter(t, &fakeSource{}, RouterConfig{CORSOrigins: []string{"https://freeroam.example"}})

	req := httptest.NewRequest(http.MethodGet, "/api/pagination?currentPage=1&totalItemsCount=5&itemsPerPage=10", nil)
	req.Header.Set("Origin", "https://freeroam.example")
	rec := serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://freeroam.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/pagination?currentPage=1&totalItemsCount=5&itemsPerPage=10", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = serve(router, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParsePaginationQuery(t *testing.T) {
	pq, err := ParsePaginationQuery(url.Values{
		"currentPage":     {"3"},
		"totalItemsCount": {"42"},
		"itemsPerPage":    {" 5 "},
	})
	require.NoError(t, err)
	assert.Equal(t, PaginationQuery{CurrentPage: 3, TotalItemsCount: 42, ItemsPerPage: 5, SiblingCount: 1}, pq)

	pq, err = ParsePaginationQuery(url.Values{
		"currentPage":     {"0"},
		"totalItemsCount": {"0"},
		"itemsPerPage":    {"10"},
		"siblingCount":    {"0"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pq.SiblingCount)
}
