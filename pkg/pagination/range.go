package pagination

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultSiblingCount is the number of pages shown on each side of the current page
// when the caller does not choose one.
const DefaultSiblingCount = 1

// EllipsisText is the label of an ellipsis token.
const EllipsisText = "…"

// ellipsisJSON is the JSON form of an ellipsis token.
const ellipsisJSON = "..."

// Token is one entry of a pagination range: either a page number or an ellipsis
// standing in for an elided run of pages.
// The zero value is an ellipsis.
type Token struct {
	page int
}

// Ellipsis is the ellipsis token.
var Ellipsis = Token{}

// PageNumber returns the token for page n. Pages are 1-based.
func PageNumber(n int) Token {
	return Token{page: n}
}

// IsEllipsis reports whether the token is an ellipsis.
func (t Token) IsEllipsis() bool {
	return t.page == 0
}

// Page returns the page number of the token, or 0 for an ellipsis.
func (t Token) Page() int {
	return t.page
}

// String returns the display label of the token.
func (t Token) String() string {
	if t.IsEllipsis() {
		return EllipsisText
	}
	return strconv.Itoa(t.page)
}

// MarshalJSON encodes a page as a number and an ellipsis as "...".
func (t Token) MarshalJSON() ([]byte, error) {
	if t.IsEllipsis() {
		return json.Marshal(ellipsisJSON)
	}
	return json.Marshal(t.page)
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (t *Token) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != ellipsisJSON && s != EllipsisText {
			return fmt.Errorf("invalid pagination token %q", s)
		}
		*t = Ellipsis
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid pagination token %s: %w", data, err)
	}
	if n < 1 {
		return fmt.Errorf("invalid page number %d", n)
	}
	*t = PageNumber(n)
	return nil
}

// TotalPageCount returns ceil(totalItemsCount / itemsPerPage).
// Degenerate inputs (no items, non-positive page size) yield 0.
func TotalPageCount(totalItemsCount, itemsPerPage int) int {
	if totalItemsCount <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (totalItemsCount-1)/itemsPerPage + 1
}

// ComputeRange returns the ordered tokens to display for the given pagination state.
//
// The first and last pages are always present. Around currentPage a window of
// siblingCount pages on each side is kept, and runs of at least two hidden pages
// between the window and the ends collapse into an ellipsis. When the window sits
// close to one end, that side is expanded to a block of 2*siblingCount+3 pages so
// the number of rendered slots stays constant while the user pages through.
//
// ComputeRange never fails: a negative siblingCount is treated as 0, a
// currentPage outside [1, totalPageCount] is clamped into it, and a degenerate
// item count or page size returns an empty range.
func ComputeRange(currentPage, totalItemsCount, itemsPerPage, siblingCount int) []Token {
	if siblingCount < 0 {
		siblingCount = 0
	}

	totalPageCount := TotalPageCount(totalItemsCount, itemsPerPage)

	// Everything fits in first + last + two ellipses + the window,
	// i.e. totalPageCount <= 2*siblingCount+5.
	if totalPageCount <= 5 || siblingCount >= (totalPageCount-4)/2 {
		return pageSpan(1, totalPageCount)
	}

	// From here 2*siblingCount+5 < totalPageCount, so no bound below overflows.
	currentPage = min(max(currentPage, 1), totalPageCount)

	left := max(currentPage-siblingCount, 1)
	right := totalPageCount
	if currentPage <= totalPageCount-siblingCount {
		right = currentPage + siblingCount
	}

	showLeftEllipsis := left > 3
	showRightEllipsis := right < totalPageCount-2

	blockSize := 2*siblingCount + 3

	switch {
	case !showLeftEllipsis && !showRightEllipsis:
		return pageSpan(1, totalPageCount)

	case !showLeftEllipsis && showRightEllipsis:
		tokens := pageSpan(1, blockSize)
		return append(tokens, Ellipsis, PageNumber(totalPageCount))

	case showLeftEllipsis && !showRightEllipsis:
		tokens := []Token{PageNumber(1), Ellipsis}
		return append(tokens, pageSpan(totalPageCount-blockSize+1, totalPageCount)...)

	default:
		tokens := []Token{PageNumber(1), Ellipsis}
		tokens = append(tokens, pageSpan(left, right)...)
		return append(tokens, Ellipsis, PageNumber(totalPageCount))
	}
}

// pageSpan returns page tokens for the inclusive range [from, to].
func pageSpan(from, to int) []Token {
	if to < from {
		return []Token{}
	}
	n := to - from + 1
	tokens := make([]Token, n)
	for i := range tokens {
		tokens[i] = PageNumber(from + i)
	}
	return tokens
}

// Pages returns the page numbers of tokens, skipping ellipses.
func Pages(tokens []Token) []int {
	pages := make([]int, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsEllipsis() {
			pages = append(pages, t.Page())
		}
	}
	return pages
}
