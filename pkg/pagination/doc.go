// Package pagination computes which page numbers a pagination bar shows and
// turns them into renderable controls.
//
// ComputeRange is a pure function from (current page, item count, page size,
// sibling count) to an ordered list of tokens: page numbers and ellipses. The
// first and last pages are always present, siblingCount pages surround the
// current page, and longer runs of hidden pages collapse into an ellipsis:
//
//	pagination.ComputeRange(1, 100, 10, 1)  // [1 2 3 4 5 … 10]
//	pagination.ComputeRange(6, 100, 10, 1)  // [1 … 5 6 7 … 10]
//	pagination.ComputeRange(5, 25, 10, 1)   // [1 2 3]
//
// Paginator builds a View from host-owned Props on every render. The view is
// nil when there is nothing to paginate. Page, previous and next controls call
// Props.OnPageChange when clicked unless they are disabled; the paginator never
// changes the current page itself:
//
//	p := pagination.NewPaginator(pagination.Props{
//		CurrentPage:     page,
//		TotalItemsCount: total,
//		ItemsPerPage:    10,
//		OnPageChange:    func(n int) { page = n },
//	}, pagination.WithViewport(pagination.RequestViewport(r)))
//	if v := p.View(); v != nil {
//		_ = v.Render(w)
//	}
//
// The layout is chosen from an injected Viewport: viewports at most
// SmallScreenMaxWidth pixels wide get the stacked layout (previous/next grouped
// beneath the numbers), wider ones the inline layout.
//
// BatchFetcher fetches every page of a paginated source with a bounded worker
// pool; it backs the static export of the article listing.
package pagination
