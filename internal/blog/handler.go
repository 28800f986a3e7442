package blog

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/Bilaal96/blog-next-strapi/pkg/logging"
	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/Bilaal96/blog-next-strapi/pkg/strapi"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Handler serves the blog pages.
//
// The current listing page lives in the URL. Pagination controls post to
// NavigatePath, which replays the click against the rebuilt view and redirects
// to the page chosen by the OnPageChange callback.
type Handler struct {
	source   ArticleSource
	renderer *Renderer
	opts     Options
	logger   zerolog.Logger
}

// NewHandler creates a handler reading articles from source.
func NewHandler(source ArticleSource, renderer *Renderer, opts Options) *Handler {
	return &Handler{
		source:   source,
		renderer: renderer,
		opts:     opts.withDefaults(),
		logger:   logging.NewLogger("blog-handler"),
	}
}

// Articles renders listing page ?page=N with pagination above and below the previews.
func (h *Handler) Articles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	page := ParsePage(r.URL.Query().Get("page"))

	// ask browsers for the viewport width used by the layout switch
	w.Header().Set("Accept-CH", pagination.AcceptClientHints())
	w.Header().Add("Vary", pagination.HeaderViewportWidth)
	w.Header().Add("Vary", pagination.HeaderViewportWidthLegacy)

	data := listingPage(h.opts, BlogPath)

	result, err := h.source.PaginatedArticles(ctx, page, h.opts.ArticlesPerPage)
	if err != nil {
		logger.Error().
			Err(err).
			Int("page", page).
			Str("error_class", string(strapi.Class(err))).
			Msg("Failed to fetch articles")
		data.Error = FetchErrorMessage
		h.render(w, r, http.StatusBadGateway, PageArticles, data)
		return
	}

	view := pagination.NewPaginator(pagination.Props{
		CurrentPage:     page,
		TotalItemsCount: result.Pagination.Total,
		ItemsPerPage:    h.opts.ArticlesPerPage,
	},
		pagination.WithSiblingCount(h.opts.SiblingCount),
		pagination.WithViewport(pagination.RequestViewport(r)),
		pagination.WithFormAction(NavigatePath),
	).View()

	listing, err := newListing(page, result, view, ArticleURL)
	if err != nil {
		logger.Error().Err(err).Int("page", page).Msg("Failed to render pagination")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data.Listing = listing

	logger.Debug().
		Int("page", page).
		Int("articles", len(result.Articles)).
		Int("total", result.Pagination.Total).
		Msg("Listing page built")

	h.render(w, r, http.StatusOK, PageArticles, data)
}

// Navigate handles a pagination control submitted from a listing page.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	current := ParsePage(r.PostForm.Get("page"))
	target := r.PostForm.Get("target")

	next := current

	// the cached page carries the item count needed to rebuild the view
	result, err := h.source.PaginatedArticles(ctx, current, h.opts.ArticlesPerPage)
	if err != nil {
		logger.Warn().Err(err).Int("page", current).Msg("Navigation without article count")
		http.Redirect(w, r, ArticlesURL(current), http.StatusSeeOther)
		return
	}

	view := pagination.NewPaginator(pagination.Props{
		CurrentPage:     current,
		TotalItemsCount: result.Pagination.Total,
		ItemsPerPage:    h.opts.ArticlesPerPage,
		OnPageChange:    func(page int) { next = page },
	}, pagination.WithSiblingCount(h.opts.SiblingCount)).View()

	var (
		control *pagination.Control
		ok      bool
	)
	if view != nil {
		control, ok = view.Lookup(target)
	}

	switch {
	case !ok:
		logger.Warn().Str("target", target).Int("page", current).Msg("Unknown pagination target")
	case control.Click():
		paginationClicks.WithLabelValues(controlLabel(control)).Inc()
		logger.Debug().Str("target", target).Int("from", current).Int("to", next).Msg("Page changed")
	default:
		logger.Debug().Str("target", target).Int("page", current).Msg("Ignored click on inactive control")
	}

	http.Redirect(w, r, ArticlesURL(next), http.StatusSeeOther)
}

// Article renders the article named by the {slug} route variable.
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	slug := mux.Vars(r)["slug"]

	article, err := h.source.ArticleBySlug(ctx, slug)
	switch {
	case errors.Is(err, strapi.ErrArticleNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		logger.Error().Err(err).Str("slug", slug).Msg("Failed to fetch article")
		h.render(w, r, http.StatusBadGateway, PageError, errorPage(h.opts, BlogPath, "Something went wrong", FetchErrorMessage))
		return
	}

	h.render(w, r, http.StatusOK, PageArticle, articlePage(h.opts, BlogPath, article))
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, PageError, errorPage(h.opts, BlogPath, "Not Found", NotFoundMessage))
}

// Home redirects to the listing.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, BlogPath, http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *PageData) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("page", page).Msg("Template rendering failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to write response")
	}
}

func controlLabel(c *pagination.Control) string {
	switch c.Kind {
	case pagination.ControlPrev:
		return "prev"
	case pagination.ControlNext:
		return "next"
	default:
		return "page"
	}
}
