package blog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Bilaal96/blog-next-strapi/pkg/logging"
	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/Bilaal96/blog-next-strapi/pkg/strapi"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ExportSource provides every listing page and the article bodies for a static export.
type ExportSource interface {
	pagination.PageFetcher[*strapi.ArticlePage]
	ArticleBySlug(ctx context.Context, slug string) (*strapi.Article, error)
}

// ExportResult summarizes a finished export.
type ExportResult struct {
	Pages    int
	Articles int
	Duration time.Duration
}

// Exporter writes the blog as static HTML:
//
//	<out>/index.html              listing page 1
//	<out>/page/<n>/index.html     listing page n
//	<out>/blog/<slug>/index.html  article pages
//
// Pagination controls are rendered as links between the exported pages.
type Exporter struct {
	source   ExportSource
	renderer *Renderer
	opts     Options
	batch    pagination.Config
	logger   zerolog.Logger
}

// NewExporter creates an exporter. batch bounds the parallel content API requests.
func NewExporter(source ExportSource, renderer *Renderer, opts Options, batch pagination.Config) *Exporter {
	if batch.MaxConcurrency <= 0 {
		batch = pagination.DefaultConfig()
	}
	return &Exporter{
		source:   source,
		renderer: renderer,
		opts:     opts.withDefaults(),
		batch:    batch,
		logger:   logging.NewLogger("exporter"),
	}
}

// Export fetches all listing pages and writes the site below outDir.
// A failed page fetch aborts the export; no partial site is reported as success.
func (e *Exporter) Export(ctx context.Context, outDir string) (ExportResult, error) {
	start := time.Now()

	pages, err := pagination.NewBatchFetcher[*strapi.ArticlePage](e.source, e.batch).FetchAllPages(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("fetch listing pages: %w", err)
	}

	var articles atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batch.MaxConcurrency)

	for n, page := range pages {
		g.Go(func() error {
			return e.writeListing(outDir, n, page)
		})

		for _, a := range page.Articles {
			slug := a.Attributes.Slug
			g.Go(func() error {
				if err := e.writeArticle(gctx, outDir, slug); err != nil {
					return err
				}
				articles.Add(1)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return ExportResult{}, err
	}

	result := ExportResult{
		Pages:    len(pages),
		Articles: int(articles.Load()),
		Duration: time.Since(start),
	}
	e.logger.Info().
		Str("out", outDir).
		Int("pages", result.Pages).
		Int("articles", result.Articles).
		Dur("duration", result.Duration).
		Msg("Export complete")

	return result, nil
}

func (e *Exporter) writeListing(outDir string, n int, page *strapi.ArticlePage) error {
	perPage := page.Pagination.PageSize
	if perPage < 1 {
		perPage = e.opts.ArticlesPerPage
	}

	view := pagination.NewPaginator(pagination.Props{
		CurrentPage:     n,
		TotalItemsCount: page.Pagination.Total,
		ItemsPerPage:    perPage,
	},
		pagination.WithSiblingCount(e.opts.SiblingCount),
		pagination.WithPageURL(StaticPageURL),
	).View()

	listing, err := newListing(n, page, view, StaticArticleURL)
	if err != nil {
		return fmt.Errorf("render pagination of page %d: %w", n, err)
	}

	data := listingPage(e.opts, StaticPageURL(1))
	data.Listing = listing

	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, PageArticles, data); err != nil {
		return fmt.Errorf("render page %d: %w", n, err)
	}

	paths := []string{filepath.Join(outDir, "page", strconv.Itoa(n), "index.html")}
	if n == 1 {
		paths = append(paths, filepath.Join(outDir, "index.html"))
	}
	for _, path := range paths {
		if err := writeFile(path, buf.Bytes()); err != nil {
			return err
		}
	}

	e.logger.Debug().Int("page", n).Int("articles", len(page.Articles)).Msg("Listing page written")
	return nil
}

func (e *Exporter) writeArticle(ctx context.Context, outDir, slug string) error {
	if !safeSlug(slug) {
		return fmt.Errorf("refusing to export article with slug %q", slug)
	}

	article, err := e.source.ArticleBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("fetch article %q: %w", slug, err)
	}

	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, PageArticle, articlePage(e.opts, StaticPageURL(1), article)); err != nil {
		return fmt.Errorf("render article %q: %w", slug, err)
	}

	return writeFile(filepath.Join(outDir, "blog", slug, "index.html"), buf.Bytes())
}

// safeSlug reports whether slug can be used as a single path element.
func safeSlug(slug string) bool {
	return slug != "" && slug != "." && slug != ".." && !strings.ContainsAny(slug, `/\`)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
