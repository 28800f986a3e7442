// Package blog serves the paginated article listing of the blog and exports it
// as static HTML.
package blog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/Bilaal96/blog-next-strapi/pkg/strapi"
)

// Routes served by the blog.
const (
	BlogPath          = "/blog"
	ArticlesPath      = "/blog/articles"
	NavigatePath      = "/blog/articles/navigate"
	ArticlePath       = "/blog/{slug}"
	PaginationAPIPath = "/api/pagination"
	HealthPath        = "/health"
	ReadyPath         = "/ready"
	MetricsPath       = "/metrics"
)

// Page copy.
const (
	DefaultSiteName    = "FreeRoam"
	ListingHeading     = "All Articles"
	ListingHeroTitle   = "Blog"
	ListingDescription = "All articles of the blog, newest first"
	FetchErrorMessage  = "Sorry, something went wrong 😔 Please refresh ⏳ or try again later."
	NotFoundMessage    = "The page you are looking for does not exist."
)

// DefaultPerPage is the number of articles on a listing page.
const DefaultPerPage = 10

// ArticleSource provides the articles shown by the blog.
type ArticleSource interface {
	PaginatedArticles(ctx context.Context, page, pageSize int) (*strapi.ArticlePage, error)
	ArticleBySlug(ctx context.Context, slug string) (*strapi.Article, error)
}

// Options controls how listings are paginated and titled.
type Options struct {
	ArticlesPerPage int
	SiblingCount    int
	SiteName        string
}

// DefaultOptions returns the listing defaults: ten articles per page and one
// sibling on each side of the current page.
func DefaultOptions() Options {
	return Options{
		ArticlesPerPage: DefaultPerPage,
		SiblingCount:    pagination.DefaultSiblingCount,
		SiteName:        DefaultSiteName,
	}
}

func (o Options) withDefaults() Options {
	if o.ArticlesPerPage < 1 {
		o.ArticlesPerPage = DefaultPerPage
	}
	if o.SiblingCount < 0 {
		o.SiblingCount = pagination.DefaultSiblingCount
	}
	if o.SiteName == "" {
		o.SiteName = DefaultSiteName
	}
	return o
}

// ParsePage reads a 1-based page number. Missing or invalid values yield 1.
func ParsePage(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ArticlesURL returns the listing URL for page.
func ArticlesURL(page int) string {
	return fmt.Sprintf("%s?page=%d", ArticlesPath, page)
}

// ArticleURL returns the detail URL of the article with slug.
func ArticleURL(slug string) string {
	return BlogPath + "/" + url.PathEscape(slug)
}

// StaticPageURL returns the exported URL of listing page n.
func StaticPageURL(n int) string {
	if n <= 1 {
		return "/"
	}
	return fmt.Sprintf("/page/%d/", n)
}

// StaticArticleURL returns the exported URL of the article with slug.
func StaticArticleURL(slug string) string {
	return BlogPath + "/" + url.PathEscape(slug) + "/"
}
