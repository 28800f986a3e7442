package blog

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/Bilaal96/blog-next-strapi/pkg/strapi"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates, each rendered inside templates/layout.html.
const (
	PageArticles = "articles"
	PageArticle  = "article"
	PageError    = "error"
)

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"date": formatDate,
	}

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageArticles, PageArticle, PageError} {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		t, err := base.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with data.
func (r *Renderer) Render(w io.Writer, name string, data *PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// PageData is the model of every page.
type PageData struct {
	Title       string
	Description string
	SiteName    string
	HomeURL     string
	Hero        string
	Heading     string
	Error       string
	Listing     *Listing
	Article     *ArticleView
}

// Listing is a page of article previews framed by pagination controls.
type Listing struct {
	Page       int
	Pagination template.HTML
	Articles   []ArticlePreview
}

// ArticlePreview is one entry of a listing.
type ArticlePreview struct {
	Title       string
	Description string
	URL         string
	PublishedAt time.Time
}

// ArticleView is the model of the article detail page.
type ArticleView struct {
	Title       string
	Description string
	Content     string
	PublishedAt time.Time
	BackURL     string
}

func listingPage(opts Options, homeURL string) *PageData {
	return &PageData{
		Title:       ListingHeading + " | " + opts.SiteName,
		Description: ListingDescription,
		SiteName:    opts.SiteName,
		HomeURL:     homeURL,
		Hero:        ListingHeroTitle,
		Heading:     ListingHeading,
	}
}

func errorPage(opts Options, homeURL, heading, message string) *PageData {
	return &PageData{
		Title:    heading + " | " + opts.SiteName,
		SiteName: opts.SiteName,
		HomeURL:  homeURL,
		Hero:     ListingHeroTitle,
		Heading:  heading,
		Error:    message,
	}
}

func articlePage(opts Options, homeURL string, a *strapi.Article) *PageData {
	return &PageData{
		Title:       a.Attributes.Title + " | " + opts.SiteName,
		Description: a.Attributes.Description,
		SiteName:    opts.SiteName,
		HomeURL:     homeURL,
		Hero:        ListingHeroTitle,
		Heading:     a.Attributes.Title,
		Article: &ArticleView{
			Title:       a.Attributes.Title,
			Description: a.Attributes.Description,
			Content:     a.Attributes.Content,
			PublishedAt: a.Attributes.PublishedAt,
			BackURL:     homeURL,
		},
	}
}

// newListing renders view and collects the previews of result.
func newListing(page int, result *strapi.ArticlePage, view *pagination.View, articleURL func(string) string) (*Listing, error) {
	nav, err := view.HTML()
	if err != nil {
		return nil, err
	}

	previews := make([]ArticlePreview, 0, len(result.Articles))
	for _, a := range result.Articles {
		previews = append(previews, ArticlePreview{
			Title:       a.Attributes.Title,
			Description: a.Attributes.Description,
			URL:         articleURL(a.Attributes.Slug),
			PublishedAt: a.Attributes.PublishedAt,
		})
	}

	return &Listing{Page: page, Pagination: nav, Articles: previews}, nil
}
