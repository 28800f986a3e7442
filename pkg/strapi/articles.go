package strapi

import (
	"context"
	"fmt"
	"time"
)

// Operation names of the article queries.
const (
	OpPaginatedArticles = "GetPaginatedArticles"
	OpArticleBySlug     = "GetArticleBySlug"
)

// PaginatedArticlesQuery lists published articles, newest first.
const PaginatedArticlesQuery = `query GetPaginatedArticles($page: Int!, $pageSize: Int!) {
  articles(sort: "publishedAt:desc", pagination: { page: $page, pageSize: $pageSize }) {
    data {
      id
      attributes {
        title
        slug
        description
        publishedAt
      }
    }
    meta {
      pagination {
        total
        page
        pageSize
        pageCount
      }
    }
  }
}`

// ArticleBySlugQuery fetches a single article including its body.
const ArticleBySlugQuery = `query GetArticleBySlug($slug: String!) {
  articles(filters: { slug: { eq: $slug } }, pagination: { limit: 1 }) {
    data {
      id
      attributes {
        title
        slug
        description
        content
        publishedAt
      }
    }
  }
}`

// Article is a Strapi article entity.
type Article struct {
	ID         string            `json:"id"`
	Attributes ArticleAttributes `json:"attributes"`
}

// ArticleAttributes are the content fields of an article.
type ArticleAttributes struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PaginationMeta is Strapi's page-based pagination metadata.
type PaginationMeta struct {
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
}

// ArticlePage is one page of the article listing.
type ArticlePage struct {
	Articles   []Article
	Pagination PaginationMeta
}

type articlesResponse struct {
	Articles struct {
		Data []Article `json:"data"`
		Meta struct {
			Pagination PaginationMeta `json:"pagination"`
		} `json:"meta"`
	} `json:"articles"`
}

// PaginatedArticles fetches page of the article listing with pageSize articles per page.
func (c *Client) PaginatedArticles(ctx context.Context, page, pageSize int) (*ArticlePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = c.config.PageSize
	}

	var out articlesResponse
	err := c.Query(ctx, Request{
		Query:         PaginatedArticlesQuery,
		OperationName: OpPaginatedArticles,
		Variables:     map[string]any{"page": page, "pageSize": pageSize},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch articles page %d: %w", page, err)
	}

	return &ArticlePage{
		Articles:   out.Articles.Data,
		Pagination: out.Articles.Meta.Pagination,
	}, nil
}

// ArticleBySlug fetches the article with slug. It returns ErrArticleNotFound
// when no article matches.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	if slug == "" {
		return nil, ErrArticleNotFound
	}

	var out articlesResponse
	err := c.Query(ctx, Request{
		Query:         ArticleBySlugQuery,
		OperationName: OpArticleBySlug,
		Variables:     map[string]any{"slug": slug},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch article %q: %w", slug, err)
	}

	if len(out.Articles.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
	}
	return &out.Articles.Data[0], nil
}

// FetchPage fetches listing page pageNum with the configured page size and
// reports the total page count, so a Client can drive a pagination.BatchFetcher.
func (c *Client) FetchPage(ctx context.Context, pageNum int) (*ArticlePage, int, error) {
	page, err := c.PaginatedArticles(ctx, pageNum, c.config.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return page, page.Pagination.PageCount, nil
}
