package blog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Bilaal96/blog-next-strapi/internal/testutil"
	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/Bilaal96/blog-next-strapi/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportClient(t *testing.T, mock *testutil.MockStrapi) *strapi.Client {
	t.Helper()
	client, err := strapi.New(strapi.DefaultConfig(mock.URL(), nil))
	require.NoError(t, err)
	return client
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExporter_Export(t *testing.T) {
	mock := testutil.NewMockStrapi(25)
	defer mock.Close()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	out := t.TempDir()
	exporter := NewExporter(newExportClient(t, mock), renderer, DefaultOptions(), pagination.Config{MaxConcurrency: 2})

	result, err := exporter.Export(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 25, result.Articles)

	for _, p := range []string{
		"index.html",
		"page/1/index.html",
		"page/2/index.html",
		"page/3/index.html",
		"blog/article-1/index.html",
		"blog/article-25/index.html",
	} {
		assert.FileExists(t, filepath.Join(out, p))
	}
	assert.NoFileExists(t, filepath.Join(out, "page/4/index.html"))

	index := readFile(t, filepath.Join(out, "index.html"))
	assert.Equal(t, readFile(t, filepath.Join(out, "page/1/index.html")), index)
	assert.Contains(t, index, `href="/page/2/"`)
	assert.Contains(t, index, `href="/blog/article-1/"`)
	assert.NotContains(t, index, "<form", "static pages link between pages")

	second := readFile(t, filepath.Join(out, "page/2/index.html"))
	assert.Contains(t, second, `aria-label="Previous page">`)
	assert.Contains(t, second, `href="/"`)
	assert.Contains(t, second, "Article 11")

	article := readFile(t, filepath.Join(out, "blog/article-7/index.html"))
	assert.Contains(t, article, "Body of article 7.")
}

func TestExporter_FetchError(t *testing.T) {
	mock := testutil.NewMockStrapi(25)
	defer mock.Close()
	mock.SetResponse(strapi.OpPaginatedArticles, testutil.NewServerErrorResponse())

	renderer, err := NewRenderer()
	require.NoError(t, err)

	out := t.TempDir()
	_, err = NewExporter(newExportClient(t, mock), renderer, DefaultOptions(), pagination.DefaultConfig()).Export(context.Background(), out)
	require.Error(t, err)
	assert.Equal(t, strapi.ErrorClassServer, strapi.Class(err))
	assert.NoFileExists(t, filepath.Join(out, "index.html"))
}

func TestSafeSlug(t *testing.T) {
	for slug, want := range map[string]bool{
		"hello-world": true,
		"":            false,
		".":           false,
		"..":          false,
		"a/b":         false,
		`a\b`:         false,
	} {
		assert.Equal(t, want, safeSlug(slug), "safeSlug(%q)", slug)
	}
}
