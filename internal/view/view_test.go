package view_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booklog/internal/book"
	"booklog/internal/platform/quotes"
	"booklog/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v float64) *float64 { return &v }

func TestRenderer_Index(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)

	read := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	page := book.ListPage{
		Books: []book.Book{
			{ISBN: "123", Title: "T", Author: "A", Rating: rating(5), DateRead: &read, Notes: "n"},
			{ISBN: "456", Title: "<script>x</script>"},
		},
		CoverImages: []string{
			"https://covers.openlibrary.org/b/isbn/123-M.jpg",
			"https://covers.openlibrary.org/b/isbn/456-M.jpg",
		},
		QuoteData: quotes.Fallback,
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, view.PageIndex, page))
	html := buf.String()

	assert.Contains(t, html, `src="https://covers.openlibrary.org/b/isbn/123-M.jpg"`)
	assert.Contains(t, html, `href="/edit/123"`)
	assert.Contains(t, html, `href="/delete/123"`)
	assert.Contains(t, html, "Read 2024-01-01")
	assert.Contains(t, html, "5/10")
	assert.Contains(t, html, "George R.R. Martin")
	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
	assert.Contains(t, html, "Not rated")
	assert.NotContains(t, html, "<script>x</script>")
}

func TestRenderer_IndexHidesDeleteLinkWhenAuthRequired(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)

	page := book.ListPage{
		Books:              []book.Book{{ISBN: "123", Title: "T"}},
		CoverImages:        []string{"https://covers.openlibrary.org/b/isbn/123-M.jpg"},
		DeleteRequiresAuth: true,
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, view.PageIndex, page))
	assert.NotContains(t, buf.String(), `href="/delete/123"`)
}

func TestRenderer_EmptyIndex(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, view.PageIndex, book.ListPage{QuoteData: quotes.Fallback}))
	assert.Contains(t, buf.String(), "No books yet.")
}

func TestRenderer_Forms(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, view.PageNew, book.FormPage{}))
	assert.Contains(t, buf.String(), `action="/new"`)

	buf.Reset()
	read := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	b := book.Book{ISBN: "9780140449136", Title: "The Odyssey", Rating: rating(8.5), DateRead: &read, Notes: "wine-dark sea"}
	require.NoError(t, r.Render(&buf, view.PageEdit, book.FormPage{Book: &b}))
	html := buf.String()
	assert.Contains(t, html, `action="/edit/9780140449136"`)
	assert.Contains(t, html, `value="2023-06-30"`)
	assert.Contains(t, html, `value="8.5"`)
	assert.Contains(t, html, "wine-dark sea")
	assert.Contains(t, html, `action="/delete/9780140449136"`)
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing", nil))
	assert.Empty(t, buf.String())
}

func TestStyles(t *testing.T) {
	h := view.Styles()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, view.StylesPath+"main.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, view.StylesPath+"missing.css", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
