package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleBody = `Go is an open source programming language that makes it simple to build
secure, scalable systems. It was designed at Google and has become a staple
of cloud infrastructure, command line tools, and network services everywhere.`

func servePage(t *testing.T, html string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchPrefersArticleOverBody(t *testing.T) {
	html := `<html><head><title>Go Guide</title></head><body>
		<nav>Home About Contact and lots of navigation text that should never appear in output</nav>
		<article>` + articleBody + `</article>
		<footer>Copyright footer text</footer>
	</body></html>`

	srv := servePage(t, html)

	page, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Go Guide", page.Title)
	assert.Contains(t, page.Content, "open source programming language")
	assert.NotContains(t, page.Content, "navigation text")
	assert.NotContains(t, page.Content, "Copyright")
}

func TestFetchFallsBackToBody(t *testing.T) {
	html := `<html><head><title>Plain</title></head><body>` + articleBody + `</body></html>`

	srv := servePage(t, html)

	page, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, page.Content, "cloud infrastructure")
}

func TestFetchRejectsThinPages(t *testing.T) {
	srv := servePage(t, `<html><head><title>Thin</title></head><body><p>too short</p></body></html>`)

	_, err := New().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content could be extracted")
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestTitleFallbackChain(t *testing.T) {
	ogPage := `<html><head><meta property="og:title" content="OG Title"></head><body><article>` +
		articleBody + `</article></body></html>`
	h1Page := `<html><head></head><body><h1>Heading Title</h1><article>` +
		articleBody + `</article></body></html>`
	barePage := `<html><head></head><body><article>` + articleBody + `</article></body></html>`

	tests := []struct {
		name  string
		html  string
		title string
	}{
		{"og:title", ogPage, "OG Title"},
		{"h1", h1Page, "Heading Title"},
		{"untitled", barePage, "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := servePage(t, tt.html)

			page, err := New().Fetch(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.title, page.Title)
		})
	}
}

func TestLastModifiedFromMetaTag(t *testing.T) {
	html := `<html><head>
		<title>Dated</title>
		<meta property="article:modified_time" content="2026-03-15T09:30:00Z">
	</head><body><article>` + articleBody + `</article></body></html>`

	srv := servePage(t, html)

	page, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	want := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	assert.True(t, page.LastModified.Equal(want))
}

func TestLastModifiedHeaderWinsOverMeta(t *testing.T) {
	html := `<html><head>
		<meta property="article:modified_time" content="2026-03-15T09:30:00Z">
	</head><body><article>` + articleBody + `</article></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Last-Modified", "Tue, 05 May 2026 10:00:00 GMT")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	page, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	want := time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC)
	assert.True(t, page.LastModified.Equal(want))
}

func TestContentWhitespaceNormalized(t *testing.T) {
	padded := strings.ReplaceAll(articleBody, " ", "   \n\t ")
	html := `<html><body><article>` + padded + `</article></body></html>`

	srv := servePage(t, html)

	page, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotContains(t, page.Content, "  ")
	assert.NotContains(t, page.Content, "\n")
}
