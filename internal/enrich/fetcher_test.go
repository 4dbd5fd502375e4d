package enrich

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

func TestParse_TitlePreference(t *testing.T) {
	page := `<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="Open Graph Title">
	</head><body></body></html>`

	meta, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Open Graph Title", meta.Title)
}

func TestParse_TitleElementFallback(t *testing.T) {
	page := `<html><head><title>  Just a Title  </title></head></html>`

	meta, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Just a Title", meta.Title)
}

func TestParse_ThumbnailPriority(t *testing.T) {
	tests := []struct {
		name string
		head string
		want string
	}{
		{
			name: "og:image wins over everything",
			head: `<meta name="twitter:image" content="https://example.com/tw.png">
			       <meta property="og:image" content="https://example.com/og.png">
			       <link rel="image_src" href="https://example.com/link.png">`,
			want: "https://example.com/og.png",
		},
		{
			name: "twitter:image before image_src",
			head: `<link rel="image_src" href="https://example.com/link.png">
			       <meta name="twitter:image" content="https://example.com/tw.png">`,
			want: "https://example.com/tw.png",
		},
		{
			name: "image_src before article:image",
			head: `<meta property="article:image" content="https://example.com/art.png">
			       <link rel="image_src" href="https://example.com/link.png">`,
			want: "https://example.com/link.png",
		},
		{
			name: "article:image as last resort",
			head: `<meta property="article:image" content="https://example.com/art.png">`,
			want: "https://example.com/art.png",
		},
		{
			name: "nothing",
			head: `<meta name="description" content="no pictures here">`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Parse(strings.NewReader("<html><head>" + tt.head + "</head></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.Thumbnail)
		})
	}
}

func TestParse_EmptyContentIgnored(t *testing.T) {
	page := `<html><head>
		<meta property="og:image" content="">
		<meta name="twitter:image" content="https://example.com/tw.png">
	</head></html>`

	meta, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/tw.png", meta.Thumbnail)
}

func TestFetch(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Server Page</title>
			<meta property="og:image" content="/static/cover.png">
		</head></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "TestAgent/1.0")
	meta, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "TestAgent/1.0", gotUserAgent)
	assert.Equal(t, "Server Page", meta.Title)
	// Relative thumbnails resolve against the page URL.
	assert.Equal(t, srv.URL+"/static/cover.png", meta.Thumbnail)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "TestAgent/1.0")
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetch_RejectsNonHTTPSchemes(t *testing.T) {
	f := NewFetcher(5*time.Second, "TestAgent/1.0")

	_, err := f.Fetch(context.Background(), "file:///etc/passwd")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "ftp://example.com/thing")
	assert.Error(t, err)
}
