// Package enrich fetches page metadata (title, thumbnail) for bookmarks.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/linkstashapp/linkstash-server/internal/ratelimit"
)

// maxBodyBytes bounds how much of a page is read while looking for
// metadata; everything we care about lives in <head>.
const maxBodyBytes = 1 << 20

// Metadata is the page information extracted for a bookmark.
type Metadata struct {
	Title     string
	Thumbnail string
}

// Fetcher retrieves page metadata over HTTP. Outbound requests are rate
// limited per target host so a large import doesn't hammer one site.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *ratelimit.KeyedRateLimiter
}

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		// 1 rps per host with small bursts.
		limiter: ratelimit.New(1, 3),
	}
}

// Fetch downloads the page at rawURL and extracts its metadata.
// Missing metadata is not an error: callers receive empty fields.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", target.Scheme)
	}

	if err := f.limiter.Wait(ctx, target.Host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	meta, err := Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	// Thumbnails are often page-relative; resolve against the final URL
	// so redirects are honored.
	if meta.Thumbnail != "" {
		if thumb, err := resp.Request.URL.Parse(meta.Thumbnail); err == nil {
			meta.Thumbnail = thumb.String()
		}
	}

	return meta, nil
}

// Parse extracts metadata from an HTML document.
//
// Title preference: og:title, then the <title> element.
// Thumbnail preference: og:image, twitter:image, <link rel="image_src">,
// article:image — first hit wins within each preference rank.
func Parse(r io.Reader) (*Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		meta       Metadata
		titleTag   string
		ogTitle    string
		candidates = make(map[string]string)
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && titleTag == "" {
					titleTag = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				content := strings.TrimSpace(attr(n, "content"))
				if content == "" {
					break
				}
				switch key {
				case "og:title":
					if ogTitle == "" {
						ogTitle = content
					}
				case "og:image", "twitter:image", "article:image":
					if candidates[key] == "" {
						candidates[key] = content
					}
				}
			case "link":
				if attr(n, "rel") == "image_src" && candidates["image_src"] == "" {
					candidates["image_src"] = strings.TrimSpace(attr(n, "href"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	meta.Title = ogTitle
	if meta.Title == "" {
		meta.Title = titleTag
	}

	for _, key := range []string{"og:image", "twitter:image", "image_src", "article:image"} {
		if candidates[key] != "" {
			meta.Thumbnail = candidates[key]
			break
		}
	}

	return &meta, nil
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
