package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pders01/fred/internal/config"
	"github.com/pders01/fred/internal/debuglog"
)

const (
	defaultUserAgent = "fred/1.0 (terminal feed reader)"
	defaultTimeout   = 30 * time.Second
	acceptHeader     = "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml"
)

// DocumentParser turns a response body into a Document.
type DocumentParser interface {
	Parse(r io.Reader) (*Document, error)
}

type Fetcher struct {
	client    *http.Client
	parser    DocumentParser
	userAgent string
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := defaultTimeout
	userAgent := defaultUserAgent
	if cfg != nil {
		if cfg.Feed.HTTPTimeout > 0 {
			timeout = cfg.Feed.HTTPTimeout
		}
		if cfg.Feed.UserAgent != "" {
			userAgent = cfg.Feed.UserAgent
		}
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		parser:    NewParser(),
		userAgent: userAgent,
	}
}

// WithParser swaps the parser used on response bodies.
func (f *Fetcher) WithParser(p DocumentParser) *Fetcher {
	f.parser = p
	return f
}

// Fetch performs one GET against url and parses the body. Every failure
// is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	log := debuglog.WithFields(map[string]interface{}{"url": url})
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warnf("fetch failed: %v", err)
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("fetching feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Warnf("fetch returned HTTP %d", resp.StatusCode)
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("HTTP error: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("reading response: %w", err)}
	}

	doc, err := f.parser.Parse(bytes.NewReader(body))
	if err == nil && doc == nil {
		err = fmt.Errorf("parser returned no document")
	}
	if err != nil {
		log.Warnf("parse failed: %v", err)
		return nil, &FetchError{Kind: KindParse, URL: url, Err: err}
	}

	log.Debugf("fetched %d items in %s", len(doc.Items), time.Since(started).Round(time.Millisecond))
	return doc, nil
}
