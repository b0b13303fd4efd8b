package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxFetchBytes bounds how much of a remote document is read.
// 2 MiB is far beyond what MaxTextLen can use but keeps huge pages
// from being buffered whole.
const maxFetchBytes = 2 << 20

// Page is a fetched document reduced to the parts quiz generation needs.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Fetcher retrieves pages over HTTP and extracts their visible text.
// Used server-side when a quiz request carries a URL but no text.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the document at url and returns its title and
// normalized visible text. Returns ErrNoContent when the page yields
// no text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "quizler/1.0 (+https://github.com/quizler/quizler)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	text, err := FromHTML(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return &Page{
		URL:   url,
		Title: Title(bytes.NewReader(body)),
		Text:  text,
	}, nil
}
