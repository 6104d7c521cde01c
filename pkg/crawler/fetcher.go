package crawler

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0",
}

// FetchResult is one fetched page. FinalURL is the URL after redirects.
type FetchResult struct {
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a single page. Implementations follow redirects and
// report the final resolved URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// FetchError wraps a per-URL fetch failure. It is recoverable: the
// scheduler drops the entry and the run continues.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

const fetchRetries = 3

// httpFetcher is the default Fetcher. Transient failures (network errors,
// 5xx, 429) retry with exponential backoff; that retry budget is internal
// and does not count against the crawl's page or time budget.
type httpFetcher struct {
	client    *http.Client
	userAgent string
}

func newHTTPFetcher(timeout time.Duration, userAgent string) *httpFetcher {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}
	return &httpFetcher{
		client:    &http.Client{Transport: transport, Timeout: timeout},
		userAgent: userAgent,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	var lastErr error

	for attempt := 0; attempt < fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(100*(1<<attempt)) * time.Millisecond):
			case <-ctx.Done():
				return nil, &FetchError{URL: pageURL, Err: ctx.Err()}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, &FetchError{URL: pageURL, Err: err}
		}
		req.Header.Set("User-Agent", f.agent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.7,de;q=0.5")

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = readErr
				continue
			}
			if !isHTMLContentType(resp.Header.Get("Content-Type")) {
				return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("non-HTML content type %q", resp.Header.Get("Content-Type"))}
			}
			return &FetchResult{
				FinalURL:    resp.Request.URL.String(),
				StatusCode:  resp.StatusCode,
				ContentType: resp.Header.Get("Content-Type"),
				Body:        body,
			}, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			// Transient server-side condition, retry.
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		default:
			return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
		}
	}

	return nil, &FetchError{URL: pageURL, Err: lastErr}
}

func (f *httpFetcher) agent() string {
	if f.userAgent != "" {
		return f.userAgent
	}
	return userAgents[rand.Intn(len(userAgents))]
}

func isHTMLContentType(contentType string) bool {
	mime := strings.TrimSpace(strings.Split(strings.ToLower(contentType), ";")[0])
	switch mime {
	case "", "text/html", "application/xhtml+xml", "application/xhtml", "text/xml", "application/xml":
		return true
	}
	return false
}
