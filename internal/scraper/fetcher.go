package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gsearch/internal/blockdetect"
	"gsearch/internal/fingerprint"
	"gsearch/internal/metrics"
	"gsearch/pkg/httpclient"
	"gsearch/pkg/useragent"
)

// FetchError reports a failed page fetch: a transport error, a timeout, or a
// non-2xx response. URL is the page that failed; StatusCode is zero when no
// HTTP response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Fingerprint  fingerprint.Profile
	MaxRedirects int
	// UAPool supplies a User-Agent for calls that don't pass one explicitly.
	UAPool *useragent.Pool
	// Detectors inspect responses for search engine interstitials. Detection
	// is observational: it logs and counts but never fails the fetch.
	Detectors []blockdetect.Detector
	Logger    *slog.Logger
}

// Fetcher performs single blocking GETs and parses the response body into a
// queryable document. It holds one client so connections are reused across
// fetches within a search.
type Fetcher struct {
	cfg    FetchConfig
	client *httpclient.Client
	logger *slog.Logger
}

// NewFetcher initializes a Fetcher with the given configuration.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if string(cfg.Fingerprint) == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 5
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		MaxRedirects: cfg.MaxRedirects,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Fetcher{
		cfg:    cfg,
		client: client,
		logger: cfg.Logger,
	}, nil
}

// Fetch executes one GET against targetURL with the given User-Agent and a
// hard per-call timeout, returning the parsed document. There are no retries;
// any transport failure or non-2xx status yields a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, targetURL, userAgent string, timeout time.Duration) (*goquery.Document, error) {
	if userAgent == "" {
		userAgent = f.cfg.UAPool.Next()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	host := hostOf(targetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Err: err}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		metrics.RecordFetch(host, 0, time.Since(start), 0)
		return nil, &FetchError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetch(host, resp.StatusCode, time.Since(start), 0)
		return nil, &FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	metrics.RecordFetch(host, resp.StatusCode, time.Since(start), len(body))

	if detected, source := blockdetect.Analyze(resp.StatusCode, resp.Header, body, f.cfg.Detectors); detected {
		f.logger.Warn("fetch hit an interstitial", "url", targetURL, "source", source)
		metrics.BlockedTotal.WithLabelValues(source).Inc()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse document: %w", err)}
	}

	return doc, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Hostname()
}
