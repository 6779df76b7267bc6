package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"gsearch/internal/blockdetect"
	"gsearch/internal/fingerprint"
	"gsearch/internal/metrics"
	"gsearch/internal/pagetext"
	"gsearch/internal/scraper"
	"gsearch/internal/serp"
	"gsearch/pkg/useragent"
)

// Config configures a search Client.
type Config struct {
	// BaseURL overrides the search endpoint, mainly for tests.
	BaseURL      string
	Fingerprint  fingerprint.Profile
	MaxRedirects int
	UAPool       *useragent.Pool
	Logger       *slog.Logger
}

// Client runs the whole pipeline: one fetch of the results page, extraction
// into candidates, and concurrent enrichment of each candidate's page.
type Client struct {
	baseURL  string
	fetcher  *scraper.Fetcher
	enricher *pagetext.Enricher
	logger   *slog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	fetcher, err := scraper.NewFetcher(scraper.FetchConfig{
		Fingerprint:  cfg.Fingerprint,
		MaxRedirects: cfg.MaxRedirects,
		UAPool:       cfg.UAPool,
		Detectors:    blockdetect.DefaultDetectors(),
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		fetcher:  fetcher,
		enricher: pagetext.NewEnricher(fetcher),
		logger:   cfg.Logger,
	}, nil
}

// Search runs a search and returns every result once all per-result work has
// finished. A failed results-page fetch, or any failed page enrichment, fails
// the whole call. The order of the returned slice is completion order, not
// extraction order.
func (c *Client) Search(ctx context.Context, req Request) ([]Result, error) {
	req = req.normalized()

	candidates, err := c.fetchCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []Result
	)

	// A plain errgroup on purpose: the first enrichment failure becomes the
	// call's error, but the remaining goroutines still run to completion.
	var g errgroup.Group

	for _, cand := range candidates {
		g.Go(func() error {
			text, err := c.enricher.Enrich(ctx, cand.Href, pagetext.Options{
				Enabled:   req.ReadPageText,
				UserAgent: req.UserAgent,
				Timeout:   req.Timeout,
			})
			if err != nil {
				return err
			}

			mu.Lock()
			results = append(results, Result{Title: cand.Title, Href: cand.Href, PageText: text})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// SearchStream runs a search and emits each result on the returned channel as
// soon as its enrichment completes. A failed results-page fetch is returned
// immediately and nothing is emitted. A failed page enrichment only drops
// that one result, logged; the channel closes once every candidate has been
// processed.
func (c *Client) SearchStream(ctx context.Context, req Request) (<-chan Result, error) {
	req = req.normalized()

	candidates, err := c.fetchCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(chan Result)
	var wg sync.WaitGroup

	for _, cand := range candidates {
		wg.Add(1)
		go func(cand serp.Candidate) {
			defer wg.Done()

			text, err := c.enricher.Enrich(ctx, cand.Href, pagetext.Options{
				Enabled:   req.ReadPageText,
				UserAgent: req.UserAgent,
				Timeout:   req.Timeout,
			})
			if err != nil {
				c.logger.Warn("dropping result after failed page fetch",
					"href", cand.Href, "error", err)
				metrics.ResultsDroppedTotal.WithLabelValues("fetch_failed").Inc()
				return
			}

			out <- Result{Title: cand.Title, Href: cand.Href, PageText: text}
		}(cand)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// fetchCandidates performs the shared front half of both modes: fetch the
// results page once and extract the well-formed candidates. Candidates
// missing a title or href are dropped here, silently.
func (c *Client) fetchCandidates(ctx context.Context, req Request) ([]serp.Candidate, error) {
	metrics.SearchesTotal.Inc()

	target := buildURL(c.baseURL, req)
	c.logger.Debug("fetching results page", "term", req.Term, "url", target)

	doc, err := c.fetcher.Fetch(ctx, target, req.UserAgent, req.Timeout)
	if err != nil {
		return nil, err
	}

	extracted := serp.Extract(doc)

	candidates := make([]serp.Candidate, 0, len(extracted))
	for _, cand := range extracted {
		if cand.Title == "" || cand.Href == "" {
			metrics.ResultsDroppedTotal.WithLabelValues("missing_fields").Inc()
			continue
		}
		candidates = append(candidates, cand)
	}

	c.logger.Debug("extracted candidates",
		"term", req.Term, "total", len(extracted), "usable", len(candidates))

	return candidates, nil
}
