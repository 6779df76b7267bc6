// Package pagetext reduces a fetched page to its flattened visible text,
// optionally fetching the page first.
package pagetext

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gsearch/internal/scraper"
)

// Options controls one enrichment call.
type Options struct {
	// Enabled gates the whole enrichment; when false no network access
	// happens and the text is empty.
	Enabled   bool
	UserAgent string
	Timeout   time.Duration
}

// Enricher fetches a result's page and flattens it to text.
type Enricher struct {
	fetcher *scraper.Fetcher
}

// NewEnricher creates an Enricher on top of the given fetcher.
func NewEnricher(fetcher *scraper.Fetcher) *Enricher {
	return &Enricher{fetcher: fetcher}
}

// Enrich fetches href and returns its flattened visible text. When
// enrichment is disabled or href is empty it returns "" immediately.
// Fetch failures propagate to the caller, which decides whether they are
// fatal (buffered mode) or only drop the one result (streaming mode).
func (e *Enricher) Enrich(ctx context.Context, href string, opt Options) (string, error) {
	if !opt.Enabled || href == "" {
		return "", nil
	}

	doc, err := e.fetcher.Fetch(ctx, href, opt.UserAgent, opt.Timeout)
	if err != nil {
		return "", err
	}

	return Flatten(doc), nil
}

// Flatten strips all markup from the document and normalizes whitespace,
// leaving the visible text joined by single spaces. Script, style and
// similar non-rendered subtrees are removed first. The document is consumed
// by the operation.
func Flatten(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template, iframe").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
