// Package serp extracts result candidates from a fetched Google search
// results page. Extraction is pure and synchronous: it never touches the
// network and never fails, it only yields whatever the markup contains.
package serp

import "github.com/PuerkitoBio/goquery"

// Selectors for the classic (non-JS) results markup. Each organic result
// renders as a div.g block holding an anchor around an h3 title.
const (
	blockSelector  = "div.g"
	titleSelector  = "h3"
	anchorSelector = "a[href]"
)

// Candidate is one extracted result block. Either field may be empty when
// the block lacks a heading or an anchor; filtering is the caller's job.
type Candidate struct {
	Title string
	Href  string
}

// Extract returns the (title, href) candidates of every result block in the
// document, in document order, without de-duplication. Repeated calls over
// the same document yield the same list.
func Extract(doc *goquery.Document) []Candidate {
	var candidates []Candidate

	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		title := block.Find(titleSelector).First().Text()
		href, _ := block.Find(anchorSelector).First().Attr("href")

		candidates = append(candidates, Candidate{Title: title, Href: href})
	})

	return candidates
}
