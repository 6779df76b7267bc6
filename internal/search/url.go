package search

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the endpoint queried for results pages.
const DefaultBaseURL = "https://www.google.com/search"

// resultPadding is added to the num= hint because Google renders a couple of
// blocks per page that are not real results.
const resultPadding = 2

// buildURL assembles the request URL for one search. The parameter order is
// fixed; url.Values.Encode would sort keys and change the shape the upstream
// service is known to accept. QueryEscape encodes spaces in the term as '+'.
func buildURL(base string, req Request) string {
	u := fmt.Sprintf("%s?q=%s&hl=%s&safe=%s&num=%d",
		base,
		url.QueryEscape(req.Term),
		req.Language,
		req.SafeMode,
		req.NumResults+resultPadding,
	)

	if code := req.Timeframe.Code(); code != "" {
		u += "&tbs=qdr:" + code
	}

	return u
}
