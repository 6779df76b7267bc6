// Package search scrapes one page of Google results for a query, optionally
// fetching and flattening the text of every linked page concurrently.
// Results come back either as a buffered slice or as a stream.
package search

import (
	"time"

	"gsearch/pkg/useragent"
)

// Result is one search hit. It is only ever produced with a non-empty Title
// and Href; PageText stays empty unless page enrichment was requested.
type Result struct {
	Title    string `json:"title"`
	Href     string `json:"href"`
	PageText string `json:"page_text,omitempty"`
}

// Timeframe restricts results to a recency window via Google's tbs=qdr:
// query parameter.
type Timeframe int

const (
	TimeframeNone Timeframe = iota
	PastHour
	Past24Hours
	PastWeek
	PastMonth
	PastYear
)

// Code returns the qdr filter code consumed by the request URL, or "" for
// TimeframeNone.
func (t Timeframe) Code() string {
	switch t {
	case PastHour:
		return "h"
	case Past24Hours:
		return "d"
	case PastWeek:
		return "w"
	case PastMonth:
		return "m"
	case PastYear:
		return "y"
	default:
		return ""
	}
}

func (t Timeframe) String() string {
	switch t {
	case PastHour:
		return "past-hour"
	case Past24Hours:
		return "past-24-hours"
	case PastWeek:
		return "past-week"
	case PastMonth:
		return "past-month"
	case PastYear:
		return "past-year"
	default:
		return "none"
	}
}

// Default request parameters.
const (
	DefaultNumResults = 10
	DefaultLanguage   = "en"
	DefaultSafeMode   = "active"
	DefaultTimeout    = 10 * time.Second
)

// Request holds the parameters of one search call. It is built per call and
// discarded afterwards.
type Request struct {
	Term       string
	NumResults int
	Language   string
	SafeMode   string
	Timeframe  Timeframe
	// Timeout bounds each network call individually, not the search as
	// a whole.
	Timeout time.Duration
	// ReadPageText turns on fetching and flattening each result's page.
	ReadPageText bool
	UserAgent    string
}

// NewRequest returns a Request for term with every option at its default:
// 10 results, English, safe mode active, no timeframe, 10s timeout, page
// text enabled, Chrome User-Agent.
func NewRequest(term string) Request {
	return Request{
		Term:         term,
		NumResults:   DefaultNumResults,
		Language:     DefaultLanguage,
		SafeMode:     DefaultSafeMode,
		Timeframe:    TimeframeNone,
		Timeout:      DefaultTimeout,
		ReadPageText: true,
		UserAgent:    useragent.Default,
	}
}

// normalized fills the zero fields of a hand-built Request with the same
// defaults NewRequest applies. ReadPageText is left alone: its zero value
// means enrichment is off.
func (r Request) normalized() Request {
	if r.NumResults <= 0 {
		r.NumResults = DefaultNumResults
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.SafeMode == "" {
		r.SafeMode = DefaultSafeMode
	}
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	if r.UserAgent == "" {
		r.UserAgent = useragent.Default
	}
	return r
}
