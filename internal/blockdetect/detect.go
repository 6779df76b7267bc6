package blockdetect

import (
	"bytes"
	"net/http"
	"strings"
)

// Detector examines a fetched response to determine whether the search
// engine served an interstitial instead of real results.
type Detector func(statusCode int, header http.Header, body []byte) (detected bool, source string)

// DefaultDetectors returns the standard list of Google interstitial detectors.
func DefaultDetectors() []Detector {
	return []Detector{
		detectSorryPage,
		detectConsentPage,
		detectRateLimit,
	}
}

// Analyze runs the response through all provided detectors and returns the
// first detection, if any.
func Analyze(statusCode int, header http.Header, body []byte, detectors []Detector) (bool, string) {
	for _, d := range detectors {
		if detected, source := d(statusCode, header, body); detected {
			return true, source
		}
	}
	return false, ""
}

// detectSorryPage looks for the google.com/sorry captcha interstitial served
// when automated traffic is suspected.
func detectSorryPage(statusCode int, header http.Header, body []byte) (bool, string) {
	if statusCode == http.StatusTooManyRequests || statusCode == http.StatusForbidden {
		if bytes.Contains(body, []byte("/sorry/index")) ||
			bytes.Contains(body, []byte("g-recaptcha")) {
			return true, "sorry-page"
		}
	}
	if loc := header.Get("Location"); strings.Contains(loc, "google.com/sorry") {
		return true, "sorry-page"
	}
	if bytes.Contains(body, []byte("unusual traffic from your computer network")) {
		return true, "sorry-page"
	}
	return false, ""
}

// detectConsentPage looks for the EU cookie consent wall, which replaces the
// whole results page when no consent cookie is carried.
func detectConsentPage(statusCode int, header http.Header, body []byte) (bool, string) {
	if loc := header.Get("Location"); strings.Contains(loc, "consent.google.com") {
		return true, "consent-page"
	}
	if bytes.Contains(body, []byte("consent.google.com")) &&
		bytes.Contains(body, []byte("Before you continue")) {
		return true, "consent-page"
	}
	return false, ""
}

// detectRateLimit catches a bare 429 with no recognizable body.
func detectRateLimit(statusCode int, header http.Header, body []byte) (bool, string) {
	if statusCode == http.StatusTooManyRequests {
		return true, "rate-limit"
	}
	return false, ""
}
