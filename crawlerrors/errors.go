// Package crawlerrors defines the error taxonomy shared across the
// crawler fleet: fetch failures, extraction failures, and the
// admin-surface errors that propagate to a caller instead of being
// logged and swallowed by a crawler tick.
package crawlerrors

import "fmt"

// FetchError signals a transport failure after retries. A tick that
// sees a FetchError logs it and moves on; the URL is not requeued.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NoMatchedPatternError is returned by an ad-hoc URL extraction when no
// pattern across any site matches the URL.
type NoMatchedPatternError struct {
	URL string
}

func (e *NoMatchedPatternError) Error() string {
	return fmt.Sprintf("no matched url pattern for: %s", e.URL)
}

// NoSuchScraperError signals an unknown scraper kind was requested.
type NoSuchScraperError struct {
	Kind string
}

func (e *NoSuchScraperError) Error() string {
	return fmt.Sprintf("no such scraper: %s", e.Kind)
}

// ExtractionError signals the scraped page produced no text to extract
// entities or sentiment from.
type ExtractionError struct {
	URL string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed, empty text for: %s", e.URL)
}

// InvalidPatternRegex signals a pattern failed to compile; the create
// has no side effects.
type InvalidPatternRegex struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternRegex) Error() string {
	return fmt.Sprintf("invalid pattern regex %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternRegex) Unwrap() error { return e.Err }

// TransientPersistenceError signals a bulk-upsert write failure. Logged
// by the caller; the next periodic pass recomputes and re-upserts
// idempotently so no data is lost.
type TransientPersistenceError struct {
	Op  string
	Err error
}

func (e *TransientPersistenceError) Error() string {
	return fmt.Sprintf("transient persistence error during %s: %v", e.Op, e.Err)
}

func (e *TransientPersistenceError) Unwrap() error { return e.Err }
