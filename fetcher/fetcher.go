// Package fetcher defines and implements the downloading utilities used
// by the scraper pipeline to retrieve remote resources.
package fetcher

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aybabtme/iocontrol"
	"github.com/PuerkitoBio/rehttp"

	"github.com/trendin/entitycrawler/crawlerrors"
)

// maxBodyBytesPerSec bounds how fast a single response body is read,
// so that one very large or very slow response cannot balloon memory
// use while the caller is still inside the fetch timeout window.
const maxBodyBytesPerSec = 8 * 1024 * 1024

// FeedContentTypes is the acceptance set used to recognize an RSS/Atom
// feed response by its Content-Type header.
var FeedContentTypes = map[string]bool{
	"application/rss+xml":  true,
	"application/atom+xml": true,
	"application/rss":      true,
	"application/atom":     true,
	"application/rdf+xml":  true,
	"application/rdf":      true,
	"text/rss+xml":         true,
	"text/atom+xml":        true,
	"text/rss":             true,
	"text/atom":            true,
	"text/rdf":             true,
	"text/xml":             true,
	"application/xml":      true,
}

// Fetcher exposes methods to fetch remote resources over HTTP.
type Fetcher interface {
	// Get performs an HTTP GET, returning the elapsed time, the raw
	// body bytes and the Content-Type header, or a *crawlerrors.FetchError.
	Get(url string) (time.Duration, []byte, string, error)
	// ContentType performs a HEAD request and returns the Content-Type
	// header value, or a *crawlerrors.FetchError.
	ContentType(url string) (string, error)
}

type stdHTTPFetcher struct {
	userAgent string
	client    *http.Client
}

// New creates a new Fetcher with a fixed user-agent and wall-clock
// timeout. It retries temporary errors up to 3 times with an
// exponential-jitter backoff, mirroring the teacher's transport.
func New(userAgent string, timeout time.Duration) Fetcher {
	transport := rehttp.NewTransport(
		&http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
		},
		rehttp.RetryAll(rehttp.RetryMaxRetries(3), rehttp.RetryTemporaryErr()),
		rehttp.ExpJitterDelay(1*time.Second, 10*time.Second),
	)
	client := &http.Client{Timeout: timeout, Transport: transport}
	return &stdHTTPFetcher{userAgent: userAgent, client: client}
}

func (f *stdHTTPFetcher) do(method, url string) (time.Duration, *http.Response, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return 0, nil, &crawlerrors.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	res, err := f.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, nil, &crawlerrors.FetchError{URL: url, Err: err}
	}
	return elapsed, res, nil
}

func (f *stdHTTPFetcher) Get(url string) (time.Duration, []byte, string, error) {
	elapsed, res, err := f.do(http.MethodGet, url)
	if err != nil {
		return elapsed, nil, "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return elapsed, nil, "", &crawlerrors.FetchError{
			URL: url,
			Err: fmt.Errorf("unexpected status %s", res.Status),
		}
	}

	// Bound the read rate of the body so that one slow or oversized
	// response can't exhaust memory before the client timeout fires.
	throttled := iocontrol.ThrottledReader(res.Body, maxBodyBytesPerSec, iocontrol.NewRealClock())
	body, err := io.ReadAll(throttled)
	if err != nil {
		return elapsed, nil, "", &crawlerrors.FetchError{URL: url, Err: err}
	}
	return elapsed, body, res.Header.Get("Content-Type"), nil
}

func (f *stdHTTPFetcher) ContentType(url string) (string, error) {
	_, res, err := f.do(http.MethodHead, url)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	return res.Header.Get("Content-Type"), nil
}
