// Package icspub publishes calendars to and fetches them from a web server,
// e.g. a CalDAV collection or a WebDAV share that calendar clients subscribe
// to.
//
// Clients are advised to store the [ETags] returned in this package and pass
// them to subsequent calls. Publish then refuses to overwrite a calendar
// that changed on the server, and Fetch skips unchanged calendars.
//
// [ETags]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/ETag
package icspub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ngrash/go-moon/ical"
)

// ContentType is the media type of iCalendar data.
const ContentType = "text/calendar; charset=utf-8"

// emptyEtag is the empty etag value.
const emptyEtag = ""

// ErrPreconditionFailed is returned by Publish if the calendar on the server
// no longer matches the given ETag.
var ErrPreconditionFailed = errors.New("calendar changed on server")

// DefaultClient is the client used by the top-level functions [Publish] and
// [Fetch] in this package.
var DefaultClient = &Client{}

// Client publishes and fetches calendars. The zero value is ready to use.
type Client struct {
	// HTTPClient is the http.Client used for requests. If HTTPClient is
	// nil, http.DefaultClient is used.
	//
	// Tests set a http.Client with a fake http.RoundTripper to prevent
	// network calls.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Publish uploads cal to url with HTTP PUT and returns the ETag the server
// assigned to it. See [Client.Publish].
func Publish(ctx context.Context, url string, cal ical.Calendar, etag string) (string, error) {
	return DefaultClient.Publish(ctx, url, cal, etag)
}

// Publish uploads cal to url with HTTP PUT and returns the ETag the server
// assigned to it, which is empty if the server sent none.
//
// If etag is not empty, the upload only succeeds if the calendar on the
// server still has that ETag. Otherwise ErrPreconditionFailed is returned.
//
// Any status other than 200 OK, 201 Created and 204 No Content is an error.
func (c *Client) Publish(ctx context.Context, url string, cal ical.Calendar, etag string) (string, error) {
	var body bytes.Buffer
	if err := cal.Encode(&body); err != nil {
		return emptyEtag, fmt.Errorf("encode calendar: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &body)
	if err != nil {
		return emptyEtag, fmt.Errorf("create request for %q: %w", url, err)
	}
	req.Header.Set("Content-Type", ContentType)
	if etag != emptyEtag {
		req.Header.Set("If-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return emptyEtag, fmt.Errorf("PUT %q: %w", url, err)
	}
	// Drain and close the response body to reuse the connection.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return resp.Header.Get("etag"), nil
	case http.StatusPreconditionFailed:
		return emptyEtag, fmt.Errorf("PUT %q with etag %q: %w", url, etag, ErrPreconditionFailed)
	}
	return emptyEtag, fmt.Errorf("response for %q: unexpected status: %s", url, resp.Status)
}

// Fetch downloads and decodes the calendar at url. See [Client.Fetch].
func Fetch(ctx context.Context, url, etag string) (*ical.Calendar, string, error) {
	return DefaultClient.Fetch(ctx, url, etag)
}

// Fetch downloads and decodes the calendar at url.
//
// If the server responds with a 304 Not Modified status code, the returned
// ETag is the same as the input and the returned Calendar and error are
// both nil.
//
// If an error is returned, the returned ETag is empty and the returned
// Calendar is nil.
func (c *Client) Fetch(ctx context.Context, url, etag string) (*ical.Calendar, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("create request for %q: %w", url, err)
	}
	if etag != emptyEtag {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("GET %q: %w", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified:
		return nil, etag, nil
	default:
		return nil, emptyEtag, fmt.Errorf("response for %q: unexpected status: %s", url, resp.Status)
	}

	cal, err := ical.Decode(resp.Body)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("decode %q: %w", url, err)
	}
	return &cal, resp.Header.Get("etag"), nil
}
