package icspub

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-moon/ical"
)

// roundTripperFunc is a function that implements the http.RoundTripper interface.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func fakeClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func response(status int, etag string, body []byte) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
	if etag != "" {
		resp.Header.Set("etag", etag)
	}
	return resp
}

const testURL = "https://dav.example.org/calendars/moon/Moonphases-2016.ics"

func testCalendar() ical.Calendar {
	stamp := time.Date(2016, time.August, 23, 10, 0, 0, 0, time.UTC)
	return ical.Calendar{
		Method:  ical.MethodPublish,
		Version: ical.Version,
		Name:    "Moon phases",
		ProdID:  ical.DefaultProdID,
		Events: []ical.Event{{
			UID:         "20160823T100000Z-1@example.org",
			Stamp:       stamp,
			Summary:     "Full Moon",
			Start:       ical.Date{Year: 2016, Month: time.November, Day: 14},
			End:         ical.Date{Year: 2016, Month: time.November, Day: 15},
			Transparent: true,
		}},
	}
}

// fakeServer stores one calendar and honours conditional requests.
type fakeServer struct {
	t    *testing.T
	etag string
	data []byte
	puts int
}

func (s *fakeServer) roundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.String() != testURL {
		s.t.Errorf("unexpected URL %q", req.URL)
	}
	switch req.Method {
	case http.MethodPut:
		if got := req.Header.Get("Content-Type"); got != ContentType {
			s.t.Errorf("Content-Type = %q, want %q", got, ContentType)
		}
		if m := req.Header.Get("If-Match"); m != "" && m != s.etag {
			return response(http.StatusPreconditionFailed, "", nil), nil
		}
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		status := http.StatusNoContent
		if s.data == nil {
			status = http.StatusCreated
		}
		s.puts++
		s.data = data
		s.etag = `"v` + strings.Repeat("1", s.puts) + `"`
		return response(status, s.etag, nil), nil
	case http.MethodGet:
		if s.data == nil {
			return response(http.StatusNotFound, "", nil), nil
		}
		if req.Header.Get("If-None-Match") == s.etag {
			return response(http.StatusNotModified, s.etag, nil), nil
		}
		return response(http.StatusOK, s.etag, s.data), nil
	}
	s.t.Errorf("unexpected method %q", req.Method)
	return response(http.StatusMethodNotAllowed, "", nil), nil
}

func TestClient_PublishAndFetch(t *testing.T) {
	server := &fakeServer{t: t}
	c := &Client{HTTPClient: fakeClient(server.roundTrip)}
	ctx := context.Background()
	cal := testCalendar()

	etag, err := c.Publish(ctx, testURL, cal, "")
	if err != nil {
		t.Fatalf("Publish() returned unexpected error: %v", err)
	}
	if etag != `"v1"` {
		t.Errorf("Publish() returned ETag %q, want %q", etag, `"v1"`)
	}

	got, fetched, err := c.Fetch(ctx, testURL, "")
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if fetched != etag {
		t.Errorf("Fetch() returned ETag %q, want %q", fetched, etag)
	}
	if diff := cmp.Diff(cal, *got); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}

	// Unchanged calendars are not transferred again.
	got, same, err := c.Fetch(ctx, testURL, etag)
	if err != nil || got != nil || same != etag {
		t.Errorf("Fetch(%q) = %v, %q, %v, want nil, %q, nil", etag, got, same, err, etag)
	}

	// Updates with the current ETag succeed.
	newEtag, err := c.Publish(ctx, testURL, cal, etag)
	if err != nil {
		t.Fatalf("Publish(%q) returned unexpected error: %v", etag, err)
	}
	if newEtag == etag {
		t.Errorf("Publish(%q) did not change the ETag", etag)
	}

	// The old ETag is stale now.
	if _, err := c.Publish(ctx, testURL, cal, etag); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("Publish(%q) = %v, want ErrPreconditionFailed", etag, err)
	}
	if server.puts != 2 {
		t.Errorf("server received %d uploads, want 2", server.puts)
	}
}

func TestPublish_DefaultClient(t *testing.T) {
	old := DefaultClient
	t.Cleanup(func() { DefaultClient = old })

	server := &fakeServer{t: t}
	DefaultClient = &Client{HTTPClient: fakeClient(server.roundTrip)}

	if _, err := Publish(context.Background(), testURL, testCalendar(), ""); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(server.data, []byte("BEGIN:VCALENDAR\r\n")) {
		t.Errorf("server received %q", server.data)
	}
	cal, _, err := Fetch(context.Background(), testURL, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.Events) != 1 {
		t.Errorf("fetched %d events, want 1", len(cal.Events))
	}
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()

	failing := &Client{HTTPClient: fakeClient(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	if _, err := failing.Publish(ctx, testURL, testCalendar(), ""); err == nil {
		t.Error("Publish() returned no error for a failing transport")
	}
	if _, _, err := failing.Fetch(ctx, testURL, ""); err == nil {
		t.Error("Fetch() returned no error for a failing transport")
	}

	forbidden := &Client{HTTPClient: fakeClient(func(*http.Request) (*http.Response, error) {
		return response(http.StatusForbidden, "", nil), nil
	})}
	if _, err := forbidden.Publish(ctx, testURL, testCalendar(), ""); err == nil || errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("Publish() = %v, want unexpected status error", err)
	}
	if cal, etag, err := forbidden.Fetch(ctx, testURL, ""); err == nil || cal != nil || etag != "" {
		t.Errorf("Fetch() = %v, %q, %v, want unexpected status error", cal, etag, err)
	}

	garbage := &Client{HTTPClient: fakeClient(func(*http.Request) (*http.Response, error) {
		return response(http.StatusOK, `"x"`, []byte("<html></html>")), nil
	})}
	var pe *ical.ParseError
	if _, _, err := garbage.Fetch(ctx, testURL, ""); !errors.As(err, &pe) {
		t.Errorf("Fetch() = %v, want *ical.ParseError", err)
	}

	if _, err := (&Client{}).Publish(ctx, "://bad url", testCalendar(), ""); err == nil {
		t.Error("Publish() returned no error for an invalid URL")
	}
}
