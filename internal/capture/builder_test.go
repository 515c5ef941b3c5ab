package capture

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"har-capture/internal/domain"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestBuildEntryNoResponse(t *testing.T) {
	hop := hopResult{
		cfg:      RequestConfig{Method: "GET"},
		reqURL:   mustParse(t, "http://example.test/x"),
		err:      domain.NewTimedOut(nil),
		started:  time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		duration: 1500 * time.Millisecond,
	}
	e := buildEntry(hop)
	if e.StartedDateTime != "2026-08-23T12:00:00.000Z" {
		t.Fatalf("startedDateTime: %q", e.StartedDateTime)
	}
	if e.Time != 1500 {
		t.Fatalf("time: %v", e.Time)
	}
	r := e.Response
	if r.Status != -1 || r.StatusText != "" || r.HTTPVersion != "unknown" {
		t.Fatalf("response defaults: %+v", r)
	}
	if r.Content.Size != 0 || r.Content.MimeType != "x-unknown" {
		t.Fatalf("content defaults: %+v", r.Content)
	}
	if r.Error == nil || r.Error.Code != domain.CodeTimeout {
		t.Fatalf("error: %+v", r.Error)
	}
	if r.HeadersSize != -1 || r.BodySize != -1 {
		t.Fatalf("size sentinels: %+v", r)
	}
	if e.Request.Cookies == nil || e.Request.Headers == nil || e.Request.QueryString == nil {
		t.Fatalf("request collections must be non-nil for JSON arrays")
	}
}

func TestBuildRequestStripsFragment(t *testing.T) {
	hop := hopResult{
		cfg:    RequestConfig{Method: "GET"},
		reqURL: mustParse(t, "http://example.test/page?a=1&a=2#section"),
	}
	req := buildRequest(hop)
	if req.URL != "http://example.test/page?a=1&a=2" {
		t.Fatalf("url: %q", req.URL)
	}
	if len(req.QueryString) != 2 || req.QueryString[0].Value != "1" || req.QueryString[1].Value != "2" {
		t.Fatalf("queryString: %+v", req.QueryString)
	}
}

func TestBuildRequestPostData(t *testing.T) {
	hop := hopResult{
		cfg: RequestConfig{
			Method:  "POST",
			Headers: map[string]string{"content-type": "text/plain; charset=utf-8"},
		},
		reqURL:   mustParse(t, "http://example.test/submit"),
		sentBody: []byte("hello"),
	}
	req := buildRequest(hop)
	if req.PostData == nil || req.PostData.Text != "hello" || req.PostData.MimeType != "text/plain" {
		t.Fatalf("postData: %+v", req.PostData)
	}

	hop.sentBody = nil
	if req := buildRequest(hop); req.PostData != nil {
		t.Fatalf("no body, no postData: %+v", req.PostData)
	}
}

func TestParseMimeType(t *testing.T) {
	cases := map[string]string{
		"":                               "x-unknown",
		"application/json":               "application/json",
		"text/html; charset=ISO-8859-4":  "text/html",
		"totally broken; ;; ct":          "x-unknown",
		"Application/JSON; charset=utf8": "application/json",
	}
	for in, want := range cases {
		if got := parseMimeType(in); got != want {
			t.Errorf("parseMimeType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedirectTarget(t *testing.T) {
	base := mustParse(t, "http://example.test/a/b")
	resp := &http.Response{StatusCode: 302, Header: http.Header{}}

	if redirectTarget(resp, base) != nil {
		t.Fatalf("no location header must yield nil")
	}

	resp.Header.Set("Location", "/c")
	if got := redirectTarget(resp, base); got == nil || got.String() != "http://example.test/c" {
		t.Fatalf("relative: %v", got)
	}

	resp.Header.Set("Location", "https://other.test/d")
	if got := redirectTarget(resp, base); got == nil || got.String() != "https://other.test/d" {
		t.Fatalf("absolute: %v", got)
	}

	resp.StatusCode = 200
	resp.Header.Set("Location", "/ignored")
	if redirectTarget(resp, base) != nil {
		t.Fatalf("non-3xx must yield nil")
	}
}

func TestHarCookieExpires(t *testing.T) {
	c := harCookie(&http.Cookie{Name: "a", Value: "b"})
	if c.Expires != "" {
		t.Fatalf("zero expiry must stay empty: %q", c.Expires)
	}
	c = harCookie(&http.Cookie{
		Name:    "a",
		Value:   "b",
		Expires: time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)),
	})
	if c.Expires != "2026-01-02T02:04:05.000Z" {
		t.Fatalf("expiry must be normalized to UTC: %q", c.Expires)
	}
}

func TestFlattenHeaderSortedAndRepeated(t *testing.T) {
	h := http.Header{}
	h.Add("Zeta", "1")
	h.Add("Alpha", "b")
	h.Add("Alpha", "a")
	pairs := flattenHeader(h)
	want := []domain.NameValuePair{{Name: "Alpha", Value: "a"}, {Name: "Alpha", Value: "b"}, {Name: "Zeta", Value: "1"}}
	if len(pairs) != len(want) {
		t.Fatalf("pairs: %+v", pairs)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("pair %d: %+v want %+v", i, pairs[i], want[i])
		}
	}
}
