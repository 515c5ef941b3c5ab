package capture

import (
	"net/url"
	"testing"
)

func TestNormalized(t *testing.T) {
	cfg, u, err := RequestConfig{URL: "http://example.test/x", Method: "delete"}.normalized()
	if err != nil {
		t.Fatalf("normalized: %v", err)
	}
	if cfg.Method != "DELETE" {
		t.Fatalf("method: %q", cfg.Method)
	}
	if u.Host != "example.test" {
		t.Fatalf("host: %q", u.Host)
	}

	cfg, _, err = RequestConfig{URL: "https://example.test"}.normalized()
	if err != nil || cfg.Method != "GET" {
		t.Fatalf("default method: %q err=%v", cfg.Method, err)
	}

	for _, raw := range []string{"", "   ", "ftp://x.test", "http://", "://bad"} {
		if _, _, err := (RequestConfig{URL: raw}).normalized(); err == nil {
			t.Errorf("url %q must be rejected", raw)
		}
	}
}

func TestMaxRedirectsDefault(t *testing.T) {
	if got := (RequestConfig{}).maxRedirects(); got != DefaultMaxRedirects {
		t.Fatalf("default: %d", got)
	}
	if got := (RequestConfig{MaxRedirects: Int(0)}).maxRedirects(); got != 0 {
		t.Fatalf("explicit zero: %d", got)
	}
}

func TestHarSettings(t *testing.T) {
	s := (*HarConfig)(nil).settings()
	if !s.withContent || s.maxContentLength != 0 {
		t.Fatalf("nil config defaults: %+v", s)
	}
	s = (&HarConfig{WithContent: Bool(false), MaxContentLength: -5}).settings()
	if s.withContent || s.maxContentLength != 0 {
		t.Fatalf("negative budget means unbounded: %+v", s)
	}
	s = (&HarConfig{MaxContentLength: 1024}).settings()
	if !s.withContent || s.maxContentLength != 1024 {
		t.Fatalf("settings: %+v", s)
	}
}

func TestRedirectConfigHostRewrite(t *testing.T) {
	target, _ := url.Parse("http://next.test:8080/hop")
	orig := RequestConfig{
		URL:     "http://first.test/a",
		Headers: map[string]string{"HOST": "first.test", "X-Keep": "1"},
	}
	next := redirectConfig(orig, target)
	if next.URL != "http://next.test:8080/hop" {
		t.Fatalf("url: %q", next.URL)
	}
	if v, ok := headerLookup(next.Headers, "Host"); !ok || v != "next.test:8080" {
		t.Fatalf("host: %q ok=%v", v, ok)
	}
	if next.Headers["X-Keep"] != "1" {
		t.Fatalf("other headers: %+v", next.Headers)
	}
	// the originating hop's config must stay untouched
	if orig.Headers["HOST"] != "first.test" {
		t.Fatalf("source config mutated: %+v", orig.Headers)
	}

	plain := RequestConfig{URL: "http://first.test/a", Headers: map[string]string{"X-Keep": "1"}}
	next = redirectConfig(plain, target)
	if _, ok := headerLookup(next.Headers, "Host"); ok {
		t.Fatalf("no explicit Host, none should be added: %+v", next.Headers)
	}
}

func TestSetHeaderReplacesCaseInsensitive(t *testing.T) {
	h := map[string]string{"hOsT": "a"}
	setHeader(h, "Host", "b")
	if len(h) != 1 || h["hOsT"] != "b" {
		t.Fatalf("headers: %+v", h)
	}
}
