package capture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxRedirects is applied when RequestConfig.MaxRedirects is unset.
const DefaultMaxRedirects = 10

// RequestConfig describes one exchange chain. The zero value of every
// optional field means "use the default"; pointer fields distinguish an
// explicit zero from unset. A config is immutable per hop; redirect hops
// derive a new one via redirectConfig.
type RequestConfig struct {
	// URL is the target of the first hop. Required; http or https.
	URL string

	// Method defaults to GET and is upper-cased.
	Method string

	// Headers are sent as given; lookup is case-insensitive. A Host entry
	// overrides the request's Host and is rewritten on every redirect hop.
	Headers map[string]string

	// Body, when non-empty, is sent as the request body.
	Body []byte

	// Timeout bounds each hop independently. Zero means no engine deadline.
	Timeout time.Duration

	// FollowRedirect disables redirect following when set to false.
	// Unset means follow.
	FollowRedirect *bool

	// FollowRedirectFunc, when set, decides follow/stop per response and
	// takes precedence over the default depth check: MaxRedirects is not
	// consulted at all. Callers wanting unconditional control rely on this.
	FollowRedirectFunc func(*http.Response) bool

	// MaxRedirects bounds the chain depth. Unset means DefaultMaxRedirects;
	// an explicit 0 stops at the first redirect.
	MaxRedirects *int

	// Resolve overrides hostname resolution. It must return a single IP
	// address literal for the host. Unset uses the system resolver.
	Resolve func(ctx context.Context, host string) (string, error)
}

// HarConfig controls what of the response makes it into the HAR document.
type HarConfig struct {
	// WithContent controls response body capture. Unset means true. When
	// false the body is never read at all and size enforcement is skipped.
	WithContent *bool

	// MaxContentLength bounds the response body in bytes; crossing it aborts
	// the transfer and records MAX_RES_BODY_SIZE. <=0 means unbounded.
	MaxContentLength int64
}

// Bool returns a pointer to v, for literal RequestConfig/HarConfig values.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for literal RequestConfig values.
func Int(v int) *int { return &v }

// harSettings is the validated form of HarConfig with defaults applied.
type harSettings struct {
	withContent      bool
	maxContentLength int64
}

func (c *HarConfig) settings() harSettings {
	s := harSettings{withContent: true}
	if c == nil {
		return s
	}
	if c.WithContent != nil {
		s.withContent = *c.WithContent
	}
	if c.MaxContentLength > 0 {
		s.maxContentLength = c.MaxContentLength
	}
	return s
}

// normalized validates the config once at the chain's entry point and applies
// method defaults. The parsed URL is returned alongside so hops never
// re-parse blindly.
func (c RequestConfig) normalized() (RequestConfig, *url.URL, error) {
	if strings.TrimSpace(c.URL) == "" {
		return c, nil, errors.New("capture: url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return c, nil, fmt.Errorf("capture: invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return c, nil, fmt.Errorf("capture: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return c, nil, fmt.Errorf("capture: url %q has no host", c.URL)
	}
	if c.Method == "" {
		c.Method = http.MethodGet
	}
	c.Method = strings.ToUpper(c.Method)
	return c, u, nil
}

func (c RequestConfig) maxRedirects() int {
	if c.MaxRedirects != nil {
		return *c.MaxRedirects
	}
	return DefaultMaxRedirects
}

// redirectConfig derives the next hop's config: same fields, new URL. When
// the caller set an explicit Host header it is rewritten to the new target's
// host so downstream header capture stays consistent with the destination.
func redirectConfig(cfg RequestConfig, target *url.URL) RequestConfig {
	next := cfg
	next.URL = target.String()
	if _, ok := headerLookup(cfg.Headers, "Host"); ok {
		next.Headers = make(map[string]string, len(cfg.Headers))
		for k, v := range cfg.Headers {
			next.Headers[k] = v
		}
		setHeader(next.Headers, "Host", target.Host)
	}
	return next
}

// headerLookup finds a header value by case-insensitive name.
func headerLookup(headers map[string]string, name string) (string, bool) {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// setHeader replaces an existing case-insensitive key rather than adding a
// duplicate under different casing.
func setHeader(headers map[string]string, name, value string) {
	for k := range headers {
		if strings.EqualFold(k, name) {
			headers[k] = value
			return
		}
	}
	headers[name] = value
}
