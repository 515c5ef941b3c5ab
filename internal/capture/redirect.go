package capture

import (
	"context"
	"net/http"
	"net/url"

	"har-capture/internal/domain"
)

// chain captures one hop, decides whether its response is a followable
// redirect, and recurses with the derived config when it is. Depth starts at
// 1 and the DNS cache is threaded through every recursive step. Each hop
// contributes exactly one entry, in hop order, whether or not it ends the
// chain.
func (e *Engine) chain(ctx context.Context, cfg RequestConfig, reqURL *url.URL, har harSettings, depth int, dns dnsCache, entries []domain.Entry) []domain.Entry {
	hop := e.exchange(ctx, cfg, reqURL, har, dns)
	next := decide(&hop, depth)
	entry := buildEntry(hop)
	entries = append(entries, entry)
	e.observe(entry, depth)
	if next == nil {
		return entries
	}
	return e.chain(ctx, redirectConfig(cfg, next), next, har, depth+1, dns, entries)
}

// decide applies the follow/stop rules to a settled hop. A non-nil return is
// the resolved target to follow. Chain violations (missing location, depth
// exceeded) are attached to the hop unless it already settled with an error.
// Eligibility is evaluated even when the hop carries a transport or bound
// error: errors do not by themselves stop the capture.
func decide(hop *hopResult, depth int) *url.URL {
	if hop.resp == nil {
		return nil // network-level failure is already terminal
	}
	if hop.resp.StatusCode < 300 || hop.resp.StatusCode >= 400 {
		return nil
	}
	target := redirectTarget(hop.resp, hop.reqURL)
	if target == nil {
		if hop.err == nil {
			hop.err = domain.NewMissingRedirectLocation()
		}
		return nil
	}
	cfg := hop.cfg
	if cfg.FollowRedirect != nil && !*cfg.FollowRedirect {
		return nil // intentional truncation, not an error
	}
	if cfg.FollowRedirectFunc != nil {
		// The predicate decides this hop alone; depth is deliberately not
		// consulted here.
		if cfg.FollowRedirectFunc(hop.resp) {
			return target
		}
		return nil
	}
	if depth > cfg.maxRedirects() {
		if hop.err == nil {
			hop.err = domain.NewRedirectLimitExceeded(cfg.maxRedirects())
		}
		return nil
	}
	return target
}

// redirectTarget resolves a 3xx response's Location header against the hop's
// request URL. Nil means there is nothing usable to follow.
func redirectTarget(resp *http.Response, base *url.URL) *url.URL {
	if resp == nil || resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return nil
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil
	}
	target, err := base.Parse(loc)
	if err != nil || target.Host == "" {
		return nil
	}
	return target
}
