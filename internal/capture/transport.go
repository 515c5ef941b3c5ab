package capture

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	http2 "golang.org/x/net/http2"
)

// dnsCache maps hostnames to resolved IP literals for one chain. It is
// threaded explicitly through every hop; independent captures never share one.
type dnsCache map[string]string

// newTransport centralizes http.Transport creation with TLS options/timeouts.
// The dialer resolves through resolveAddr so the concrete peer address is
// recorded into remoteAddr before the connection is attempted.
func (e *Engine) newTransport(cfg RequestConfig, dns dnsCache, remoteAddr *string) *http.Transport {
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			resolved, err := e.resolveAddr(ctx, cfg, dns, addr)
			if err != nil {
				return nil, err
			}
			*remoteAddr = resolved
			return dialer.DialContext(ctx, network, resolved)
		},
	}
	if e.InsecureTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	// Enable HTTP/2 for outbound HTTPS where possible. Safe to ignore error and fall back to HTTP/1.1
	_ = http2.ConfigureTransport(tr)
	return tr
}

// resolveAddr maps a dial address to its concrete ip:port. Literal IPs pass
// through untouched; hostnames hit the per-chain cache first, then the
// caller's resolver override or the system resolver, and the result is cached
// for the remaining hops.
func (e *Engine) resolveAddr(ctx context.Context, cfg RequestConfig, dns dnsCache, addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	if net.ParseIP(host) != nil {
		return addr, nil
	}
	if ip, ok := dns[host]; ok {
		return net.JoinHostPort(ip, port), nil
	}
	resolve := cfg.Resolve
	if resolve == nil {
		resolve = lookupHost
	}
	ip, err := resolve(ctx, host)
	if err != nil {
		return "", err
	}
	dns[host] = ip
	return net.JoinHostPort(ip, port), nil
}

func lookupHost(ctx context.Context, host string) (string, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", &net.DNSError{Err: "no addresses returned", Name: host, IsNotFound: true}
	}
	return addrs[0], nil
}
