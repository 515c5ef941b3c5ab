package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"har-capture/internal/domain"
)

// hopResult is the settled outcome of one exchange. Every failure mode —
// network error, abort, timeout — lands here rather than propagating, so
// entry building proceeds uniformly. The resolved remote address is part of
// the hop's own result, not a side channel.
type hopResult struct {
	cfg        RequestConfig
	reqURL     *url.URL
	req        *http.Request // as sent; nil only if the request could not be built
	sentBody   []byte
	resp       *http.Response // head only; body already drained or closed
	body       []byte         // captured bytes; nil if disabled, errored, or absent
	err        *domain.CaptureError
	remoteAddr string
	started    time.Time
	duration   time.Duration
}

var errBodyTooLarge = errors.New("capture: response body over budget")

// exchange performs one hop: resolve, send, read the head, then conditionally
// drain the body under the configured byte budget and deadline.
func (e *Engine) exchange(ctx context.Context, cfg RequestConfig, reqURL *url.URL, har harSettings, dns dnsCache) hopResult {
	res := hopResult{cfg: cfg, reqURL: reqURL, sentBody: cfg.Body, started: time.Now().UTC()}
	begin := time.Now()
	e.doExchange(ctx, &res, har, dns)
	res.duration = time.Since(begin)
	return res
}

func (e *Engine) doExchange(ctx context.Context, res *hopResult, har harSettings, dns dnsCache) {
	cfg := res.cfg
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	// Literal-IP targets never hit the resolver; record the peer up front so
	// even a refused connection still carries the address.
	if host := res.reqURL.Hostname(); net.ParseIP(host) != nil {
		res.remoteAddr = net.JoinHostPort(host, portOf(res.reqURL))
	}

	var body io.Reader
	if len(cfg.Body) > 0 {
		body = bytes.NewReader(cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, cfg.Method, res.reqURL.String(), body)
	if err != nil {
		res.err = classifyTransportError(err)
		return
	}
	for k, v := range cfg.Headers {
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}
	res.req = req

	// The transport lives for exactly one hop; drop its idle connections once
	// the hop settles instead of letting them linger to the idle timeout.
	tr := e.newTransport(cfg, dns, &res.remoteAddr)
	defer tr.CloseIdleConnections()

	// Redirects are the orchestrator's job, and non-2xx statuses are data,
	// not errors.
	client := &http.Client{
		Transport: tr,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		res.err = classifyTransportError(err)
		return
	}
	res.resp = resp
	// Closing is idempotent and doubles as the abort primitive: closing with
	// unread payload tears down the transfer.
	defer resp.Body.Close()

	if !har.withContent {
		// Body is never read; the hop closes without waiting for payload.
		return
	}
	if har.maxContentLength > 0 && resp.ContentLength > har.maxContentLength {
		res.err = domain.NewSizeLimitExceeded(har.maxContentLength)
		return
	}
	data, err := readBounded(resp.Body, har.maxContentLength)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			// Partial data is discarded; only the violation is recorded.
			res.err = domain.NewSizeLimitExceeded(har.maxContentLength)
			return
		}
		res.err = classifyTransportError(err)
		return
	}
	res.body = data
}

// readBounded drains r, failing the moment the running total crosses max.
// This guards against responses that omit or understate Content-Length.
// max <= 0 means unbounded.
func readBounded(r io.Reader, max int64) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)
	var total int64
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			if max > 0 && total > max {
				return nil, errBodyTooLarge
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func portOf(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}
