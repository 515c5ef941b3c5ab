package capture

import (
	"encoding/base64"
	"mime"
	"net/http"
	"sort"
	"time"
	"unicode/utf8"

	"har-capture/internal/domain"
)

// harTimeFormat is ISO-8601 with millisecond precision, the HAR convention
// for startedDateTime and cookie expiry.
const harTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// mimeUnknown stands in wherever a Content-Type is missing or malformed.
const mimeUnknown = "x-unknown"

// buildEntry is a pure transform from a settled hop to its HAR entry. It
// never touches the network and tolerates the complete absence of a response.
func buildEntry(hop hopResult) domain.Entry {
	ms := float64(hop.duration) / float64(time.Millisecond)
	return domain.Entry{
		StartedDateTime: hop.started.Format(harTimeFormat),
		Time:            ms,
		Request:         buildRequest(hop),
		Response:        buildResponse(hop),
		Cache:           domain.Cache{},
		// Phase timing is not measured; the total lands in wait.
		Timings: domain.Timings{Send: 0, Wait: ms, Receive: 0},
	}
}

func buildRequest(hop hopResult) domain.Request {
	u := *hop.reqURL
	u.Fragment = ""
	out := domain.Request{
		Method:      hop.cfg.Method,
		URL:         u.String(),
		HTTPVersion: "HTTP/1.1", // not measured on the request side
		Cookies:     []domain.Cookie{},
		Headers:     []domain.NameValuePair{},
		QueryString: []domain.NameValuePair{},
		HeadersSize: -1,
		BodySize:    -1,
	}
	if hop.req != nil {
		out.Headers = flattenHeader(hop.req.Header)
		// req.Host is only non-empty when the caller set an explicit Host
		// header; the transport would otherwise derive it from the URL.
		if hop.req.Host != "" {
			out.Headers = append(out.Headers, domain.NameValuePair{Name: "Host", Value: hop.req.Host})
			sortPairs(out.Headers)
		}
		for _, c := range hop.req.Cookies() {
			out.Cookies = append(out.Cookies, harCookie(c))
		}
	}
	out.QueryString = flattenValues(hop.reqURL.Query())
	if len(hop.sentBody) > 0 {
		ct, _ := headerLookup(hop.cfg.Headers, "Content-Type")
		out.PostData = &domain.PostData{
			MimeType: parseMimeType(ct),
			Text:     string(hop.sentBody),
		}
	}
	return out
}

func buildResponse(hop hopResult) domain.Response {
	out := domain.Response{
		Status:        -1,
		StatusText:    "",
		HTTPVersion:   "unknown",
		Cookies:       []domain.Cookie{},
		Headers:       []domain.NameValuePair{},
		Content:       domain.Content{Size: 0, MimeType: mimeUnknown},
		RedirectURL:   "",
		HeadersSize:   -1,
		BodySize:      -1,
		RemoteAddress: hop.remoteAddr,
	}
	if hop.err != nil {
		out.Error = hop.err.Info()
	}
	if hop.resp == nil {
		return out
	}
	out.Status = hop.resp.StatusCode
	out.StatusText = http.StatusText(hop.resp.StatusCode)
	if hop.resp.Proto != "" {
		out.HTTPVersion = hop.resp.Proto
	}
	out.Headers = flattenHeader(hop.resp.Header)
	// Individually unparsable Set-Cookie values are dropped, not fatal.
	for _, c := range hop.resp.Cookies() {
		out.Cookies = append(out.Cookies, harCookie(c))
	}
	out.Content = buildContent(hop)
	if target := redirectTarget(hop.resp, hop.reqURL); target != nil {
		out.RedirectURL = target.String()
	}
	return out
}

// buildContent describes whatever body was actually captured. A discarded or
// never-read body yields size 0 with no text, regardless of what was on the
// wire.
func buildContent(hop hopResult) domain.Content {
	c := domain.Content{MimeType: parseMimeType(hop.resp.Header.Get("Content-Type"))}
	if hop.body == nil {
		return c
	}
	c.Size = len(hop.body)
	if utf8.Valid(hop.body) {
		c.Text = string(hop.body)
	} else {
		c.Text = base64.StdEncoding.EncodeToString(hop.body)
		c.Encoding = "base64"
	}
	return c
}

// parseMimeType resolves a Content-Type header to its media type, degrading
// to x-unknown on anything malformed rather than failing the build.
func parseMimeType(ct string) string {
	if ct == "" {
		return mimeUnknown
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return mimeUnknown
	}
	return mt
}

func harCookie(c *http.Cookie) domain.Cookie {
	out := domain.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
	}
	if !c.Expires.IsZero() {
		out.Expires = c.Expires.UTC().Format(harTimeFormat)
	}
	return out
}

// flattenHeader turns a header map into sorted name/value pairs; repeated
// headers contribute one pair per value.
func flattenHeader(h http.Header) []domain.NameValuePair {
	out := make([]domain.NameValuePair, 0, len(h))
	for name, values := range h {
		for _, v := range values {
			out = append(out, domain.NameValuePair{Name: name, Value: v})
		}
	}
	sortPairs(out)
	return out
}

func flattenValues(vs map[string][]string) []domain.NameValuePair {
	out := make([]domain.NameValuePair, 0, len(vs))
	for name, values := range vs {
		for _, v := range values {
			out = append(out, domain.NameValuePair{Name: name, Value: v})
		}
	}
	sortPairs(out)
	return out
}

func sortPairs(pairs []domain.NameValuePair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Name != pairs[j].Name {
			return pairs[i].Name < pairs[j].Name
		}
		return pairs[i].Value < pairs[j].Value
	})
}
