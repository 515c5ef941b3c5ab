package domain

// HAR 1.2 document model. Field names follow the HAR spec:
// http://www.softwareishard.com/blog/har-12-spec/
// Only the fields this tool populates are modeled; size sentinels are -1
// (unmeasured) and per-phase timings are not broken down beyond wait.

// HAR is the root of an HTTP Archive document.
type HAR struct {
	Log Log `json:"log"`
}

// Log holds the ordered entry sequence for one capture chain.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Entries []Entry `json:"entries"`
}

// Creator identifies the tool that produced the log.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Entry is the record of a single hop (one HTTP exchange).
type Entry struct {
	StartedDateTime string   `json:"startedDateTime"`
	Time            float64  `json:"time"` // total duration, ms
	Request         Request  `json:"request"`
	Response        Response `json:"response"`
	Cache           Cache    `json:"cache"`
	Timings         Timings  `json:"timings"`
}

// Cache is intentionally empty: caching is not modeled.
type Cache struct{}

// Timings only carries the total in wait; send/receive are not measured.
type Timings struct {
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// Request describes the request side of a hop as it was sent.
type Request struct {
	Method      string          `json:"method"`
	URL         string          `json:"url"`
	HTTPVersion string          `json:"httpVersion"`
	Cookies     []Cookie        `json:"cookies"`
	Headers     []NameValuePair `json:"headers"`
	QueryString []NameValuePair `json:"queryString"`
	PostData    *PostData       `json:"postData,omitempty"`
	HeadersSize int             `json:"headersSize"`
	BodySize    int             `json:"bodySize"`
}

// Response describes the response side of a hop. Status is -1 when no
// response was obtained at all (pure connection failure). The _remoteAddress
// and _error extension fields carry the resolved peer address and, when the
// hop failed, the failure code/message.
type Response struct {
	Status        int             `json:"status"`
	StatusText    string          `json:"statusText"`
	HTTPVersion   string          `json:"httpVersion"`
	Cookies       []Cookie        `json:"cookies"`
	Headers       []NameValuePair `json:"headers"`
	Content       Content         `json:"content"`
	RedirectURL   string          `json:"redirectURL"`
	HeadersSize   int             `json:"headersSize"`
	BodySize      int             `json:"bodySize"`
	RemoteAddress string          `json:"_remoteAddress,omitempty"`
	Error         *ErrorInfo      `json:"_error,omitempty"`
}

// Content describes the response body. Text is raw when the body is valid
// UTF-8 and base64-encoded (Encoding "base64") otherwise.
type Content struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// Cookie is a single request or response cookie. Expires is ISO-8601 and
// present only when the cookie carried a concrete expiration date.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Expires  string `json:"expires,omitempty"`
	HTTPOnly bool   `json:"httpOnly"`
	Secure   bool   `json:"secure"`
}

// NameValuePair is the flattened header/query-parameter representation.
type NameValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData is present only when a request body was sent.
type PostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ErrorInfo is the _error extension payload on a failed hop's response.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
