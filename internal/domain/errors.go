package domain

import "fmt"

// Error codes recorded on a HAR entry's _error field. Transport-level codes
// (connection refused and friends) are passed through from the classifier in
// the capture engine; the remaining four are raised by the engine itself.
const (
	CodeSizeLimit    = "MAX_RES_BODY_SIZE"
	CodeTimeout      = "ETIMEDOUT"
	CodeNoLocation   = "NOLOCATION"
	CodeMaxRedirects = "MAXREDIRECTS"

	CodeConnRefused = "ECONNREFUSED"
	CodeConnReset   = "ECONNRESET"
	CodeBrokenPipe  = "EPIPE"
	CodeDNSNotFound = "ENOTFOUND"
	CodeNetwork     = "NETWORK_ERROR"
)

// CaptureError is the closed set of failures a hop can settle with. It never
// crosses the capture call's boundary: each one ends up as the _error payload
// of the entry that triggered it.
type CaptureError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CaptureError) Unwrap() error { return e.Cause }

// Info converts the error into its HAR extension payload.
func (e *CaptureError) Info() *ErrorInfo {
	return &ErrorInfo{Code: e.Code, Message: e.Message}
}

// NewSizeLimitExceeded reports a response body that crossed the configured
// byte budget, whether announced via Content-Length or observed mid-stream.
func NewSizeLimitExceeded(max int64) *CaptureError {
	return &CaptureError{
		Code:    CodeSizeLimit,
		Message: fmt.Sprintf("response body exceeds the configured maximum of %d bytes", max),
	}
}

// NewTimedOut reports the engine's own per-hop deadline expiring.
func NewTimedOut(cause error) *CaptureError {
	return &CaptureError{Code: CodeTimeout, Message: "request timed out", Cause: cause}
}

// NewMissingRedirectLocation reports a 3xx response without a usable
// Location header.
func NewMissingRedirectLocation() *CaptureError {
	return &CaptureError{Code: CodeNoLocation, Message: "redirect response carries no usable Location header"}
}

// NewRedirectLimitExceeded reports a chain deeper than maxRedirects.
func NewRedirectLimitExceeded(max int) *CaptureError {
	return &CaptureError{
		Code:    CodeMaxRedirects,
		Message: fmt.Sprintf("redirect chain exceeds the maximum of %d redirects", max),
	}
}
