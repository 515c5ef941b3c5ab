package domain

import "time"

// CaptureRecord is one capture run kept by the service for later retrieval.
// The full HAR document is embedded; list endpoints omit it.
type CaptureRecord struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Method     string    `json:"method"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Entries    int       `json:"entries"`
	ErrorCode  string    `json:"errorCode,omitempty"` // terminal entry's _error code, if any
	HAR        *HAR      `json:"har,omitempty"`
}

// Summary returns a copy without the embedded HAR document, for listings.
func (r CaptureRecord) Summary() CaptureRecord {
	r.HAR = nil
	return r
}
