package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"har-capture/internal/capture"
	"har-capture/internal/domain"
	"har-capture/internal/usecase"
	"har-capture/pkg/shared/id"
	"har-capture/pkg/shared/redact"
)

// captureRequest is the wire form of one capture invocation. Unset fields
// fall back to the service's configured defaults. The predicate form of
// followRedirect is a library-only feature and has no wire equivalent.
type captureRequest struct {
	URL              string            `json:"url"`
	Method           string            `json:"method,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"`
	Body             string            `json:"body,omitempty"`
	TimeoutMs        int               `json:"timeoutMs,omitempty"`
	FollowRedirect   *bool             `json:"followRedirect,omitempty"`
	MaxRedirects     *int              `json:"maxRedirects,omitempty"`
	WithContent      *bool             `json:"withContent,omitempty"`
	MaxContentLength int64             `json:"maxContentLength,omitempty"`
}

func (d *Deps) toConfigs(cr captureRequest) (capture.RequestConfig, *capture.HarConfig) {
	cfg := capture.RequestConfig{
		URL:            cr.URL,
		Method:         cr.Method,
		Headers:        cr.Headers,
		Timeout:        time.Duration(cr.TimeoutMs) * time.Millisecond,
		FollowRedirect: cr.FollowRedirect,
		MaxRedirects:   cr.MaxRedirects,
	}
	if cr.Body != "" {
		cfg.Body = []byte(cr.Body)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = d.Cfg.DefaultTimeout
	}
	if cfg.MaxRedirects == nil && d.Cfg.DefaultMaxRedirects != capture.DefaultMaxRedirects {
		cfg.MaxRedirects = capture.Int(d.Cfg.DefaultMaxRedirects)
	}
	har := &capture.HarConfig{MaxContentLength: cr.MaxContentLength}
	if cr.WithContent != nil {
		har.WithContent = cr.WithContent
	} else if !d.Cfg.WithContent {
		har.WithContent = capture.Bool(false)
	}
	if har.MaxContentLength == 0 {
		har.MaxContentLength = d.Cfg.MaxContentLength
	}
	return cfg, har
}

func (d *Deps) handleCapture(w http.ResponseWriter, r *http.Request) {
	var cr captureRequest
	if err := json.NewDecoder(r.Body).Decode(&cr); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	d.runCapture(w, r, cr)
}

// handleCaptureQuick captures a bare URL with default settings.
func (d *Deps) handleCaptureQuick(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if u == "" {
		writeError(w, http.StatusBadRequest, "MISSING_URL", "missing url query parameter", nil)
		return
	}
	d.runCapture(w, r, captureRequest{URL: u})
}

func (d *Deps) runCapture(w http.ResponseWriter, r *http.Request, cr captureRequest) {
	cfg, har := d.toConfigs(cr)
	d.Logger.Debug().
		Str("url", cfg.URL).
		Str("method", cfg.Method).
		Interface("headers", redact.Headers(cfg.Headers)).
		Msg("capture requested")

	runID := id.New()
	onEntry := func(entry domain.Entry) {
		d.Monitor.Broadcast(MonitorEvent{
			Type:    "entry",
			ID:      runID,
			Ref:     entry.Request.URL,
			Preview: entryPreview(entry),
		})
	}
	d.Monitor.Broadcast(MonitorEvent{Type: "capture_started", ID: runID, Ref: cfg.URL})
	rec, err := d.Svc.Run(r.Context(), runID, cfg, har, onEntry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), map[string]any{"url": cr.URL})
		return
	}
	d.Monitor.Broadcast(MonitorEvent{Type: "capture_finished", ID: rec.ID, Ref: rec.ErrorCode})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Capture-Id", rec.ID)
	_ = json.NewEncoder(w).Encode(rec.HAR)
}

// entryPreview trims an entry's content text for the live stream, masking
// sensitive JSON fields on the way out.
func entryPreview(entry domain.Entry) string {
	text := entry.Response.Content.Text
	if text == "" || entry.Response.Content.Encoding == "base64" {
		return ""
	}
	if len(text) > 256 {
		text = text[:256]
	}
	return redact.JSON(text)
}

func (d *Deps) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	f := usecase.CaptureFilter{Q: r.URL.Query().Get("q"), Limit: limit, Offset: offset}
	items, total, err := d.Svc.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CAPTURES_LIST_FAILED", err.Error(), nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": total})
}

func (d *Deps) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok, err := d.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CAPTURE_GET_FAILED", err.Error(), nil)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "CAPTURE_NOT_FOUND", "no such capture", map[string]any{"id": id})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rec)
}

func (d *Deps) handleDeleteCapture(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := d.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "CAPTURE_DELETE_FAILED", err.Error(), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Deps) handleClearCaptures(w http.ResponseWriter, r *http.Request) {
	if err := d.Svc.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "CAPTURES_CLEAR_FAILED", err.Error(), nil)
		return
	}
	d.Monitor.Broadcast(MonitorEvent{Type: "captures_cleared", ID: "*"})
	w.WriteHeader(http.StatusNoContent)
}
