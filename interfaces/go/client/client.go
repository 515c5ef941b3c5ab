// Package client is a thin typed client for the har-capture service API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"har-capture/internal/domain"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client { return &Client{BaseURL: baseURL, HTTP: http.DefaultClient} }

// CaptureRequest mirrors the POST /api/capture wire format.
type CaptureRequest struct {
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

// Capture runs one capture and returns the HAR document plus the service's
// record id for later retrieval.
func (c *Client) Capture(ctx context.Context, cr CaptureRequest) (*domain.HAR, string, error) {
	payload, err := json.Marshal(cr)
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/capture", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("capture failed: %s", resp.Status)
	}
	var har domain.HAR
	if err := json.NewDecoder(resp.Body).Decode(&har); err != nil {
		return nil, "", err
	}
	return &har, resp.Header.Get("X-Capture-Id"), nil
}

// ListCaptures pages through recent capture summaries.
func (c *Client) ListCaptures(ctx context.Context, limit, offset int) ([]domain.CaptureRecord, int, error) {
	url := fmt.Sprintf("%s/api/captures?limit=%d&offset=%d", c.BaseURL, limit, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	var out struct {
		Items []domain.CaptureRecord `json:"items"`
		Total int                    `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// GetCapture fetches one stored record, HAR document included.
func (c *Client) GetCapture(ctx context.Context, id string) (domain.CaptureRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/captures/"+id, nil)
	if err != nil {
		return domain.CaptureRecord{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.CaptureRecord{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.CaptureRecord{}, fmt.Errorf("capture %s not found", id)
	}
	var rec domain.CaptureRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.CaptureRecord{}, err
	}
	return rec, nil
}
