package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/types"
)

// ErrStatus is returned for an unexpected HTTP status.
var ErrStatus = errors.New("unexpected status")

// Client wraps http.Client with the service's base URL.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET and decodes a 200 JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: %w %d: %s", path, ErrStatus, status, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// post sends a JSON body and returns the status and raw response.
func (c *Client) post(ctx context.Context, path string, in any) (int, []byte, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}

// Role fetches a catalog role.
func (c *Client) Role(ctx context.Context, name string) (model.RoleProfile, error) {
	var role model.RoleProfile
	err := c.get(ctx, "/roles/"+url.PathEscape(name), &role)
	return role, err
}

// Submit posts one submission to /analyses and classifies the response.
func (c *Client) Submit(ctx context.Context, sub *Submission) (string, error) {
	status, body, err := c.post(ctx, "/analyses", sub)
	if err != nil {
		return resultFailed, err
	}

	switch status {
	case http.StatusAccepted:
		return resultAccepted, nil
	case http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && !ack.Duplicate {
			return resultFailed, fmt.Errorf("200 without duplicate flag: %s", bytes.TrimSpace(body))
		}
		return resultDuplicate, nil
	case http.StatusTooManyRequests:
		return resultRejected, fmt.Errorf("%w %d: %s", ErrStatus, status, bytes.TrimSpace(body))
	default:
		return resultFailed, fmt.Errorf("%w %d: %s", ErrStatus, status, bytes.TrimSpace(body))
	}
}

// Analyze runs a synchronous analysis of the submission's skills and role.
// The learner ID is left out so the readiness ranking is not touched.
func (c *Client) Analyze(ctx context.Context, sub *Submission) (model.RecommendationBundle, error) {
	req := Submission{RoleName: sub.RoleName, Skills: sub.Skills}
	status, body, err := c.post(ctx, "/analyze", &req)
	if err != nil {
		return model.RecommendationBundle{}, err
	}
	if status != http.StatusOK {
		return model.RecommendationBundle{}, fmt.Errorf("POST /analyze: %w %d: %s", ErrStatus, status, bytes.TrimSpace(body))
	}
	var bundle model.RecommendationBundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		return model.RecommendationBundle{}, fmt.Errorf("decode /analyze: %w", err)
	}
	return bundle, nil
}

// Analysis fetches GET /analyses/{request_id}.
func (c *Client) Analysis(ctx context.Context, requestID string) (model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	err := c.get(ctx, "/analyses/"+url.PathEscape(requestID), &rec)
	return rec, err
}

// TopReady fetches GET /readiness?role=R&limit=N.
func (c *Client) TopReady(ctx context.Context, role string, limit int) ([]types.ReadinessEntry, error) {
	q := url.Values{}
	q.Set("role", role)
	q.Set("limit", strconv.Itoa(limit))
	var entries []types.ReadinessEntry
	err := c.get(ctx, "/readiness?"+q.Encode(), &entries)
	return entries, err
}
