// Package backend is the HTTP client for the detection/review backend. It
// owns the request/response contracts of the six boundary calls; transport
// framing beyond that is the backend's concern.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"visiondash/internal/apperr"
	"visiondash/internal/dto"
	"visiondash/internal/model"
)

// Client talks to the detection/review backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. The generous timeout covers image
// uploads on slow links.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SubmitImage uploads one image for detection and returns the resulting
// detection set. Boxes default to the normalized frame unless the backend
// declares otherwise.
func (c *Client) SubmitImage(ctx context.Context, filename string, data []byte) (*model.DetectionSet, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperr.Backend("failed to build upload request", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, apperr.Backend("failed to build upload request", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperr.Backend("failed to build upload request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", body)
	if err != nil {
		return nil, apperr.Backend("failed to create predict request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Backend("predict request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("predict", resp)
	}

	var predictResp dto.PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		return nil, apperr.Backend("failed to decode predict response", err)
	}
	if predictResp.Error != "" {
		return nil, apperr.Backend("predict rejected: "+predictResp.Error, nil)
	}

	return &model.DetectionSet{
		Detections: predictResp.Detections,
		FrameKind:  frameOrDefault(predictResp.Frame),
		Width:      predictResp.Width,
		Height:     predictResp.Height,
	}, nil
}

// ListUnreviewed fetches a bounded page of item paths pending review, in
// backend order.
func (c *Client) ListUnreviewed(ctx context.Context, limit int) ([]string, error) {
	endpoint := c.baseURL + "/list-unverified?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Backend("failed to create list request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Backend("list request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list-unverified", resp)
	}

	var listResp dto.ReviewListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, apperr.Backend("failed to decode list response", err)
	}
	if listResp.Error != "" {
		return nil, apperr.Backend("list rejected: "+listResp.Error, nil)
	}

	return listResp.Images, nil
}

// FetchImage returns the raw bytes of a review item's image, proxied by the
// backend.
func (c *Client) FetchImage(ctx context.Context, path string) ([]byte, error) {
	endpoint := c.baseURL + "/proxy-image?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Backend("failed to create image request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Backend("image request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("proxy-image", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Backend("failed to read image bytes", err)
	}
	return data, nil
}

// FetchPrediction returns the stored prediction for an item, or (nil, nil)
// when none exists. A missing prediction is a normal outcome: the item may
// simply never have been analyzed.
func (c *Client) FetchPrediction(ctx context.Context, path string) (*model.DetectionSet, error) {
	endpoint := c.baseURL + "/get-prediction-data?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Backend("failed to create prediction request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Backend("prediction request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get-prediction-data", resp)
	}

	var pred dto.PredictionData
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, apperr.Backend("failed to decode prediction response", err)
	}
	if pred.Error != "" {
		// The backend reports "not found" inside a 200 body.
		if strings.Contains(strings.ToLower(pred.Error), "not found") {
			return nil, nil
		}
		return nil, apperr.Backend("prediction rejected: "+pred.Error, nil)
	}

	return &model.DetectionSet{
		Detections: pred.Detections,
		FrameKind:  frameOrDefault(pred.Frame),
		Width:      pred.Width,
		Height:     pred.Height,
	}, nil
}

// SubmitDecision records one review decision for an item. The backend's
// submit endpoint is idempotent per (item, decision), so a retry after a
// failure has no double effect.
func (c *Client) SubmitDecision(ctx context.Context, path string, decision model.Decision) error {
	reqBody := dto.SubmitReviewRequest{
		Filename: path,
		Decision: string(decision.Kind),
		Label:    decision.Label,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return apperr.Backend("failed to encode review request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit-review", bytes.NewReader(payload))
	if err != nil {
		return apperr.Backend("failed to create review request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Backend("review request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("submit-review", resp)
	}

	var submitResp dto.SubmitReviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitResp); err != nil {
		return apperr.Backend("failed to decode review response", err)
	}
	if submitResp.Status != "success" {
		return apperr.Backend("review rejected: "+submitResp.Message, nil)
	}

	return nil
}

// Health probes backend liveness.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return apperr.Backend("failed to create health request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Backend("health check failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("health", resp)
	}
	return nil
}

func frameOrDefault(kind model.FrameKind) model.FrameKind {
	if kind == "" {
		return model.FrameNormalized
	}
	return kind
}

func statusError(endpoint string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return apperr.Backend(
		fmt.Sprintf("%s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body))), nil)
}
