package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gennadis/pdfchatui/internal/config"
	"github.com/google/uuid"
)

const (
	JSONContentType = "application/json"
	PDFContentType  = "application/pdf"

	requestIDHeader = "X-Request-ID"
	uploadPath      = "/upload_pdf"
	chatPath        = "/chat"
)

// APIError is returned for any non-2xx response. Body holds the response
// body as text, unparsed.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: status code %d: %s", e.StatusCode, e.Body)
}

// Client talks to the document chat backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// post sends body to path and returns the response body of a 2xx reply.
func (c *Client) post(ctx context.Context, path, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		slog.Error("Failed to build request", "path", path, "error", err)
		return nil, err
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", JSONContentType)
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to send request",
			slog.String("request_id", reqID),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error("Failed to read response body", "request_id", reqID, "error", err)
		return nil, err
	}

	slog.Debug("request completed",
		slog.String("request_id", reqID),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if err := handleApiError(res, resBody); err != nil {
		slog.Error("Backend rejected request", "request_id", reqID, "path", path, "error", err)
		return nil, err
	}
	return resBody, nil
}

func handleApiError(res *http.Response, body []byte) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return nil
}
