// Package analyzer is the HTTP gateway to the contract analysis backend.
// All substantive work (text extraction, clause segmentation, risk
// classification, redlining) happens behind these five endpoints; this
// package only speaks the wire contract.
package analyzer

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
	"time"

	"contract-review-fe/internal/entity"
)

type Client interface {
	Health(ctx context.Context) (*HealthStatus, error)
	Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error)
	Analyze(ctx context.Context, docID string) (*AnalyzeResult, error)
	Search(ctx context.Context, query string, limit int) (*SearchResult, error)
	ClassifyText(ctx context.Context, text string) (*entity.Classification, error)
}

type HealthStatus struct {
	Status       string          `json:"status"`
	ModelsLoaded map[string]bool `json:"models_loaded"`
}

type UploadResult struct {
	DocID    string                  `json:"doc_id"`
	Message  string                  `json:"message"`
	Metadata entity.DocumentMetadata `json:"metadata"`
}

type AnalyzeResult struct {
	DocID        string                    `json:"doc_id"`
	Analysis     entity.AnalysisResult     `json:"analysis"`
	Clauses      []entity.ClassifiedClause `json:"classified_clauses"`
	RedlinedHTML string                    `json:"redlined_html"`
}

type SearchHit struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Distance float64                `json:"distance"`
	ID       string                 `json:"id"`
}

type SearchResult struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = &httpClient{}

// New builds a gateway against baseURL. The timeout covers the whole
// request including analysis, which can take tens of seconds.
func New(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the subset of every backend response we need for error
// mapping. FastAPI-style errors carry "detail"; application-level failures
// carry success:false plus "message".
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e envelope) failureMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func (c *httpClient) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var out UploadResult
	if err := c.doJSON(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Analyze(ctx context.Context, docID string) (*AnalyzeResult, error) {
	var out AnalyzeResult
	path := "/analyze/" + url.PathEscape(docID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("limit", strconv.Itoa(limit))

	var out SearchResult
	if err := c.doJSON(ctx, http.MethodGet, "/search?"+params.Encode(), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ClassifyText(ctx context.Context, text string) (*entity.Classification, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var out struct {
		Classification entity.Classification `json:"classification"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/classify-text", bytes.NewReader(payload), "application/json", &out); err != nil {
		return nil, err
	}
	return &out.Classification, nil
}

// doJSON sends the request and decodes the body into out. Non-2xx statuses
// and success:false payloads both surface as *BackendError carrying the
// backend's own message verbatim when it sent one.
func (c *httpClient) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &BackendError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &BackendError{Op: method + " " + path, StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	// Tolerate non-JSON error bodies; env stays zero-valued.
	_ = json.Unmarshal(bodyBytes, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BackendError{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
			Message:    env.failureMessage(),
		}
	}

	if env.Success != nil && !*env.Success {
		return &BackendError{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
			Message:    env.failureMessage(),
		}
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return &BackendError{Op: method + " " + path, StatusCode: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
