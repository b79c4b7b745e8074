package thehive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soclabs/thehive-go/models"
	"go.uber.org/zap"
)

// Config holds the connection settings for a service instance.
type Config struct {
	// URL is the base URL of the instance, e.g. "http://localhost:9000".
	URL string
	// APIKey authenticates every request as a bearer token.
	APIKey string
	// Organisation optionally scopes requests to a non-default organisation.
	Organisation string
	// HTTPClient is optional and will default to http.DefaultClient.
	HTTPClient *http.Client
	// Logger is optional and will default to a no-op logger.
	Logger *zap.Logger
}

// Client is a typed wrapper around the service's v1 REST API. All entity
// records are owned by the remote service; the client only translates method
// calls into HTTP requests and decodes the JSON responses.
type Client struct {
	baseURL      string
	apiKey       string
	organisation string
	httpClient   *http.Client
	logger       *zap.Logger

	Case       *CaseService
	Alert      *AlertService
	Observable *ObservableService
	Task       *TaskService
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("thehive: no service URL configured")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		apiKey:       cfg.APIKey,
		organisation: cfg.Organisation,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
	}
	c.Case = &CaseService{client: c}
	c.Alert = &AlertService{client: c}
	c.Observable = &ObservableService{client: c}
	c.Task = &TaskService{client: c}
	return c, nil
}

// Status fetches the instance status and version information.
func (c *Client) Status(ctx context.Context) (*models.Status, error) {
	var status models.Status
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// do issues a single JSON request. A nil in sends no body; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out interface{}) error {
	var body io.Reader
	headers := http.Header{}
	if in != nil {
		b := &bytes.Buffer{}
		if err := json.NewEncoder(b).Encode(in); err != nil {
			return err
		}
		headers.Set("Content-Type", "application/json")
		body = b
	}

	resp, err := c.roundTrip(ctx, method, path, params, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, out)
}

// upload issues a multipart POST carrying an optional "_json" field plus the
// given files under fileField.
func (c *Client) upload(ctx context.Context, path string, jsonPart interface{}, fileField string, filePaths []string, out interface{}) error {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	if jsonPart != nil {
		b, err := json.Marshal(jsonPart)
		if err != nil {
			return err
		}
		if err := mw.WriteField("_json", string(b)); err != nil {
			return err
		}
	}
	for _, filePath := range filePaths {
		if err := writeFilePart(mw, fileField, filePath); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.roundTrip(ctx, http.MethodPost, path, nil, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, out)
}

// download streams a GET response body into the file at dest.
func (c *Client) download(ctx context.Context, path string, params url.Values, dest string) error {
	resp, err := c.roundTrip(ctx, http.MethodGet, path, params, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params url.Values, body io.Reader, headers http.Header) (*http.Response, error) {
	u := c.baseURL + path
	if len(params) != 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organisation != "" {
		req.Header.Set("X-Organisation", c.organisation)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	return resp, nil
}

func (c *Client) decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body models.Error
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Type = body.Type
	apiErr.Message = body.Message
	return apiErr
}

func writeFilePart(mw *multipart.Writer, field, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
