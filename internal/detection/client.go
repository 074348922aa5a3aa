package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DetectionPath is the endpoint path of the detection service.
const DetectionPath = "/v1/vision/detection"

// DefaultTimeout bounds one request to the detection service.
const DefaultTimeout = 10 * time.Second

// formField is the multipart field the service reads the image from.
const formField = "image"

var (
	// ErrTransport reports that the service could not be reached or did not
	// answer with a usable 200 response.
	ErrTransport = errors.New("detection service transport error")

	// ErrServiceRejected reports a well-formed response with "success": false.
	ErrServiceRejected = errors.New("detection service rejected the image")
)

// response is the JSON body returned by the service.
type response struct {
	Success     bool        `json:"success"`
	Predictions []Detection `json:"predictions"`
}

// Client submits images to the detection service. It is safe for concurrent
// use, although the batch driver calls it sequentially.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger

	// timeout overrides the HTTP client's timeout when set.
	timeout *time.Duration
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. It applies
// regardless of option order and never modifies a client passed to
// WithHTTPClient.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the service listening on host:port.
func NewClient(host string, port int, opts ...ClientOption) *Client {
	c := &Client{
		url:        EndpointURL(host, port),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c
}

// EndpointURL builds http://host:port/v1/vision/detection.
func EndpointURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + DetectionPath
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Detect posts the image at imagePath and returns the service's predictions.
//
// Errors:
//   - a wrapped ErrTransport when the request fails, the status is not 200
//     or the body cannot be decoded
//   - a wrapped ErrServiceRejected when the service reports success=false
//   - a plain wrapped I/O error when the image file cannot be read
//
// A successful response with no predictions returns an empty slice and nil.
func (c *Client) Detect(ctx context.Context, imagePath string) ([]Detection, error) {
	body, contentType, err := encodeImage(imagePath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("posting image to detection service",
		zap.String("url", c.url), zap.String("image", imagePath))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if !r.Success {
		return nil, ErrServiceRejected
	}

	if r.Predictions == nil {
		return []Detection{}, nil
	}
	return r.Predictions, nil
}

// encodeImage builds the multipart body carrying the image file.
func encodeImage(imagePath string) (io.Reader, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(formField, filepath.Base(imagePath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
