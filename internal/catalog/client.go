package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iyhunko/inventory-console/internal/metrics"
	"github.com/iyhunko/inventory-console/internal/model"
)

const (
	productsPath = "/products/"

	// maxErrorBody caps how much of an error response is read looking for a detail.
	maxErrorBody = 64 << 10
)

// ErrUnavailable wraps every failure to get a response from the catalog API at all.
var ErrUnavailable = errors.New("catalog api unavailable")

// APIError is a non-2xx answer from the catalog API.
type APIError struct {
	StatusCode int
	// Detail is the human readable "detail" text of the response, if the API sent one.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("catalog api returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("catalog api returned %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the catalog API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the product REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a Client that sends requests through httpClient.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches the whole product collection.
func (c *Client) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, "list", http.MethodGet, productsPath, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// Get fetches a single product by id.
func (c *Client) Get(ctx context.Context, id int) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, "get", http.MethodGet, productPath(id), nil, &product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

// Create sends a new product. The whole record is always sent.
func (c *Client) Create(ctx context.Context, product model.Product) error {
	return c.do(ctx, "create", http.MethodPost, productsPath, product, nil)
}

// Update replaces the product stored under id with product.
func (c *Client) Update(ctx context.Context, id int, product model.Product) error {
	product.ID = id
	return c.do(ctx, "update", http.MethodPut, productPath(id), product, nil)
}

// Delete removes the product stored under id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id int) string {
	return "/products/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogRequestDuration.WithLabelValues(operation, "transport_error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()
	metrics.CatalogRequestDuration.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	slog.Debug("catalog api call",
		slog.String("operation", operation),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// readDetail extracts a string "detail" field. Structured details (for example
// field validation lists) are not human readable and yield "".
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
