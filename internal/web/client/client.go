// Package client calls the inventory REST API on behalf of the web front-end.
package client

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
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"inventoryapi/internal/model"
)

const requestIDHeader = "X-Request-ID"

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []FieldError
}

// FieldError names one field the API rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// ProductInput is the body of a product create.
type ProductInput struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Price       string  `json:"price"`
	Quantity    int     `json:"quantity"`
	SupplierID  *int64  `json:"supplier_id,omitempty"`
	Status      string  `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SupplierInput is the body of a supplier create or update.
type SupplierInput struct {
	Name          string  `json:"name"`
	ContactPerson string  `json:"contact_person"`
	Phone         string  `json:"phone"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Client is a small typed client for the inventory API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// New creates a client for the API at baseURL. Outgoing requests carry
// trace context through the otelhttp transport.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		baseURL: u,
	}, nil
}

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a product and returns its id.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	var out createdResponse
	if err := c.do(ctx, http.MethodPost, "/api/products", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateProductStatus changes only the status and returns the API message.
func (c *Client) UpdateProductStatus(ctx context.Context, id int64, status string) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPut, productPath(id), map[string]string{"status": status}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}

// ListSuppliers returns every supplier with its products.
func (c *Client) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	if err := c.do(ctx, http.MethodGet, "/api/suppliers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSupplier returns one supplier with its products.
func (c *Client) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	var out model.Supplier
	if err := c.do(ctx, http.MethodGet, supplierPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSupplier creates a supplier and returns its id.
func (c *Client) CreateSupplier(ctx context.Context, in SupplierInput) (int64, error) {
	var out createdResponse
	if err := c.do(ctx, http.MethodPost, "/api/suppliers", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateSupplier sends the edited fields and returns the API message.
func (c *Client) UpdateSupplier(ctx context.Context, id int64, in SupplierInput) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPut, supplierPath(id), in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DeleteSupplier removes a supplier.
func (c *Client) DeleteSupplier(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, supplierPath(id), nil, nil)
}

func productPath(id int64) string  { return "/api/products/" + strconv.FormatInt(id, 10) }
func supplierPath(id int64) string { return "/api/suppliers/" + strconv.FormatInt(id, 10) }

type requestIDKey struct{}

// WithRequestID makes outgoing calls carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// do sends body as JSON and decodes a 2xx answer into out. Non-2xx answers
// become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var payload struct {
		Error struct {
			Code    string       `json:"code"`
			Message string       `json:"message"`
			Details []FieldError `json:"details"`
		} `json:"error"`
	}
	ae := &APIError{Status: status}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		ae.Code = payload.Error.Code
		ae.Message = payload.Error.Message
		ae.Details = payload.Error.Details
		return ae
	}
	ae.Message = fmt.Sprintf("API returned status %d", status)
	return ae
}
