package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL        = "http://localhost:8081/api"
	defaultTimeout        = 10 * time.Second
	errorBodyLimit  int64 = 4096
	requestIDHeader       = "X-Request-Id"
)

var errBaseURLRequired = errors.New("upstream base url is required")

// Observer receives the outcome of every upstream call.
type Observer interface {
	ObserveUpstream(operation string, duration time.Duration, err error)
}

// Client is the shared HTTP plumbing for the TasteTrack REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	validate   *validator.Validate
	observer   Observer
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// WithObserver registers a recorder for call durations.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds the upstream client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parsing upstream base url: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    trimmed,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	client.validate.RegisterCustomTypeFunc(nullDecimalValue, decimal.NullDecimal{})
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// nullDecimalValue exposes a nullable amount to validator tags. An absent or
// null amount reads as missing; a present zero still satisfies required.
func nullDecimalValue(field reflect.Value) any {
	amount, ok := field.Interface().(decimal.NullDecimal)
	if !ok || !amount.Valid {
		return nil
	}
	value := amount.Decimal.InexactFloat64()
	return &value
}

// Request describes one call against the REST API.
type Request struct {
	// Operation labels the call in logs and metrics, e.g. "orders.create".
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      any
	// Token is the upstream bearer token of the signed-in user, if any.
	Token string
}

// Do executes req and decodes a successful JSON body into out. Decoded
// payloads are checked against their `validate` tags before returning.
func (c *Client) Do(ctx context.Context, req Request, out any) (err error) {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	started := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstream(req.Operation, time.Since(started), err)
		}
	}()

	var body io.Reader
	if req.Body != nil {
		payload, marshalErr := json.Marshal(req.Body)
		if marshalErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, marshalErr, "marshal upstream request")
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(req.Path, req.Query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		httpReq.Header.Set(requestIDHeader, requestID)
	}
	if token := strings.TrimSpace(req.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s request failed", operationName(req)))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", operationName(req)))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("%s returned an empty body", operationName(req)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", operationName(req)))
	}
	if err := c.check(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s returned an invalid payload", operationName(req)))
	}
	return nil
}

// check validates a decoded struct or every struct element of a decoded slice.
func (c *Client) check(out any) error {
	value := reflect.Indirect(reflect.ValueOf(out))
	switch value.Kind() {
	case reflect.Struct:
		return c.validate.Struct(value.Interface())
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			elem := reflect.Indirect(value.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := c.validate.Struct(elem.Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	full := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// errorFromResponse prefers the body's message, then its error field, then
// the raw text, then the status text.
func errorFromResponse(status int, raw []byte) error {
	text := strings.TrimSpace(string(raw))
	message := ""

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if text != "" && json.Unmarshal(raw, &payload) == nil {
		message = strings.TrimSpace(payload.Message)
		if message == "" {
			message = strings.TrimSpace(payload.Error)
		}
		if message == "" {
			message = text
		}
	} else {
		message = text
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "an error occurred"
	}

	return pkgerrors.New(pkgerrors.CodeForStatus(status), message).
		WithDetails(map[string]any{"upstream_status": status})
}

func operationName(req Request) string {
	if req.Operation != "" {
		return req.Operation
	}
	return "upstream"
}

// PathID escapes an identifier for use as a path segment.
func PathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
