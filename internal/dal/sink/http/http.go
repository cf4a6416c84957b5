// Package httpsink submits orders to the storefront backend over HTTP.
package httpsink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const insertPath = "/api/orders"

// Client is the order sink backed by POST /api/orders.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a sink client. Each Insert is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
	}
}

// MustNewClient creates a sink client from the sink.* config keys.
func MustNewClient() *Client {
	baseURL := viper.GetString("sink.base_url")
	if baseURL == "" {
		panic("sink.base_url is not set in config")
	}

	timeout := viper.GetInt("sink.timeout_seconds")
	if timeout == 0 {
		timeout = 10
	}

	return NewClient(baseURL, time.Duration(timeout)*time.Second)
}

type errorBody struct {
	Error string `json:"error"`
}

// Insert submits draft and returns the order as stored by the backend.
func (c *Client) Insert(ctx context.Context, draft order.Draft) (order.Order, error) {
	ctx, span := otel.Tracer("order-sink").Start(ctx, "Client.Insert")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(draft)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+insertPath, bytes.NewReader(body))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			return order.Order{}, fmt.Errorf("%w after %s: %w", order.ErrTimeout, c.timeout, err)
		}

		return order.Order{}, fmt.Errorf("%w: %w", order.ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readError(resp.Body)
		span.SetStatus(codes.Error, msg)

		return order.Order{}, fmt.Errorf("%w: backend returned %d: %s", order.ErrSubmitFailed, resp.StatusCode, msg)
	}

	var created order.Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// The backend accepted the order; only the echo is unreadable.
		return order.Order{Draft: draft}, nil
	}

	return created, nil
}

func readError(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return err.Error()
	}

	var body errorBody
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}

	return strings.TrimSpace(string(raw))
}
