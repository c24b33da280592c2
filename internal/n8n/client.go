package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/databricks/databricks-sdk-go/common"
	"github.com/databricks/databricks-sdk-go/httpclient"
	"github.com/juju/errors"

	"github.com/imishinist/n8n-timings/internal/config"
)

const apiKeyHeader = "X-N8N-API-KEY"

// StatusError is a non-2xx answer from the n8n API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("n8n API returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	api    *httpclient.ApiClient
	config *config.Config
	logger *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	api := httpclient.NewApiClient(httpclient.ClientConfig{
		HTTPTimeout:  cfg.Timeout,
		RetryTimeout: cfg.RetryTimeout,
		Visitors: []httpclient.RequestVisitor{
			func(r *http.Request) error {
				r.Header.Set(apiKeyHeader, cfg.APIKey)
				r.Header.Set("Accept", "application/json")
				return nil
			},
		},
		ErrorMapper:    mapError,
		ErrorRetriable: retriable,
	})

	return &Client{
		api:    api,
		config: cfg,
		logger: logger,
	}, nil
}

// FetchExecution downloads one execution with its run data and returns the
// undecoded JSON body.
func (c *Client) FetchExecution(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NotValidf("empty execution id")
	}

	url := c.config.ExecutionURL(id)
	c.logger.Debug("fetching execution", "url", url)

	var body bytes.Buffer
	err := c.api.Do(ctx, http.MethodGet, url, httpclient.WithResponseUnmarshal(&body))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, errors.NewNotFound(err, fmt.Sprintf("execution %s not found", id))
		}
		return nil, errors.Annotatef(err, "failed to fetch execution %s", id)
	}

	c.logger.Debug("execution fetched", "id", id, "bytes", body.Len())
	if body.Len() == 0 {
		return nil, errors.NotValidf("empty response for execution %s", id)
	}
	return json.RawMessage(body.Bytes()), nil
}

func mapError(ctx context.Context, resp common.ResponseWrapper) error {
	if resp.Response == nil || resp.Response.StatusCode < http.StatusBadRequest {
		return nil
	}
	var msg []byte
	if resp.ReadCloser != nil {
		msg, _ = io.ReadAll(io.LimitReader(resp.ReadCloser, 4096))
	}
	return &StatusError{
		StatusCode: resp.Response.StatusCode,
		Body:       strings.TrimSpace(string(msg)),
	}
}

func retriable(ctx context.Context, err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
