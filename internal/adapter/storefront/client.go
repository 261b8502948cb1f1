// Package storefront is a thin client for the commerce GraphQL API. It issues
// query/mutation requests and decodes the {data, errors} envelope; it performs
// no retries and no caching, so idempotency stays with the caller.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	accessTokenHeader = "X-Storefront-Access-Token"

	defaultTimeout  = 10 * time.Second
	defaultPageSize = 100
)

type Config struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
	PageSize    int
}

type Client struct {
	endpoint    string
	accessToken string
	pageSize    int
	httpClient  *http.Client

	docCartQuery               string
	docCartCreate              string
	docCartLinesAdd            string
	docCartLinesUpdate         string
	docCartLinesRemove         string
	docCartDiscountCodesUpdate string
	docCartBuyerIdentityUpdate string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storefront endpoint is not configured")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("storefront access token is not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	c := &Client{
		endpoint:    cfg.Endpoint,
		accessToken: cfg.AccessToken,
		pageSize:    pageSize,
		httpClient:  &http.Client{Timeout: timeout},
	}
	c.buildDocuments()
	return c, nil
}

// GraphQLError is a top-level error entry of the GraphQL response envelope.
type GraphQLError struct {
	Message string `json:"message"`
}

// APIError is a transport-side failure: a non-200 response or a response whose
// top-level errors array is populated. Application-level user errors are not
// APIErrors; they ride inside the mutation payloads.
type APIError struct {
	StatusCode int
	Errors     []GraphQLError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("storefront API request failed with status %d", e.StatusCode)
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return fmt.Sprintf("storefront API returned errors: %s", strings.Join(msgs, "; "))
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// Query executes a read. Reads are always point-in-time: the request asks the
// edge for an uncached answer, because a stale cart snapshot would corrupt the
// before/after diff.
func (c *Client) Query(ctx context.Context, doc string, variables map[string]any, out any) error {
	return c.do(ctx, doc, variables, out, true)
}

// Mutate executes a mutation.
func (c *Client) Mutate(ctx context.Context, doc string, variables map[string]any, out any) error {
	return c.do(ctx, doc, variables, out, false)
}

func (c *Client) do(ctx context.Context, doc string, variables map[string]any, out any, noCache bool) error {
	body, err := json.Marshal(graphqlRequest{Query: doc, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)
	if noCache {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode}
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return &APIError{StatusCode: resp.StatusCode, Errors: envelope.Errors}
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}
	return nil
}
