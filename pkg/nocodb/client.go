package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrNotFound matches any APIError carrying a 404 and empty Get responses.
var ErrNotFound = errors.New("nocodb: record not found")

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	newBackoff func() retry.Backoff
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithMaxRetries bounds how many times a transient failure is retried. Zero disables retries.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) {
		c.newBackoff = func() retry.Backoff {
			b := retry.NewFibonacci(200 * time.Millisecond)
			b = retry.WithCappedDuration(2*time.Second, b)
			return retry.WithMaxRetries(n, b)
		}
	}
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	WithMaxRetries(2)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nocodb: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Condition renders as a NocoDB where clause term, e.g. (Email,eq,a@b.c).
type Condition struct {
	Field string
	Op    string
	Value string
}

func Eq(field, value string) Condition {
	return Condition{Field: field, Op: "eq", Value: value}
}

func (c Condition) String() string {
	return fmt.Sprintf("(%s,%s,%s)", c.Field, c.Op, c.Value)
}

type ListOptions struct {
	Where  []Condition
	Limit  int
	Offset int
	Sort   string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if len(o.Where) > 0 {
		terms := make([]string, len(o.Where))
		for i, cond := range o.Where {
			terms[i] = cond.String()
		}
		q.Set("where", strings.Join(terms, "~and"))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	return q
}

type PageInfo struct {
	TotalRows   int  `json:"totalRows"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	IsFirstPage bool `json:"isFirstPage"`
	IsLastPage  bool `json:"isLastPage"`
}

type listResponse struct {
	List     []Record `json:"list"`
	PageInfo PageInfo `json:"pageInfo"`
}

func dataPath(baseID, tableID string, recordID ...string) string {
	p := "/api/v1/db/data/noco/" + url.PathEscape(baseID) + "/" + url.PathEscape(tableID)
	if len(recordID) > 0 && recordID[0] != "" {
		p += "/" + url.PathEscape(recordID[0])
	}
	return p
}

// List returns the rows of a table matching opts.
func (c *Client) List(ctx context.Context, baseID, tableID string, opts ListOptions) ([]Record, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, dataPath(baseID, tableID), opts.values(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (c *Client) Get(ctx context.Context, baseID, tableID, recordID string) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, dataPath(baseID, tableID, recordID), nil, nil, &rec); err != nil {
		return nil, err
	}
	// Older NocoDB versions answer a missing row with 200 and {}.
	if len(rec) == 0 {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (c *Client) Create(ctx context.Context, baseID, tableID string, fields map[string]any) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPost, dataPath(baseID, tableID), nil, fields, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) Update(ctx context.Context, baseID, tableID, recordID string, fields map[string]any) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPatch, dataPath(baseID, tableID, recordID), nil, fields, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) Delete(ctx context.Context, baseID, tableID, recordID string) error {
	return c.do(ctx, http.MethodDelete, dataPath(baseID, tableID, recordID), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	// POST is not idempotent: it is retried only when the request never left the client.
	idempotent := method != http.MethodPost

	return retry.Do(ctx, c.newBackoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("xc-token", c.Token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err = fmt.Errorf("failed to send request: %w", err)
			if idempotent || dialFailure(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			err = fmt.Errorf("failed to read response: %w", err)
			if idempotent {
				return retry.RetryableError(err)
			}
			return err
		}

		if resp.StatusCode >= 300 {
			apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
			if resp.StatusCode >= 500 && idempotent {
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}

		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	})
}

// dialFailure reports a connection that was never established, so nothing reached NocoDB.
func dialFailure(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
