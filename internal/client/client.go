// Package client talks to the board HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NomadCrew/comment-board/types"
)

const defaultTimeout = 10 * time.Second

// ErrNotCommitted is returned by Post when the server answered with a result
// other than committed.
var ErrNotCommitted = errors.New("submission not committed")

// APIError is an error response rendered by the server's error middleware.
type APIError struct {
	StatusCode int
	Body       types.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Message == "" {
		return fmt.Sprintf("board API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("board API returned %d: %s", e.StatusCode, e.Body.Message)
}

// RejectedError carries a non-committed MutationResult.
type RejectedError struct {
	Result types.MutationResult
}

func (e *RejectedError) Error() string {
	if e.Result.Status == types.MutationFailed {
		return fmt.Sprintf("%s: %s", ErrNotCommitted, e.Result.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrNotCommitted, e.Result.Status)
}

func (e *RejectedError) Unwrap() error {
	return ErrNotCommitted
}

// Client is a board API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListComments returns every comment.
func (c *Client) ListComments(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/comments", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// SearchComments returns comments containing query, ignoring case.
func (c *Client) SearchComments(ctx context.Context, query string) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/comments/search", url.Values{"query": {query}}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// SubmitComment posts a comment and returns the server's MutationResult. Invalid
// and failed results are returned without an error.
func (c *Client) SubmitComment(ctx context.Context, comment string) (types.MutationResult, error) {
	return c.postForm(ctx, "/comments", url.Values{"comment": {comment}})
}

// SubmitFeedback posts a feedback form.
func (c *Client) SubmitFeedback(ctx context.Context, name, email, feedback string) (types.MutationResult, error) {
	return c.postForm(ctx, "/feedback", url.Values{
		"name":     {name},
		"email":    {email},
		"feedback": {feedback},
	})
}

// PostComment submits a comment and reports anything but a commit as an error,
// so it can drive an optimistic overlay.
func (c *Client) PostComment(ctx context.Context, comment string) error {
	result, err := c.SubmitComment(ctx, comment)
	if err != nil {
		return err
	}
	if result.Status != types.MutationCommitted {
		return &RejectedError{Result: result}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (types.MutationResult, error) {
	var result types.MutationResult

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return result, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusBadRequest, http.StatusServiceUnavailable:
	default:
		return result, decodeAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Status == "" {
		// A 400 from the bind path is an error body, not a result.
		return types.MutationResult{}, parseAPIError(resp.StatusCode, body)
	}
	return result, nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return parseAPIError(resp.StatusCode, body)
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	_ = json.Unmarshal(body, &apiErr.Body)
	return apiErr
}
