package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrMalformedBody is returned when a 2xx response is not valid JSON.
var ErrMalformedBody = errors.New("malformed JSON response body")

// ErrHTTP wraps a non-2xx upstream response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// StatusCode extracts the upstream status from err, or 0 if err carries none.
func StatusCode(err error) int {
	var httpErr *ErrHTTP
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

const maxErrorBody = 1024

// DoGet performs a GET and returns the body of a 2xx JSON response.
func DoGet(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", url, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("GET %s: %w", url, ErrMalformedBody)
	}
	return body, nil
}
