package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// httpClient wraps http.Client with a per-request timeout.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET and returns the status and body. Each request carries a
// fresh X-Request-ID so failures can be found in the service logs.
func (c *httpClient) get(ctx context.Context, path string) (int, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", id, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, "", id, fmt.Errorf("failed to read body: %w", err)
	}
	return resp.StatusCode, string(body), id, nil
}
