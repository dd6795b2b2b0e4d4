package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DanielPopoola/idempotency-gateway/internal/interfaces/rest"
)

// TestClient wraps HTTP calls to a running gateway
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewKey returns a qualifying key unique to this run.
func NewKey(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// Send issues method on path with the given Idempotency-Key ("" omits the header).
func (c *TestClient) Send(t *testing.T, method, path, key string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func DecodeError(t *testing.T, body []byte) rest.ErrorResponse {
	t.Helper()
	var errResp rest.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	return errResp
}
