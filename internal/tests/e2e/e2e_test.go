package e2e

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
)

// E2ETestSuite drives a gateway started separately (docker compose up) whose
// upstream accepts POST /orders.
type E2ETestSuite struct {
	suite.Suite
	client *TestClient
}

func TestE2ESuite(t *testing.T) {
	// Skip if not running E2E tests
	if os.Getenv("RUN_E2E_TESTS") != "true" {
		t.Skip("Skipping E2E tests (set RUN_E2E_TESTS=true to run)")
	}

	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupSuite() {
	gatewayURL := os.Getenv("GATEWAY_URL")
	if gatewayURL == "" {
		gatewayURL = "http://localhost:8081"
	}

	suite.client = NewTestClient(gatewayURL)
	suite.waitForGateway()
}

func (suite *E2ETestSuite) waitForGateway() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			suite.T().Fatal("Gateway not ready after 30s")
		case <-ticker.C:
			resp, err := suite.client.httpClient.Get(suite.client.baseURL + "/readyz")
			if err != nil {
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}

// ============================================================================
// ADMISSION
// ============================================================================

func (suite *E2ETestSuite) TestRetryWithSameKey_Conflicts() {
	t := suite.T()
	key := NewKey("e2e-retry")

	status, _ := suite.client.Send(t, http.MethodPost, "/orders", key, map[string]int{"amount": 5000})
	require.Less(t, status, 400, "first request should reach upstream")

	status, body := suite.client.Send(t, http.MethodPost, "/orders", key, map[string]int{"amount": 5000})
	assert.Equal(t, http.StatusConflict, status)

	errResp := DecodeError(t, body)
	assert.Equal(t, domain.ErrCodeDuplicateIdempotencyKey, errResp.Error.Code)
	assert.Equal(t, "duplicate idempotency-key", errResp.Error.Message)
}

func (suite *E2ETestSuite) TestShortKey_NotGuarded() {
	t := suite.T()

	for i := 0; i < 2; i++ {
		status, _ := suite.client.Send(t, http.MethodPost, "/orders", "short-key", nil)
		assert.NotEqual(t, http.StatusConflict, status)
	}
}

// ============================================================================
// CONCURRENCY
// ============================================================================

func (suite *E2ETestSuite) TestConcurrentDuplicates_OneAdmitted() {
	t := suite.T()
	key := NewKey("e2e-race")

	const n = 10
	statuses := make([]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i], _ = suite.client.Send(t, http.MethodPost, "/orders", key, nil)
		}(i)
	}
	wg.Wait()

	conflicts := 0
	for _, s := range statuses {
		if s == http.StatusConflict {
			conflicts++
		}
	}
	assert.Equal(t, n-1, conflicts)
}
