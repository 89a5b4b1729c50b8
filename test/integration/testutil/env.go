package testutil

import (
	"os"
	"testing"
	"time"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// RequireServer returns a client against the service named by envVar,
// or skips the test when the variable is unset. The suite only runs
// against a live stack (services + Mongo), never in plain `go test`.
func RequireServer(t *testing.T, envVar string) *Client {
	t.Helper()

	serverURL := os.Getenv(envVar)
	if serverURL == "" {
		t.Skipf("%s not set, skipping integration test", envVar)
	}

	client := NewClient(serverURL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)
	return client
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
