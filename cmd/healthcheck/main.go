// Command healthcheck probes the workbook health endpoint and exits non-zero
// when it is unreachable or unhealthy. It is the container HEALTHCHECK. The
// address is resolved the way the server resolves it, from the file named by
// WORKBOOK_CONFIG and then WORKBOOK_LISTEN_ADDR.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ericfisherdev/workbook/internal/config"
)

const defaultAddr = "127.0.0.1:8080"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url, err := healthURL()
	if err == nil {
		err = probe(ctx, &http.Client{Timeout: 2 * time.Second}, url)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "unhealthy: %v\n", err)
		os.Exit(1)
	}
}

// healthURL returns the health endpoint of the configured listen address.
func healthURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s/api/v1/health", normalizeAddr(cfg.ListenAddr)), nil
}

// probe fetches url and requires a 200 response whose status field is "ok".
func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("reported status %q", body.Status)
	}

	return nil
}

// normalizeAddr maps the server's bind address to one the probe can dial.
// A bind-all or empty host becomes loopback, since the probe runs in the
// same container as the server.
func normalizeAddr(raw string) string {
	if raw == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
