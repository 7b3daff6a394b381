package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// PingService reports whether anything accepts TCP connections at the
// URL's host and port. It answers reachability only; no request is sent.
func PingService(serviceURL string, timeout time.Duration) error {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	addr := net.JoinHostPort(u.Hostname(), port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn.Close()
}

// PingAuthorizer probes the identity service with a short timeout so
// health reporting cannot hang on it.
func PingAuthorizer(authzURL string) error {
	return PingService(authzURL, 1500*time.Millisecond)
}
