package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// RequestTimeout bounds every call to a device. Miner firmware answers in
// well under a second on a healthy LAN; anything slower counts as down.
const RequestTimeout = 5 * time.Second

// connection pooling limits to prevent resource exhaustion when watching many devices
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 2
	defaultMaxConnsPerHost     = 2
	defaultIdleConnTimeout     = 60 * time.Second
)

// SystemInfo is the decoded /api/system/info response.
//
// Optional fields are pointers; nil means the firmware did not report the
// value. SharesAccepted and UptimeSeconds default to zero when absent,
// Hostname defaults to empty.
type SystemInfo struct {
	// Hostname is the device-configured hostname.
	Hostname string `json:"hostname"`

	// HashRate is the current hash rate in GH/s.
	HashRate *float64 `json:"hashRate"`

	// SharesAccepted is the cumulative count of accepted shares since the
	// device last booted. This is the value the stall detector compares.
	SharesAccepted uint64 `json:"sharesAccepted"`

	// ASICTemp is the ASIC temperature in °C.
	ASICTemp *float64 `json:"temp"`

	// VRTemp is the voltage regulator temperature in °C.
	VRTemp *float64 `json:"vrTemp"`

	// UptimeSeconds is the device uptime. nil if not reported.
	UptimeSeconds *int64 `json:"uptimeSeconds"`
}

// UnreachableError indicates a device status fetch failed: network error,
// timeout, non-2xx response, or an unparsable body.
type UnreachableError struct {
	// IP is the device address that was polled.
	IP string

	// Err is the underlying cause.
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("device %s unreachable: %v", e.IP, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// RestartError indicates a restart command was not acknowledged.
//
// StatusCode is zero when the request failed before a response was
// received; otherwise it holds the non-200 status the device returned.
type RestartError struct {
	// IP is the device address the restart was sent to.
	IP string

	// StatusCode is the HTTP status the device answered with, or zero.
	StatusCode int

	// Err is the underlying transport error, nil for status failures.
	Err error
}

func (e *RestartError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("restart of device %s failed: %v", e.IP, e.Err)
	}
	return fmt.Sprintf("restart of device %s failed: unexpected status %d", e.IP, e.StatusCode)
}

func (e *RestartError) Unwrap() error { return e.Err }

// Client talks to Bitaxe-class miner HTTP APIs.
//
// Client applies [RequestTimeout] to every call via context and limits
// response bodies to 1MB. A single Client is safe for concurrent use by
// multiple monitor loops; connections are pooled per host.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a [Client] with pooled connections.
//
// Timeouts are applied per-request via context, not as a global client
// timeout, so a slow device cannot delay calls to other devices.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Info fetches and decodes a device's system info snapshot.
//
// Any failure (transport error, timeout, non-2xx status, or undecodable
// body) is returned as an [*UnreachableError]. A successful result always
// carries defaults for fields the firmware omitted.
func (c *Client) Info(ctx context.Context, ip string) (SystemInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/api/system/info", ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return SystemInfo{}, &UnreachableError{IP: ip, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SystemInfo{}, &UnreachableError{IP: ip, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return SystemInfo{}, &UnreachableError{IP: ip, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return SystemInfo{}, &UnreachableError{IP: ip, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var info SystemInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return SystemInfo{}, &UnreachableError{IP: ip, Err: fmt.Errorf("failed to decode system info: %w", err)}
	}

	return info, nil
}

// Restart issues the remote restart command to a device.
//
// The command is a bare POST with no body. Only HTTP 200 counts as
// success; anything else is returned as an [*RestartError].
func (c *Client) Restart(ctx context.Context, ip string) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/api/system/restart", ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return &RestartError{IP: ip, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RestartError{IP: ip, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))

	if resp.StatusCode != http.StatusOK {
		return &RestartError{IP: ip, StatusCode: resp.StatusCode}
	}

	return nil
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
