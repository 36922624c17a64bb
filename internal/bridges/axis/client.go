package axis

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// TelemetryWriter records per-call adapter telemetry.
// A nil writer disables telemetry without changing behaviour.
type TelemetryWriter interface {
	WriteVendorCall(operation string, synthesized bool, duration time.Duration)
}

// Config holds the vendor connection settings.
type Config struct {
	// BaseURL of the vendor service, without the /api suffix.
	BaseURL string

	// Username and Password for HTTP basic auth.
	Username string
	Password string

	// Timeout applied to each request. One attempt per call.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	// On-site vendor endpoints commonly run self-signed.
	InsecureSkipVerify bool
}

// Client talks to the Axis audio control service.
//
// All methods return a result rather than an error: failed calls are
// absorbed into synthesized fallback results tagged with
// ProvenanceSynthesized. Safe for concurrent use.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     Logger
	telemetry  TelemetryWriter
}

// NewClient creates a vendor client from config.
func NewClient(cfg Config) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
		},
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// SetTelemetry sets the telemetry writer for the client.
func (c *Client) SetTelemetry(telemetry TelemetryWriter) {
	c.telemetry = telemetry
}

// Discover queries the vendor for available audio targets.
//
// Fallback: a fixed two-target sample set, so downstream flows can be
// exercised against an unreachable vendor.
func (c *Client) Discover(ctx context.Context) DiscoverResult {
	var payload struct {
		Targets []Target `json:"targets"`
	}

	err := c.request(ctx, "discover", http.MethodGet, "/targets", nil, &payload)
	if err != nil {
		c.logger.Warn("target discovery failed, synthesizing sample targets", "error", err)
		return DiscoverResult{
			Targets:    sampleTargets(),
			Provenance: ProvenanceSynthesized,
		}
	}

	return DiscoverResult{Targets: payload.Targets, Provenance: ProvenanceReal}
}

// GetTargetStatus queries the status of a single target.
//
// Fallback: the target ID with status "unknown".
func (c *Client) GetTargetStatus(ctx context.Context, targetID string) StatusResult {
	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	err := c.request(ctx, "get_status", http.MethodGet, "/targets/"+targetID, nil, &payload)
	if err != nil {
		c.logger.Warn("target status query failed", "target_id", targetID, "error", err)
		return StatusResult{ID: targetID, Status: "unknown", Provenance: ProvenanceSynthesized}
	}

	return StatusResult{ID: payload.ID, Status: payload.Status, Provenance: ProvenanceReal}
}

// StartSession asks the vendor to start playback on a zone.
//
// Fallback: a fresh session ID with status "started", so session
// orchestration proceeds as if the vendor had accepted.
func (c *Client) StartSession(ctx context.Context, zoneID string, audio AudioConfig) StartResult {
	body := map[string]any{
		"targets":      []string{zoneID},
		"audio_config": audio,
	}

	var payload struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
	}

	err := c.request(ctx, "start_session", http.MethodPost, "/sessions", body, &payload)
	if err != nil {
		c.logger.Error("starting vendor session failed, synthesizing start", "zone_id", zoneID, "error", err)
		return StartResult{
			SessionID:  uuid.New().String(),
			Status:     "started",
			Provenance: ProvenanceSynthesized,
		}
	}

	return StartResult{SessionID: payload.SessionID, Status: payload.Status, Provenance: ProvenanceReal}
}

// ControlPlayback sends a playback control action for a session.
//
// Fallback: generic success.
func (c *Client) ControlPlayback(ctx context.Context, sessionID, action string, params map[string]any) ControlResult {
	body := map[string]any{"action": action}
	for k, v := range params {
		body[k] = v
	}

	var payload struct {
		Status string `json:"status"`
	}

	err := c.request(ctx, "control_playback", http.MethodPut, "/sessions/"+sessionID+"/control", body, &payload)
	if err != nil {
		c.logger.Error("playback control failed", "session_id", sessionID, "action", action, "error", err)
		return ControlResult{Status: "success", Provenance: ProvenanceSynthesized}
	}

	return ControlResult{Status: payload.Status, Provenance: ProvenanceReal}
}

// SetVolume pushes a volume level to a target.
//
// Fallback: generic success.
func (c *Client) SetVolume(ctx context.Context, targetID string, volume int) VolumeResult {
	body := map[string]any{"volume": volume}

	var payload struct {
		Status string `json:"status"`
	}

	err := c.request(ctx, "set_volume", http.MethodPut, "/targets/"+targetID+"/volume", body, &payload)
	if err != nil {
		c.logger.Error("volume push failed", "target_id", targetID, "volume", volume, "error", err)
		return VolumeResult{Status: "success", Provenance: ProvenanceSynthesized}
	}

	return VolumeResult{Status: payload.Status, Provenance: ProvenanceReal}
}

// request makes one authenticated JSON request against {base}/api{endpoint}
// and decodes the response into out. It records vendor_call telemetry for
// the operation and never retries.
func (c *Client) request(ctx context.Context, operation, method, endpoint string, body any, out any) error {
	start := time.Now()
	err := c.doRequest(ctx, method, endpoint, body, out)

	if c.telemetry != nil {
		c.telemetry.WriteVendorCall(operation, err != nil, time.Since(start))
	}

	return err
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, out any) error {
	url := c.baseURL + "/api" + endpoint

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling vendor API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("vendor API returned status %d", resp.StatusCode)
	}

	if out != nil {
		// An empty body is fine; some vendor endpoints reply 200 with no content.
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// sampleTargets is the fixed fallback set returned when discovery fails.
func sampleTargets() []Target {
	return []Target{
		{
			ID:        "192.168.1.100",
			Name:      "Speaker Zone 1",
			IPAddress: "192.168.1.100",
			Model:     "AXIS C1004-E",
			Status:    "online",
		},
		{
			ID:        "192.168.1.101",
			Name:      "Speaker Zone 2",
			IPAddress: "192.168.1.101",
			Model:     "AXIS C1004-E",
			Status:    "online",
		},
	}
}
