package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AgentConfig points at the autonomous coding agent's webhook.
type AgentConfig struct {
	WebhookURL string
	Token      string
}

func (c AgentConfig) Enabled() bool { return c.WebhookURL != "" }

// AgentClient triggers the coding agent to open a pull request from a
// free-text work-item description.
type AgentClient struct {
	cfg  AgentConfig
	http *http.Client
}

func NewAgentClient(cfg AgentConfig) *AgentClient {
	return &AgentClient{
		cfg: cfg,
		// PR scaffolding can take a while on the agent side.
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *AgentClient) TriggerPR(ctx context.Context, description string) (string, error) {
	body, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return "", fmt.Errorf("encoding agent payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling coding agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("coding agent returned %d: %s", resp.StatusCode, detail)
	}

	var result struct {
		PRURL string `json:"prUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding agent response: %w", err)
	}
	return result.PRURL, nil
}
