package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ConfluenceConfig configures the Confluence page client.
type ConfluenceConfig struct {
	BaseURL  string // e.g. https://acme.atlassian.net/wiki
	Email    string
	APIToken string
	SpaceKey string
}

func (c ConfluenceConfig) Enabled() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != "" && c.SpaceKey != ""
}

// ConfluenceClient publishes generated design docs as pages.
type ConfluenceClient struct {
	cfg  ConfluenceConfig
	http *http.Client
}

func NewConfluenceClient(cfg ConfluenceConfig) *ConfluenceClient {
	return &ConfluenceClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePage creates a storage-format page in the configured space and
// returns its browse URL.
func (c *ConfluenceClient) CreatePage(ctx context.Context, title, storageBody string) (string, error) {
	payload := map[string]any{
		"type":  "page",
		"title": title,
		"space": map[string]string{"key": c.cfg.SpaceKey},
		"body": map[string]any{
			"storage": map[string]string{
				"value":          storageBody,
				"representation": "storage",
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding confluence payload: %w", err)
	}

	base := strings.TrimSuffix(c.cfg.BaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/rest/api/content", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building confluence request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling confluence: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("confluence returned %d: %s", resp.StatusCode, detail)
	}

	var created struct {
		Links struct {
			Base  string `json:"base"`
			WebUI string `json:"webui"`
		} `json:"_links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decoding confluence response: %w", err)
	}

	return created.Links.Base + created.Links.WebUI, nil
}
