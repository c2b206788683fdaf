package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// FigmaConfig configures the file-fetch client.
type FigmaConfig struct {
	BaseURL string // override for tests; empty = https://api.figma.com
	Token   string
}

func (c FigmaConfig) Enabled() bool { return c.Token != "" }

var figmaFileKey = regexp.MustCompile(`figma\.com/(?:file|design)/([A-Za-z0-9]+)`)

// FigmaFile is the fetched design document tree.
type FigmaFile struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// FigmaClient fetches design files referenced from the dashboard.
type FigmaClient struct {
	cfg  FigmaConfig
	http *http.Client
}

func NewFigmaClient(cfg FigmaConfig) *FigmaClient {
	return &FigmaClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchFile resolves a shared Figma URL to its file key and fetches
// the document tree.
func (c *FigmaClient) FetchFile(ctx context.Context, fileURL string) (*FigmaFile, error) {
	m := figmaFileKey.FindStringSubmatch(fileURL)
	if m == nil {
		return nil, fmt.Errorf("unrecognized figma url: %s", fileURL)
	}

	base := c.cfg.BaseURL
	if base == "" {
		base = "https://api.figma.com"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/v1/files/"+m[1], nil)
	if err != nil {
		return nil, fmt.Errorf("building figma request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling figma: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("figma returned %d: %s", resp.StatusCode, detail)
	}

	var file FigmaFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding figma file: %w", err)
	}
	return &file, nil
}
