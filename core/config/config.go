package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         string
	DashboardURL string
	OTel         OTelConfig
	OpenAI       OpenAIConfig
	Tracker      string // "jira" or "gitlab"
	Jira         JiraConfig
	GitLab       GitLabConfig
	Confluence   ConfluenceConfig
	Figma        FigmaConfig
	Agent        AgentConfig
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	StreamTimeout time.Duration
}

type JiraConfig struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
}

type GitLabConfig struct {
	BaseURL   string
	Token     string
	ProjectID int64
}

type ConfluenceConfig struct {
	BaseURL  string
	Email    string
	APIToken string
	SpaceKey string
}

type FigmaConfig struct {
	Token string
}

type AgentConfig struct {
	WebhookURL string
	Token      string
}

// Load reads configuration from the environment. In development it
// first loads a .env file; missing integrations are not an error, the
// service degrades per-integration instead.
func Load() (Config, error) {
	if getEnv("REFINERY_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:          getEnv("REFINERY_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:3000"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "refinery"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		OpenAI: OpenAIConfig{
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			BaseURL:       getEnv("OPENAI_BASE_URL", ""),
			Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			StreamTimeout: time.Duration(getEnvInt("OPENAI_STREAM_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Tracker: getEnv("ISSUE_TRACKER", "jira"),
		Jira: JiraConfig{
			BaseURL:    getEnv("JIRA_BASE_URL", ""),
			Email:      getEnv("JIRA_EMAIL", ""),
			APIToken:   getEnv("JIRA_API_TOKEN", ""),
			ProjectKey: getEnv("JIRA_PROJECT_KEY", ""),
		},
		GitLab: GitLabConfig{
			BaseURL:   getEnv("GITLAB_BASE_URL", ""),
			Token:     getEnv("GITLAB_TOKEN", ""),
			ProjectID: getEnvInt64("GITLAB_PROJECT_ID", 0),
		},
		Confluence: ConfluenceConfig{
			BaseURL:  getEnv("CONFLUENCE_BASE_URL", ""),
			Email:    getEnv("CONFLUENCE_EMAIL", ""),
			APIToken: getEnv("CONFLUENCE_API_TOKEN", ""),
			SpaceKey: getEnv("CONFLUENCE_SPACE_KEY", ""),
		},
		Figma: FigmaConfig{
			Token: getEnv("FIGMA_TOKEN", ""),
		},
		Agent: AgentConfig{
			WebhookURL: getEnv("AGENT_WEBHOOK_URL", ""),
			Token:      getEnv("AGENT_TOKEN", ""),
		},
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}
