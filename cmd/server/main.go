package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"draftdeck.app/refinery/common/id"
	"draftdeck.app/refinery/common/logger"
	"draftdeck.app/refinery/common/otel"
	"draftdeck.app/refinery/core/config"
	"draftdeck.app/refinery/internal/handoff"
	"draftdeck.app/refinery/internal/http/middleware"
	httprouter "draftdeck.app/refinery/internal/http/router"
	"draftdeck.app/refinery/internal/llm"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet: OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "refinery starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	source := llm.NewSource(
		llm.NewClient(llm.Config{
			APIKey:        cfg.OpenAI.APIKey,
			BaseURL:       cfg.OpenAI.BaseURL,
			Model:         cfg.OpenAI.Model,
			StreamTimeout: cfg.OpenAI.StreamTimeout,
		}),
		llm.NewFallback(),
	)
	if cfg.OpenAI.Enabled() {
		slog.InfoContext(ctx, "upstream llm configured", "model", cfg.OpenAI.Model)
	} else {
		slog.InfoContext(ctx, "upstream llm not configured, canned fallback active")
	}

	handoffService, err := buildHandoff(cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build handoff service", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, source, handoffService)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: the chat stream holds its response open for
		// the full completion.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func buildHandoff(cfg config.Config) (*handoff.Service, error) {
	svcCfg := handoff.ServiceConfig{}

	jiraCfg := handoff.JiraConfig{
		BaseURL:    cfg.Jira.BaseURL,
		Email:      cfg.Jira.Email,
		APIToken:   cfg.Jira.APIToken,
		ProjectKey: cfg.Jira.ProjectKey,
	}
	gitlabCfg := handoff.GitLabConfig{
		BaseURL:   cfg.GitLab.BaseURL,
		Token:     cfg.GitLab.Token,
		ProjectID: cfg.GitLab.ProjectID,
	}

	switch {
	case cfg.Tracker == "gitlab" && gitlabCfg.Enabled():
		tracker, err := handoff.NewGitLabTracker(gitlabCfg)
		if err != nil {
			return nil, err
		}
		svcCfg.Tracker = tracker
	case jiraCfg.Enabled():
		svcCfg.Tracker = handoff.NewJiraTracker(jiraCfg)
	}

	confluenceCfg := handoff.ConfluenceConfig{
		BaseURL:  cfg.Confluence.BaseURL,
		Email:    cfg.Confluence.Email,
		APIToken: cfg.Confluence.APIToken,
		SpaceKey: cfg.Confluence.SpaceKey,
	}
	if confluenceCfg.Enabled() && cfg.OpenAI.Enabled() {
		svcCfg.Confluence = handoff.NewConfluenceClient(confluenceCfg)
		svcCfg.DocGen = handoff.NewDocGenerator(handoff.DocGeneratorConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		})
	}

	figmaCfg := handoff.FigmaConfig{Token: cfg.Figma.Token}
	if figmaCfg.Enabled() {
		svcCfg.Figma = handoff.NewFigmaClient(figmaCfg)
	}

	agentCfg := handoff.AgentConfig{WebhookURL: cfg.Agent.WebhookURL, Token: cfg.Agent.Token}
	if agentCfg.Enabled() {
		svcCfg.Agent = handoff.NewAgentClient(agentCfg)
	}

	return handoff.NewService(svcCfg), nil
}

func setupRouter(cfg config.Config, source *llm.Source, handoffService *handoff.Service) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, httprouter.Deps{
		Source:  source,
		Handoff: handoffService,
	}, httprouter.RouterConfig{
		DashboardURL: cfg.DashboardURL,
		IsProduction: cfg.IsProduction(),
	})

	return router
}

const banner = `
██████╗ ███████╗███████╗██╗███╗   ██╗███████╗██████╗ ██╗   ██╗
██╔══██╗██╔════╝██╔════╝██║████╗  ██║██╔════╝██╔══██╗╚██╗ ██╔╝
██████╔╝█████╗  █████╗  ██║██╔██╗ ██║█████╗  ██████╔╝ ╚████╔╝
██╔══██╗██╔══╝  ██╔══╝  ██║██║╚██╗██║██╔══╝  ██╔══██╗  ╚██╔╝
██║  ██║███████╗██║     ██║██║ ╚████║███████╗██║  ██║   ██║
╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝╚═╝  ╚═══╝╚══════╝╚═╝  ╚═╝   ╚═╝
`
