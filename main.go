package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/opsdesk-poc/server/internal/agent"
	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/chatmodel"
	"github.com/opsdesk-poc/server/internal/agent/model"
	"github.com/opsdesk-poc/server/internal/agent/planner"
	"github.com/opsdesk-poc/server/internal/agent/prompts"
	"github.com/opsdesk-poc/server/internal/agent/refdata"
	"github.com/opsdesk-poc/server/internal/agent/repo"
	"github.com/opsdesk-poc/server/internal/agent/skills"
	"github.com/opsdesk-poc/server/internal/agent/turn"
	"github.com/opsdesk-poc/server/internal/core"
	"github.com/opsdesk-poc/server/internal/server"
	logx "github.com/opsdesk-poc/server/pkg/logger"
	pkgredis "github.com/opsdesk-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Agent        model.AgentModelConfig
	Planner      model.PlannerModelConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
	Data         model.DataConfig
	Server       model.ServerConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		logx.Debug().Err(err).Msg("No .env file loaded")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	ttl := mustDuration("CONVERSATION_TTL", cfg.Conversation.TTL)
	toolTimeout := mustDuration("CONVERSATION_TOOL_TIMEOUT", cfg.Conversation.Tools.Timeout)
	modelTimeout := mustDuration("AGENT_MODEL_TIMEOUT", cfg.Agent.Timeout)
	plannerTimeout := mustDuration("PLANNER_MODEL_TIMEOUT", cfg.Planner.Timeout)

	deployment, err := skills.ParseDeployment(cfg.Data.Deployment)
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid DEPLOYMENT")
	}

	// Conversation store: Redis when configured, otherwise in-process.
	var conversationRepo model.ConversationRepository
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		conversationRepo = repo.NewRedisConversationRepository(rdb, ttl)
		logx.Info().Msg("Using Redis conversation store")
	} else {
		conversationRepo = repo.NewMemoryConversationRepository()
		logx.Info().Msg("Using in-memory conversation store")
	}

	data := refdata.NewStore(cfg.Data.Dir)
	chartStore := charts.NewStore()

	registry, err := skills.NewDeploymentRegistry(deployment, data, chartStore, time.Now)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build skill registry")
	}

	models, err := chatmodel.NewChatModels(ctx, chatmodel.Config{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		AgentConfig:   &cfg.Agent,
		PlannerConfig: &cfg.Planner,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	toolInfos, err := registry.ToolInfos(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to collect skill tool schemas")
	}
	if err := models.BindSkills(ctx, toolInfos); err != nil {
		logx.Fatal().Err(err).Msg("Failed to bind skills")
	}

	systemPrompt, err := prompts.RenderSystem(ctx, string(deployment), cfg.Prompt)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to render system prompt")
	}

	executor := turn.NewExecutor(models.Agent, registry, systemPrompt, turn.Config{
		MaxRounds:    cfg.Conversation.Tools.MaxRounds,
		ModelTimeout: modelTimeout,
		ToolTimeout:  toolTimeout,
	})

	var pl *planner.Planner
	if models.Planner != nil {
		pl = planner.New(models.Planner, registry.PlanCatalog(), plannerTimeout)
	}

	svc := agent.NewService(conversationRepo, executor, pl, registry, chartStore, time.Now)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(svc, cfg.Server.AllowedOrigins, time.Now).Handler(),
	}

	go func() {
		logx.Info().Str("addr", cfg.Server.Addr).Str("deployment", string(deployment)).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logx.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Shutdown failed")
	}
}

func mustDuration(name, raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		logx.Fatal().Err(err).Str("value", raw).Msgf("Invalid %s", name)
	}
	return d
}
