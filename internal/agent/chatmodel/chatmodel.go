package chatmodel

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/opsdesk-poc/server/internal/agent/model"
	logx "github.com/opsdesk-poc/server/pkg/logger"
)

// Config holds the configuration for chat model creation.
type Config struct {
	APIKey        string
	BaseURL       string
	AgentConfig   *model.AgentModelConfig
	PlannerConfig *model.PlannerModelConfig
}

// ChatModels holds the agent and planner chat models. Planner is nil when
// the planner stage is disabled.
type ChatModels struct {
	Agent            *gemini.ChatModel
	Planner          *gemini.ChatModel
	AgentModelName   string
	PlannerModelName string
}

// NewChatModels creates the agent chat model, and the planner model when
// enabled, sharing one Gemini client.
func NewChatModels(ctx context.Context, config Config) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	agent, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.AgentConfig.Model,
		Temperature: &config.AgentConfig.Temperature,
		MaxTokens:   &config.AgentConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating agent model")
		return nil, fmt.Errorf("error creating agent model: %w", err)
	}

	cm := &ChatModels{
		Agent:          agent,
		AgentModelName: config.AgentConfig.Model,
	}

	if config.PlannerConfig != nil && config.PlannerConfig.Enabled {
		planner, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       config.PlannerConfig.Model,
			Temperature: &config.PlannerConfig.Temperature,
			MaxTokens:   &config.PlannerConfig.MaxTokens,
		})
		if err != nil {
			logx.Error().Err(err).Msg("Error creating planner model")
			return nil, fmt.Errorf("error creating planner model: %w", err)
		}
		cm.Planner = planner
		cm.PlannerModelName = config.PlannerConfig.Model
	}

	return cm, nil
}

// BindSkills binds the skill tool schemas to the agent model.
func (cm *ChatModels) BindSkills(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Agent.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}
	logx.Debug().Int("tools", len(tools)).Msg("Bound skill tools to agent model")
	return nil
}
