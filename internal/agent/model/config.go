package model

// ================ Config ================

// AgentModelConfig configures the tool-calling agent model.
type AgentModelConfig struct {
	Model       string  `envconfig:"AGENT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"AGENT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"AGENT_TEMPERATURE" default:"0.4"`
	Timeout     string  `envconfig:"AGENT_MODEL_TIMEOUT" default:"60s"`
}

// PlannerModelConfig configures the optional plan-preview model call.
type PlannerModelConfig struct {
	Enabled     bool    `envconfig:"PLANNER_ENABLED" default:"true"`
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.1"`
	Timeout     string  `envconfig:"PLANNER_MODEL_TIMEOUT" default:"20s"`
}

// ConversationConfig bounds a single turn.
type ConversationConfig struct {
	TTL   string `envconfig:"CONVERSATION_TTL" default:"15m"`
	Tools struct {
		MaxRounds int    `envconfig:"CONVERSATION_TOOL_MAX_ROUNDS" default:"8"`
		Timeout   string `envconfig:"CONVERSATION_TOOL_TIMEOUT" default:"10s"`
	}
}

// PromptConfig feeds the system preamble template.
type PromptConfig struct {
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"online electronics retailer"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"TechStore"`
}

// DataConfig selects the skill deployment and its reference data.
type DataConfig struct {
	Dir        string `envconfig:"DATA_DIR" default:"data"`
	Deployment string `envconfig:"DEPLOYMENT" default:"support"`
}

// ServerConfig configures the HTTP shell.
type ServerConfig struct {
	Addr           string `envconfig:"HTTP_ADDR" default:":8000"`
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
