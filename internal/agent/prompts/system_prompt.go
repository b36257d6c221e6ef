package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/model"
)

//go:embed template/support_system.txt
var supportSystemPrompt string

//go:embed template/manufacturing_system.txt
var manufacturingSystemPrompt string

// RenderSystem renders the deployment's system prompt via the Eino prompt
// component so prompt callbacks fire.
func RenderSystem(ctx context.Context, deployment string, cfg model.PromptConfig) (string, error) {
	var raw string
	switch deployment {
	case "manufacturing":
		raw = manufacturingSystemPrompt
	default:
		raw = supportSystemPrompt
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(raw),
	)
	vars := map[string]any{
		"BusinessType": cfg.BusinessType,
		"BusinessName": cfg.BusinessName,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
