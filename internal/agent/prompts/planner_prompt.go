package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/model"
)

//go:embed template/planner_system.txt
var plannerSystemPrompt string

// RenderPlannerSystem renders the planner system prompt with the skill
// catalog inlined.
func RenderPlannerSystem(ctx context.Context, skills []model.SkillInfo) (string, error) {
	var b strings.Builder
	for _, s := range skills {
		fmt.Fprintf(&b, "- %s: %s\n", s.Name, s.Description)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(plannerSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Skills": strings.TrimRight(b.String(), "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("planner prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("planner prompt render: empty result")
	}
	return msgs[0].Content, nil
}
