package planner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	agentmodel "github.com/opsdesk-poc/server/internal/agent/model"
	"github.com/opsdesk-poc/server/internal/agent/prompts"
	logx "github.com/opsdesk-poc/server/pkg/logger"
)

// Planner produces a best-effort skill plan preview before the agent loop
// runs. It never blocks a turn: any failure degrades to an empty plan.
type Planner struct {
	model   model.BaseChatModel
	skills  []agentmodel.SkillInfo
	timeout time.Duration
}

func New(m model.BaseChatModel, skills []agentmodel.SkillInfo, timeout time.Duration) *Planner {
	return &Planner{model: m, skills: skills, timeout: timeout}
}

// Plan asks the planner model which skills the agent is likely to use for
// the latest user message. Returns nil on any failure.
func (p *Planner) Plan(ctx context.Context, history []*schema.Message) []agentmodel.PlanStep {
	if p == nil || p.model == nil {
		return nil
	}

	userMsg := latestUserMessage(history)
	if userMsg == "" {
		return nil
	}

	system, err := prompts.RenderPlannerSystem(ctx, p.skills)
	if err != nil {
		logx.Warn().Err(err).Msg("Planner prompt render failed; skipping plan")
		return nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(userMsg),
	})
	if err != nil {
		logx.Warn().Err(err).Msg("Planner model call failed; skipping plan")
		return nil
	}

	steps := ParsePlan(resp.Content)
	if len(steps) == 0 {
		return nil
	}
	return steps
}

// ParsePlan extracts a JSON plan from model output, tolerating fenced code
// blocks and surrounding prose. Unknown or malformed output yields nil.
func ParsePlan(raw string) []agentmodel.PlanStep {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return nil
	}

	var steps []agentmodel.PlanStep
	if err := json.Unmarshal([]byte(s[start:end+1]), &steps); err != nil {
		logx.Debug().Err(err).Msg("Plan output did not parse as JSON")
		return nil
	}

	out := steps[:0]
	for _, st := range steps {
		if strings.TrimSpace(st.Skill) != "" {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func latestUserMessage(history []*schema.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m != nil && m.Role != schema.Assistant && m.Content != "" {
			return m.Content
		}
	}
	return ""
}
