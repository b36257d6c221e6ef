// Package skills defines the fixed per-deployment skill registries the
// agent model may invoke.
package skills

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/model"
	logx "github.com/opsdesk-poc/server/pkg/logger"
)

// Skill pairs an invokable tool with its client-facing display metadata.
type Skill struct {
	Name        string
	DisplayName string
	Description string
	Icon        string
	Tool        tool.InvokableTool
}

// Registry is a fixed, process-lifetime set of skills. Construction happens
// once at startup; the set never changes afterwards.
type Registry struct {
	skills []*Skill
	byName map[string]*Skill
}

func NewRegistry(skills ...*Skill) *Registry {
	r := &Registry{skills: skills, byName: make(map[string]*Skill, len(skills))}
	for _, s := range skills {
		r.byName[s.Name] = s
	}
	return r
}

// Invoke runs the named skill and always returns a result payload. Unknown
// names, skill errors and panics are converted into structured error JSON so
// the agent loop can continue and the model can react in-band.
func (r *Registry) Invoke(ctx context.Context, name, argsJSON string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().Str("skill", name).Msgf("skill panic recovered: %v", rec)
			out = errorPayload(fmt.Sprintf("skill %s panicked", name))
		}
	}()

	sk, ok := r.byName[name]
	if !ok {
		// Hallucinated or malformed tool call; return a compact structured
		// message the model can use to proceed.
		logx.Warn().Str("skill", name).Str("arguments", argsJSON).Msg("Unknown skill requested; returning fallback result")
		b, _ := json.Marshal(map[string]any{"error": "unknown_skill", "name": name, "note": "ignored"})
		return string(b)
	}

	result, err := sk.Tool.InvokableRun(ctx, argsJSON)
	if err != nil {
		logx.Error().Err(err).Str("skill", name).Msg("Skill execution failed")
		return errorPayload(err.Error())
	}
	return result
}

func errorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// ToolInfos returns the catalog in the shape the chat model binds.
func (r *Registry) ToolInfos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.skills))
	for _, s := range r.skills {
		info, err := s.Tool.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info for %s: %w", s.Name, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Catalog enumerates display metadata for all registered skills.
func (r *Registry) Catalog() []model.SkillInfo {
	out := make([]model.SkillInfo, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, model.SkillInfo{Name: s.DisplayName, Description: s.Description, Icon: s.Icon})
	}
	return out
}

// PlanCatalog enumerates skills under their tool names, for prompting the
// planner model (the model calls tools by Name, not DisplayName).
func (r *Registry) PlanCatalog() []model.SkillInfo {
	out := make([]model.SkillInfo, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, model.SkillInfo{Name: s.Name, Description: s.Description, Icon: s.Icon})
	}
	return out
}

// Describe returns display metadata for one skill; unknown names get a
// generic fallback so event payloads never miss their display fields.
func (r *Registry) Describe(name string) (displayName, icon string) {
	if s, ok := r.byName[name]; ok {
		return s.DisplayName, s.Icon
	}
	return name, "🔧"
}
