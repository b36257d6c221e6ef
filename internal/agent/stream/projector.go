// Package stream projects executor steps onto the client-facing event
// vocabulary consumed over SSE.
package stream

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/model"
	"github.com/opsdesk-poc/server/internal/agent/skills"
	"github.com/opsdesk-poc/server/internal/agent/turn"
	errx "github.com/opsdesk-poc/server/internal/core/error"
)

// Emitter delivers one client event. Delivery order follows call order.
type Emitter func(model.Event)

// Projector translates executor steps into client events. One projector
// serves one turn; Done must be the last call.
type Projector struct {
	registry *skills.Registry
	charts   *charts.Store
	now      func() time.Time
	emit     Emitter
}

func NewProjector(registry *skills.Registry, chartStore *charts.Store, now func() time.Time, emit Emitter) *Projector {
	if now == nil {
		now = time.Now
	}
	return &Projector{registry: registry, charts: chartStore, now: now, emit: emit}
}

func (p *Projector) event(t model.EventType, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["timestamp"] = p.now().UTC().Format(time.RFC3339)
	p.emit(model.Event{Type: t, Data: data})
}

// Thinking announces that the turn has started.
func (p *Projector) Thinking() {
	p.event(model.EventAgentThinking, map[string]any{"message": "Analyzing your request..."})
}

// Plan publishes a non-empty plan preview. Empty plans are suppressed.
func (p *Projector) Plan(steps []model.PlanStep) {
	if len(steps) == 0 {
		return
	}
	out := make([]map[string]any, 0, len(steps))
	for _, s := range steps {
		out = append(out, map[string]any{"skill": s.Skill, "reason": s.Reason})
	}
	p.event(model.EventPlan, map[string]any{"steps": out})
}

// Step consumes one executor step.
func (p *Projector) Step(s turn.Step) {
	switch s.Kind {
	case turn.StepToken:
		p.event(model.EventMessage, map[string]any{"content": s.Token})
	case turn.StepToolStart:
		display, icon := p.registry.Describe(s.Skill)
		p.event(model.EventSkillStart, map[string]any{
			"skill":        s.Skill,
			"display_name": display,
			"icon":         icon,
			"input":        s.Arguments,
		})
	case turn.StepToolEnd:
		p.toolEnd(s)
	case turn.StepTurnEnd:
		// The final answer already streamed as message events; done is
		// emitted by the caller once persistence settles.
	}
}

func (p *Projector) toolEnd(s turn.Step) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(s.Result), &parsed); err != nil || parsed == nil {
		parsed = map[string]any{"result": s.Result}
	}

	// A result referencing a pending chart hands the artifact to the client
	// before the result itself; Take makes redelivery impossible.
	if p.charts != nil {
		if id, ok := parsed[skills.ChartKeyField].(string); ok && id != "" {
			if art, found := p.charts.Take(id); found {
				p.event(model.EventChart, map[string]any{
					"chart_id":     id,
					"chart_type":   art.ChartType,
					"image_base64": art.ImageB64,
				})
			}
		}
	}

	display, icon := p.registry.Describe(s.Skill)
	p.event(model.EventSkillResult, map[string]any{
		"skill":        s.Skill,
		"display_name": display,
		"icon":         icon,
		"result":       parsed,
	})
}

// Error publishes the turn's failure with its safe message.
func (p *Projector) Error(err error) {
	msg := errx.SystemErrorMessage
	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	}
	p.event(model.EventError, map[string]any{"message": msg})
}

// Done closes the event stream vocabulary; always the last event.
func (p *Projector) Done() {
	p.event(model.EventDone, nil)
}
