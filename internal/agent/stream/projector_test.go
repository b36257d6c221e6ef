package stream

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/model"
	"github.com/opsdesk-poc/server/internal/agent/refdata"
	"github.com/opsdesk-poc/server/internal/agent/skills"
	"github.com/opsdesk-poc/server/internal/agent/turn"
	errx "github.com/opsdesk-poc/server/internal/core/error"
)

func newTestProjector(t *testing.T, store *charts.Store) (*Projector, *[]model.Event) {
	t.Helper()
	data := refdata.NewStore("../../../data")
	registry := skills.NewManufacturingRegistry(data, store, time.Now)
	var events []model.Event
	p := NewProjector(registry, store, func() time.Time {
		return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	}, func(ev model.Event) { events = append(events, ev) })
	return p, &events
}

func TestProjectorEventOrderAndTimestamps(t *testing.T) {
	p, events := newTestProjector(t, charts.NewStore())

	p.Thinking()
	p.Plan([]model.PlanStep{{Skill: "work_order_lookup", Reason: "check status"}})
	p.Step(turn.Step{Kind: turn.StepToolStart, CallID: "c1", Skill: "work_order_lookup"})
	p.Step(turn.Step{Kind: turn.StepToolEnd, CallID: "c1", Skill: "work_order_lookup", Result: `{"found":true}`})
	p.Step(turn.Step{Kind: turn.StepToken, Token: "WO-2401 is "})
	p.Step(turn.Step{Kind: turn.StepToken, Token: "in progress."})
	p.Step(turn.Step{Kind: turn.StepTurnEnd, Answer: "WO-2401 is in progress."})
	p.Done()

	want := []model.EventType{
		model.EventAgentThinking,
		model.EventPlan,
		model.EventSkillStart,
		model.EventSkillResult,
		model.EventMessage,
		model.EventMessage,
		model.EventDone,
	}
	if len(*events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(*events), len(want), *events)
	}
	for i, ev := range *events {
		if ev.Type != want[i] {
			t.Errorf("event %d = %s, want %s", i, ev.Type, want[i])
		}
		if ev.Data["timestamp"] != "2025-08-20T12:00:00Z" {
			t.Errorf("event %d timestamp = %v", i, ev.Data["timestamp"])
		}
	}
}

func TestProjectorSuppressesEmptyPlan(t *testing.T) {
	p, events := newTestProjector(t, charts.NewStore())
	p.Plan(nil)
	if len(*events) != 0 {
		t.Fatalf("empty plan must emit nothing, got %v", *events)
	}
}

func TestProjectorSkillStartCarriesDisplayMetadata(t *testing.T) {
	p, events := newTestProjector(t, charts.NewStore())
	p.Step(turn.Step{Kind: turn.StepToolStart, CallID: "c1", Skill: "generate_chart",
		Arguments: `{"chart_type":"defect_analysis"}`})

	ev := (*events)[0]
	if ev.Data["skill"] != "generate_chart" {
		t.Errorf("skill = %v", ev.Data["skill"])
	}
	if ev.Data["display_name"] != "Chart Generator" || ev.Data["icon"] != "📊" {
		t.Errorf("display metadata = %v / %v", ev.Data["display_name"], ev.Data["icon"])
	}
	if ev.Data["input"] != `{"chart_type":"defect_analysis"}` {
		t.Errorf("input = %v, want the raw argument string", ev.Data["input"])
	}
}

func TestProjectorSkillResultCarriesDisplayMetadata(t *testing.T) {
	p, events := newTestProjector(t, charts.NewStore())
	p.Step(turn.Step{Kind: turn.StepToolEnd, CallID: "c1", Skill: "work_order_lookup",
		Result: `{"found":true}`})

	ev := (*events)[0]
	if ev.Data["display_name"] != "Work Order Lookup" || ev.Data["icon"] != "🏭" {
		t.Errorf("display metadata = %v / %v", ev.Data["display_name"], ev.Data["icon"])
	}
}

func TestProjectorChartEventPrecedesSkillResult(t *testing.T) {
	store := charts.NewStore()
	p, events := newTestProjector(t, store)

	id := store.Put(charts.Artifact{ChartType: "equipment_utilization", ImageB64: "cG5n"})
	p.Step(turn.Step{
		Kind:   turn.StepToolEnd,
		CallID: "c1",
		Skill:  "generate_chart",
		Result: `{"chart_generated":true,"chart_id":"` + id + `","chart_type":"equipment_utilization"}`,
	})

	if len(*events) != 2 {
		t.Fatalf("got %d events, want chart then skill_result: %v", len(*events), *events)
	}
	if (*events)[0].Type != model.EventChart {
		t.Fatalf("first event = %s, want chart", (*events)[0].Type)
	}
	if (*events)[0].Data["image_base64"] != "cG5n" {
		t.Errorf("chart payload = %v", (*events)[0].Data)
	}
	if (*events)[1].Type != model.EventSkillResult {
		t.Errorf("second event = %s, want skill_result", (*events)[1].Type)
	}
	if store.Len() != 0 {
		t.Errorf("artifact must be consumed on delivery")
	}

	// Replaying the same result cannot re-deliver the chart.
	*events = nil
	p.Step(turn.Step{Kind: turn.StepToolEnd, CallID: "c1", Skill: "generate_chart",
		Result: `{"chart_id":"` + id + `"}`})
	if len(*events) != 1 || (*events)[0].Type != model.EventSkillResult {
		t.Errorf("consumed chart re-delivered: %v", *events)
	}
}

func TestProjectorNonJSONResultIsWrapped(t *testing.T) {
	p, events := newTestProjector(t, charts.NewStore())
	p.Step(turn.Step{Kind: turn.StepToolEnd, CallID: "c1", Skill: "faq_search", Result: "plain text"})

	res, ok := (*events)[0].Data["result"].(map[string]any)
	if !ok {
		t.Fatalf("result = %v, want wrapped map", (*events)[0].Data["result"])
	}
	if res["result"] != "plain text" {
		t.Errorf("wrapped result = %v", res)
	}
}

func TestProjectorErrorUsesSafeMessage(t *testing.T) {
	p, events := newTestProjector(t, charts.NewStore())

	p.Error(errx.New(errors.New("dial tcp: connection refused"), http.StatusBadGateway, errx.ModelErrorMessage))
	if (*events)[0].Data["message"] != errx.ModelErrorMessage {
		t.Errorf("message = %v, want %q", (*events)[0].Data["message"], errx.ModelErrorMessage)
	}

	*events = nil
	p.Error(errors.New("raw internal detail"))
	if (*events)[0].Data["message"] != errx.SystemErrorMessage {
		t.Errorf("plain errors must fall back to the generic message, got %v", (*events)[0].Data["message"])
	}
}
