package turn

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
	"github.com/opsdesk-poc/server/internal/agent/skills"
)

// fakeModel replays scripted chunk sequences, one per model round.
type fakeModel struct {
	rounds [][]*schema.Message
	err    error
	calls  int
	inputs [][]*schema.Message
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	reader, err := f.Stream(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	var chunks []*schema.Message
	for {
		chunk, rerr := reader.Recv()
		if rerr != nil {
			break
		}
		chunks = append(chunks, chunk)
	}
	return schema.ConcatMessages(chunks)
}

func (f *fakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	if f.calls >= len(f.rounds) {
		return nil, errors.New("no scripted response left")
	}
	chunks := f.rounds[f.calls]
	f.calls++
	return schema.StreamReaderFromArray(chunks), nil
}

func toolCallChunk(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}},
		},
	}
}

func textChunk(s string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: s}
}

func supportRegistry(t *testing.T) *skills.Registry {
	t.Helper()
	data := refdata.NewStore("../../../data")
	return skills.NewSupportRegistry(data, time.Now)
}

func collect(t *testing.T, e *Executor, history []*schema.Message) ([]Step, []*schema.Message, error) {
	t.Helper()
	var steps []Step
	final, err := e.Run(context.Background(), history, func(s Step) { steps = append(steps, s) })
	return steps, final, err
}

func TestRunToolRoundThenAnswer(t *testing.T) {
	fm := &fakeModel{rounds: [][]*schema.Message{
		{toolCallChunk("call_abc", "order_lookup", `{"query":"ORD-1001"}`)},
		{textChunk("Your order "), textChunk("was delivered.")},
	}}
	e := NewExecutor(fm, supportRegistry(t), "You are a support agent.", Config{MaxRounds: 4})

	history := []*schema.Message{schema.UserMessage("Where is ORD-1001?")}
	steps, final, err := collect(t, e, history)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	kinds := make([]StepKind, 0, len(steps))
	for _, s := range steps {
		kinds = append(kinds, s.Kind)
	}
	want := []StepKind{StepToolStart, StepToolEnd, StepToken, StepToken, StepTurnEnd}
	if len(kinds) != len(want) {
		t.Fatalf("steps = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("step %d = %s, want %s", i, kinds[i], want[i])
		}
	}

	if steps[0].Skill != "order_lookup" || steps[0].CallID != "call_abc" {
		t.Errorf("tool start step = %+v", steps[0])
	}
	if !strings.Contains(steps[1].Result, `"found":true`) {
		t.Errorf("tool end result should carry the lookup payload, got %q", steps[1].Result)
	}
	if steps[4].Answer != "Your order was delivered." {
		t.Errorf("answer = %q", steps[4].Answer)
	}

	// preamble + user + assistant(tool call) + tool result + assistant answer
	if len(final) != 5 {
		t.Fatalf("final transcript has %d messages, want 5", len(final))
	}
	if final[0].Role != schema.System || final[0].Content != "You are a support agent." {
		t.Errorf("transcript head = %+v, want the system preamble", final[0])
	}
	if final[3].Role != schema.Tool || final[3].ToolCallID != "call_abc" {
		t.Errorf("tool result message = %+v", final[3])
	}
}

func TestRunSynthesizesMissingToolCallIDs(t *testing.T) {
	fm := &fakeModel{rounds: [][]*schema.Message{
		{toolCallChunk("", "order_lookup", `{"query":"ORD-1001"}`)},
		{textChunk("done")},
	}}
	e := NewExecutor(fm, supportRegistry(t), "p", Config{MaxRounds: 4})

	steps, final, err := collect(t, e, []*schema.Message{schema.UserMessage("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if steps[0].CallID != "call_1" {
		t.Errorf("CallID = %q, want call_1", steps[0].CallID)
	}
	var toolMsg *schema.Message
	for _, m := range final {
		if m.Role == schema.Tool {
			toolMsg = m
		}
	}
	if toolMsg == nil || toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool message should carry synthesized id call_1, got %+v", toolMsg)
	}
}

func TestRunToolResultsAppendInIssuanceOrder(t *testing.T) {
	batch := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: "c1", Function: schema.FunctionCall{Name: "order_lookup", Arguments: `{"query":"ORD-1001"}`}},
			{ID: "c2", Function: schema.FunctionCall{Name: "analyze_sentiment", Arguments: `{"message":"thanks"}`}},
		},
	}
	fm := &fakeModel{rounds: [][]*schema.Message{
		{batch},
		{textChunk("ok")},
	}}
	e := NewExecutor(fm, supportRegistry(t), "p", Config{MaxRounds: 4})

	_, final, err := collect(t, e, []*schema.Message{schema.UserMessage("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var ids []string
	for _, m := range final {
		if m.Role == schema.Tool {
			ids = append(ids, m.ToolCallID)
		}
	}
	if len(ids) != 2 || ids[0] != "c1" || ids[1] != "c2" {
		t.Errorf("tool result order = %v, want [c1 c2]", ids)
	}
}

func TestRunRoundCapAbortsTurn(t *testing.T) {
	loop := toolCallChunk("c", "order_lookup", `{"query":"ORD-1001"}`)
	fm := &fakeModel{rounds: [][]*schema.Message{{loop}, {loop}, {loop}}}
	e := NewExecutor(fm, supportRegistry(t), "p", Config{MaxRounds: 2})

	steps, final, err := collect(t, e, []*schema.Message{schema.UserMessage("hi")})
	if err == nil {
		t.Fatal("expected round cap error")
	}
	if final != nil {
		t.Errorf("failed turn must not return a transcript")
	}
	for _, s := range steps {
		if s.Kind == StepTurnEnd {
			t.Errorf("no turn_end step after an aborted turn")
		}
	}
}

func TestRunModelErrorAbortsTurn(t *testing.T) {
	fm := &fakeModel{err: errors.New("quota exceeded")}
	e := NewExecutor(fm, supportRegistry(t), "p", Config{MaxRounds: 2})

	steps, _, err := collect(t, e, []*schema.Message{schema.UserMessage("hi")})
	if err == nil {
		t.Fatal("expected model error")
	}
	if len(steps) != 0 {
		t.Errorf("no steps expected before the first chunk, got %v", steps)
	}
}

func TestEnsurePreambleIsIdempotent(t *testing.T) {
	e := NewExecutor(nil, nil, "the preamble", Config{})

	planMsg := schema.SystemMessage("stale plan")
	planMsg.Extra = map[string]any{PlanArtifactKey: true}
	annotated := schema.AssistantMessage("with extra", nil)
	annotated.Extra = map[string]any{PlanArtifactKey: true}

	history := []*schema.Message{
		planMsg,
		schema.SystemMessage("old preamble"),
		schema.UserMessage("hello"),
		annotated,
		schema.AssistantMessage("hi there", nil),
	}

	once := e.EnsurePreamble(history)
	twice := e.EnsurePreamble(once)

	if len(once) != 3 {
		t.Fatalf("got %d messages, want 3 (preamble, user, assistant)", len(once))
	}
	if once[0].Role != schema.System || once[0].Content != "the preamble" {
		t.Errorf("head = %+v, want fresh preamble", once[0])
	}
	systems := 0
	for _, m := range twice {
		if m.Role == schema.System {
			systems++
		}
	}
	if systems != 1 {
		t.Errorf("%d system messages after double ensure, want 1", systems)
	}
	if len(twice) != len(once) {
		t.Errorf("second ensure changed length: %d vs %d", len(twice), len(once))
	}
}
