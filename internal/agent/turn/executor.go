// Package turn drives the model/tool loop for a single agent turn and
// reports progress as a closed set of step variants.
package turn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/skills"
	errx "github.com/opsdesk-poc/server/internal/core/error"
	logx "github.com/opsdesk-poc/server/pkg/logger"
)

// PlanArtifactKey marks transient planner messages that must never survive
// in a transcript.
const PlanArtifactKey = "plan_artifact"

// StepKind discriminates the Step variants.
type StepKind string

const (
	StepToken     StepKind = "token"
	StepToolStart StepKind = "tool_start"
	StepToolEnd   StepKind = "tool_end"
	StepTurnEnd   StepKind = "turn_end"
)

// Step is one unit of executor progress. The fields that are meaningful
// depend on Kind; everything else is zero.
type Step struct {
	Kind StepKind

	// StepToken
	Token string

	// StepToolStart / StepToolEnd
	CallID    string
	Skill     string
	Arguments string
	Result    string

	// StepTurnEnd
	Answer   string
	Messages []*schema.Message
}

// Sink receives executor steps in emission order.
type Sink func(Step)

// Config bounds a single executor run.
type Config struct {
	MaxRounds    int
	ModelTimeout time.Duration
	ToolTimeout  time.Duration
}

// Executor runs the AWAIT_MODEL / RUN_TOOLS cycle until the model answers
// without tool calls or a bound is hit.
type Executor struct {
	model    model.BaseChatModel
	registry *skills.Registry
	preamble string
	cfg      Config
}

func NewExecutor(m model.BaseChatModel, registry *skills.Registry, preamble string, cfg Config) *Executor {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 8
	}
	return &Executor{model: m, registry: registry, preamble: preamble, cfg: cfg}
}

// Run executes one turn over the given transcript. On success the returned
// transcript is the input plus this turn's assistant and tool messages, with
// the preamble ensured at the head. On error the transcript is not usable
// and the caller must not persist it.
func (e *Executor) Run(ctx context.Context, history []*schema.Message, emit Sink) ([]*schema.Message, error) {
	msgs := e.EnsurePreamble(history)
	callSeq := 0

	for round := 0; round < e.cfg.MaxRounds; round++ {
		full, err := e.streamRound(ctx, msgs, emit)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, full)

		if len(full.ToolCalls) == 0 {
			emit(Step{Kind: StepTurnEnd, Answer: full.Content, Messages: msgs})
			return msgs, nil
		}

		// Tool calls in one batch run sequentially; results append in
		// issuance order with matching call ids.
		for _, tc := range full.ToolCalls {
			id := tc.ID
			if id == "" {
				callSeq++
				id = fmt.Sprintf("call_%d", callSeq)
			}
			name := tc.Function.Name
			args := tc.Function.Arguments
			emit(Step{Kind: StepToolStart, CallID: id, Skill: name, Arguments: args})

			tctx := ctx
			cancel := context.CancelFunc(func() {})
			if e.cfg.ToolTimeout > 0 {
				tctx, cancel = context.WithTimeout(ctx, e.cfg.ToolTimeout)
			}
			result := e.registry.Invoke(tctx, name, args)
			cancel()
			if ctx.Err() != nil {
				return nil, errx.New(ctx.Err(), http.StatusInternalServerError, errx.SystemErrorMessage)
			}

			emit(Step{Kind: StepToolEnd, CallID: id, Skill: name, Result: result})
			msgs = append(msgs, schema.ToolMessage(result, id, schema.WithToolName(name)))
		}
	}

	err := fmt.Errorf("agent loop exceeded %d tool rounds", e.cfg.MaxRounds)
	logx.Error().Err(err).Msg("Aborting turn")
	return nil, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
}

// streamRound runs one model call, emitting token steps for visible content
// chunks and returning the concatenated message.
func (e *Executor) streamRound(ctx context.Context, msgs []*schema.Message, emit Sink) (*schema.Message, error) {
	if e.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.ModelTimeout)
		defer cancel()
	}

	reader, err := e.model.Stream(ctx, msgs)
	if err != nil {
		logx.Error().Err(err).Msg("Model stream failed")
		return nil, errx.New(err, http.StatusBadGateway, errx.ModelErrorMessage)
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, rerr := reader.Recv()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			logx.Error().Err(rerr).Msg("Model stream receive failed")
			return nil, errx.New(rerr, http.StatusBadGateway, errx.ModelErrorMessage)
		}
		chunks = append(chunks, chunk)
		// Tool-call fragments carry arguments in Content on some providers;
		// only visible answer text reaches the client.
		if chunk.Content != "" && len(chunk.ToolCalls) == 0 {
			emit(Step{Kind: StepToken, Token: chunk.Content})
		}
	}
	if len(chunks) == 0 {
		return nil, errx.New(fmt.Errorf("model returned an empty stream"), http.StatusBadGateway, errx.ModelErrorMessage)
	}

	full, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, errx.New(err, http.StatusInternalServerError, errx.ModelErrorMessage)
	}
	return full, nil
}

// EnsurePreamble returns a transcript whose head is exactly one system
// preamble. Any existing system messages and plan artifacts are stripped
// first, so running it over its own output changes nothing.
func (e *Executor) EnsurePreamble(history []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history)+1)
	out = append(out, schema.SystemMessage(e.preamble))
	for _, m := range history {
		if m == nil || m.Role == schema.System {
			continue
		}
		if m.Extra != nil {
			if flagged, ok := m.Extra[PlanArtifactKey].(bool); ok && flagged {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
