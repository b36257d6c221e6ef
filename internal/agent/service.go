// Package agent wires the planner, turn executor, skill registry and
// conversation store into the per-turn orchestration the HTTP shell calls.
package agent

import (
	"context"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/model"
	"github.com/opsdesk-poc/server/internal/agent/planner"
	"github.com/opsdesk-poc/server/internal/agent/skills"
	"github.com/opsdesk-poc/server/internal/agent/stream"
	"github.com/opsdesk-poc/server/internal/agent/turn"
	logx "github.com/opsdesk-poc/server/pkg/logger"
)

// Service runs agent turns. Turns on the same conversation id are
// serialized; distinct conversations proceed concurrently.
type Service struct {
	repo     model.ConversationRepository
	executor *turn.Executor
	planner  *planner.Planner
	registry *skills.Registry
	charts   *charts.Store
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo model.ConversationRepository, executor *turn.Executor, pl *planner.Planner, registry *skills.Registry, chartStore *charts.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     repo,
		executor: executor,
		planner:  pl,
		registry: registry,
		charts:   chartStore,
		now:      now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Catalog exposes the deployment's skill list for the skills endpoint.
func (s *Service) Catalog() []model.SkillInfo {
	return s.registry.Catalog()
}

func (s *Service) lockFor(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[conversationID] = l
	}
	return l
}

// RunTurn executes one agent turn and emits the full client event stream,
// ending with done exactly once. The store is only written when the turn
// succeeds end to end, so a failed turn leaves the transcript at its
// pre-turn state.
func (s *Service) RunTurn(ctx context.Context, conversationID, message string, emit stream.Emitter) error {
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	p := stream.NewProjector(s.registry, s.charts, s.now, emit)
	defer p.Done()

	p.Thinking()

	history, err := s.repo.LoadHistory(ctx, conversationID)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("Loading history failed")
		p.Error(err)
		return err
	}

	working := make([]*schema.Message, 0, len(history.Messages)+1)
	working = append(working, history.Messages...)
	working = append(working, schema.UserMessage(message))

	if s.planner != nil {
		p.Plan(s.planner.Plan(ctx, working))
	}

	final, err := s.executor.Run(ctx, working, p.Step)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("Turn failed")
		p.Error(err)
		return err
	}

	if err := s.repo.ReplaceHistory(ctx, conversationID, final); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("Persisting transcript failed")
		p.Error(err)
		return err
	}
	return nil
}
