package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/weatherwise/internal/domain/weather"
	apperrors "github.com/yanqian/weatherwise/pkg/errors"
	"github.com/yanqian/weatherwise/pkg/metrics"
)

const callbackTimeout = 5 * time.Second

// Service manages dashboard sessions and their simulated analysis loads.
type Service interface {
	Create(ctx context.Context) (State, error)
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, upd Update) (State, error)
	Delete(ctx context.Context, id string) error
}

// Synthesizer produces metrics for a location, date and profile.
type Synthesizer interface {
	Synthesize(loc weather.Location, date time.Time, profile weather.Profile) weather.Metrics
}

type service struct {
	cfg     Config
	store   Store
	synth   Synthesizer
	clock   clockwork.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

// load captures the inputs of one trigger; it never reads the session again.
type load struct {
	id       string
	location weather.Location
	date     time.Time
	profile  weather.Profile
	trigger  Trigger
	revision int64
}

// NewService wires up the session domain.
func NewService(cfg Config, store Store, synth Synthesizer, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) Service {
	if m == nil {
		m = metrics.NewForTesting()
	}
	return &service{
		cfg:     cfg,
		store:   store,
		synth:   synth,
		clock:   clock,
		metrics: m,
		logger:  logger.With("component", "session.service"),
	}
}

func (s *service) Create(ctx context.Context) (State, error) {
	state := State{ID: uuid.NewString(), Profile: weather.ProfileNone, UpdatedAt: s.clock.Now()}
	if err := s.store.Save(ctx, state, s.cfg.TTL); err != nil {
		return State{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create session", err)
	}
	s.logger.Info("session created", "session_id", state.ID)
	return state, nil
}

func (s *service) Get(ctx context.Context, id string) (State, error) {
	state, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return State{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load session", err)
	}
	if !ok {
		return State{}, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
	}
	return state, nil
}

func (s *service) Update(ctx context.Context, id string, upd Update) (State, error) {
	s.mu.Lock()
	state, err := s.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return State{}, err
	}

	if upd.Location != nil {
		loc := *upd.Location
		state.Location = &loc
	}
	if upd.Date != nil {
		date := *upd.Date
		state.Date = &date
	}
	if upd.Profile != nil {
		state.Profile = *upd.Profile
	}
	if upd.Trigger != "" {
		state.Trigger = upd.Trigger
	}

	var pending *load
	if state.Ready() {
		state.Loading = true
		state.ShowSuggestions = false
		state.Revision++
		pending = &load{
			id:       state.ID,
			location: *state.Location,
			date:     *state.Date,
			profile:  state.Profile,
			trigger:  state.Trigger,
			revision: state.Revision,
		}
	}
	state.UpdatedAt = s.clock.Now()

	if err := s.store.Save(ctx, state, s.cfg.TTL); err != nil {
		s.mu.Unlock()
		return State{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save session", err)
	}
	s.mu.Unlock()

	if pending != nil {
		s.schedule(*pending)
	}
	return state, nil
}

// Delete holds the same lock as the deferred callbacks so a load that already
// read the session cannot write it back afterwards.
func (s *service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to delete session", err)
	}
	return nil
}

// schedule arms the one-shot callbacks for a trigger. They are never cancelled:
// a later trigger simply overwrites whatever an earlier one wrote.
func (s *service) schedule(l load) {
	s.logger.Debug("analysis load scheduled", "session_id", l.id, "revision", l.revision, "delay", s.cfg.LoadDelay)
	s.clock.AfterFunc(s.cfg.LoadDelay, func() { s.land(l) })
	if l.trigger != TriggerCalendar {
		s.clock.AfterFunc(s.cfg.LoadDelay+s.cfg.SuggestionDelay, func() { s.reveal(l) })
	}
}

func (s *service) land(l load) {
	m := s.synth.Synthesize(l.location, l.date, l.profile)
	s.metrics.SessionRecomputes.Inc()

	s.modify(l, func(state *State) {
		state.Metrics = &m
		state.Loading = false
		state.ShowSuggestions = l.trigger == TriggerCalendar
	})
	s.logger.Info("analysis landed", "session_id", l.id, "revision", l.revision, "comfort", m.Comfort)
}

func (s *service) reveal(l load) {
	s.modify(l, func(state *State) {
		if state.Metrics != nil {
			state.ShowSuggestions = true
		}
	})
}

func (s *service) modify(l load, apply func(state *State)) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok, err := s.store.Get(ctx, l.id)
	if err != nil {
		s.logger.Error("deferred session read failed", "session_id", l.id, "error", err)
		return
	}
	if !ok {
		return
	}
	apply(&state)
	state.UpdatedAt = s.clock.Now()
	if err := s.store.Save(ctx, state, s.cfg.TTL); err != nil {
		s.logger.Error("deferred session write failed", "session_id", l.id, "error", err)
	}
}
