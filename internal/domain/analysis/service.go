package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	apperrors "github.com/yanqian/weatherwise/pkg/errors"
	"github.com/yanqian/weatherwise/pkg/metrics"
	"github.com/yanqian/weatherwise/pkg/util"
)

// Service exposes the dashboard's analysis capabilities.
type Service interface {
	Analyze(ctx context.Context, req Request) (Response, error)
	Advise(ctx context.Context, req AdviseRequest) (AdviseResponse, error)
	Elaborate(ctx context.Context, req ElaborateRequest) (advisor.Elaboration, error)
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Describe derives advisories for metrics that were synthesized elsewhere.
	Describe(ctx context.Context, loc weather.Location, date time.Time, profile weather.Profile, m weather.Metrics) Response
}

// Synthesizer produces metrics for a location, date and profile.
type Synthesizer interface {
	Synthesize(loc weather.Location, date time.Time, profile weather.Profile) weather.Metrics
}

// ChatResponder answers free text chat messages.
type ChatResponder interface {
	Reply(in advisor.ChatInput) advisor.Reply
}

type service struct {
	synth     Synthesizer
	responder ChatResponder
	clock     clockwork.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService wires up the analysis domain.
func NewService(synth Synthesizer, responder ChatResponder, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) Service {
	if m == nil {
		m = metrics.NewForTesting()
	}
	return &service{
		synth:     synth,
		responder: responder,
		clock:     clock,
		metrics:   m,
		logger:    logger.With("component", "analysis.service"),
	}
}

func (s *service) Analyze(_ context.Context, req Request) (Response, error) {
	profile := weather.ParseProfile(req.Profile)
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return Response{}, err
	}
	if req.Location == nil || date == nil {
		return Response{Profile: profile, Suggestions: []advisor.Item{}, Insights: advisor.EmptyDetailed()}, nil
	}

	m := s.synth.Synthesize(*req.Location, *date, profile)
	s.metrics.Analyses.WithLabelValues(profileLabel(profile)).Inc()
	resp := s.describe(*req.Location, *date, profile, m)
	s.logger.Info("analysis computed",
		"location", req.Location.Label,
		"date", resp.Date,
		"profile", profileLabel(profile),
		"comfort", m.Comfort,
		"suggestions", len(resp.Suggestions),
	)
	return resp, nil
}

func (s *service) Describe(_ context.Context, loc weather.Location, date time.Time, profile weather.Profile, m weather.Metrics) Response {
	return s.describe(loc, date, profile, m)
}

func (s *service) describe(loc weather.Location, date time.Time, profile weather.Profile, m weather.Metrics) Response {
	advCtx := advisor.NewContext(util.CalendarDay(date), util.CalendarDay(s.clock.Now()))
	suggestions := advisor.Suggestions(&m, profile, advCtx)
	if suggestions == nil {
		suggestions = []advisor.Item{}
	}
	s.countAdvisories(suggestions)

	return Response{
		Ready:       true,
		Location:    &loc,
		Date:        date.Format(util.DateLayout),
		Season:      weather.Season(int(date.Month()) - 1),
		Profile:     profile,
		Metrics:     &m,
		RiskLabel:   weather.RiskLabel(m.Comfort),
		Context:     advCtx,
		Suggestions: suggestions,
		Insights:    advisor.Insights(&m, profile),
	}
}

func (s *service) Advise(_ context.Context, req AdviseRequest) (AdviseResponse, error) {
	profile := weather.ParseProfile(req.Profile)
	switch req.Variant {
	case VariantDetailed:
		detailed := advisor.Insights(req.Metrics, profile)
		s.countAdvisories(detailed.Warnings)
		s.countAdvisories(detailed.Recommendations)
		s.countAdvisories(detailed.Insights)
		return AdviseResponse{Variant: VariantDetailed, Insights: &detailed}, nil
	case VariantSuggestions, "":
		items := advisor.Suggestions(req.Metrics, profile, req.Context)
		if items == nil {
			items = []advisor.Item{}
		}
		s.countAdvisories(items)
		return AdviseResponse{Variant: VariantSuggestions, Suggestions: items}, nil
	default:
		return AdviseResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "variant must be suggestions or detailed", nil)
	}
}

func (s *service) Elaborate(_ context.Context, req ElaborateRequest) (advisor.Elaboration, error) {
	in, err := elaborationInput(req.Metrics, req.Location, req.Date)
	if err != nil {
		return advisor.Elaboration{}, err
	}
	out := advisor.Elaborate(req.Subject, in)
	s.metrics.Elaborations.WithLabelValues(out.Topic).Inc()
	s.logger.Debug("elaboration rendered", "topic", out.Topic)
	return out, nil
}

func (s *service) Chat(_ context.Context, req ChatRequest) (ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return ChatResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}
	in, err := elaborationInput(req.Metrics, req.Location, req.Date)
	if err != nil {
		return ChatResponse{}, err
	}
	profile := weather.ParseProfile(req.Profile)
	reply := s.responder.Reply(advisor.ChatInput{Message: req.Message, Profile: profile, ElaborationInput: in})
	if isElaborationTopic(reply.Topic) {
		s.metrics.Elaborations.WithLabelValues(reply.Topic).Inc()
	}

	place := ""
	if req.Location != nil {
		place = req.Location.Label
	}
	hasContext := in.Metrics != nil && in.Location != nil
	return ChatResponse{
		Reply:            reply,
		SuggestedQueries: advisor.SuggestedQueries(profile, place, hasContext),
	}, nil
}

func (s *service) countAdvisories(items []advisor.Item) {
	for _, item := range items {
		s.metrics.AdvisoriesEmitted.WithLabelValues(string(item.Category), string(item.Priority)).Inc()
	}
}

func elaborationInput(m *weather.Metrics, loc *weather.Location, rawDate string) (advisor.ElaborationInput, error) {
	date, err := parseOptionalDate(rawDate)
	if err != nil {
		return advisor.ElaborationInput{}, err
	}
	return advisor.ElaborationInput{Metrics: m, Location: loc, Date: date}, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	date, err := util.ParseDate(trimmed)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}
	return &date, nil
}

func isElaborationTopic(topic string) bool {
	switch topic {
	case advisor.TopicProfile, advisor.TopicKeyword, advisor.TopicGeneral:
		return false
	}
	return true
}

func profileLabel(p weather.Profile) string {
	if p == weather.ProfileNone {
		return "none"
	}
	return string(p)
}
