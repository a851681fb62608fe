package analysis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	apperrors "github.com/yanqian/weatherwise/pkg/errors"
	"github.com/yanqian/weatherwise/pkg/metrics"
)

type stubSynth struct {
	synthesizeFn func(loc weather.Location, date time.Time, profile weather.Profile) weather.Metrics
	calls        int
}

func (s *stubSynth) Synthesize(loc weather.Location, date time.Time, profile weather.Profile) weather.Metrics {
	s.calls++
	if s.synthesizeFn != nil {
		return s.synthesizeFn(loc, date, profile)
	}
	return weather.Metrics{}
}

type stubResponder struct {
	replyFn func(in advisor.ChatInput) advisor.Reply
}

func (s *stubResponder) Reply(in advisor.ChatInput) advisor.Reply {
	if s.replyFn != nil {
		return s.replyFn(in)
	}
	return advisor.Reply{Topic: advisor.TopicGeneral, Text: "hi"}
}

func newTestService(t *testing.T, synth Synthesizer, responder ChatResponder) (Service, *metrics.Metrics) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	m := metrics.NewForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(synth, responder, clock, m, logger), m
}

func TestAnalyzeWithoutContextIsEmpty(t *testing.T) {
	synth := &stubSynth{}
	svc, _ := newTestService(t, synth, &stubResponder{})

	resp, err := svc.Analyze(context.Background(), Request{Date: "2025-06-10", Profile: "farmer"})

	require.NoError(t, err)
	require.False(t, resp.Ready)
	require.Nil(t, resp.Metrics)
	require.Empty(t, resp.Suggestions)
	require.Equal(t, weather.ProfileFarmer, resp.Profile)
	require.Empty(t, resp.RiskLabel)
	require.Zero(t, synth.calls)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var shape map[string]any
	require.NoError(t, json.Unmarshal(raw, &shape))
	require.Equal(t, []any{}, shape["suggestions"])
	require.Equal(t, map[string]any{
		"warnings":        []any{},
		"recommendations": []any{},
		"insights":        []any{},
		"keyMetrics":      []any{},
	}, shape["insights"])
}

func TestAnalyzeFarmerInRain(t *testing.T) {
	synth := &stubSynth{synthesizeFn: func(loc weather.Location, date time.Time, profile weather.Profile) weather.Metrics {
		require.Equal(t, "Lyon", loc.Label)
		require.Equal(t, time.June, date.Month())
		require.Equal(t, weather.ProfileFarmer, profile)
		return weather.Metrics{Heat: 30, Wet: 85, Windy: 20, Cold: 10, Comfort: 55}
	}}
	svc, m := newTestService(t, synth, &stubResponder{})

	resp, err := svc.Analyze(context.Background(), Request{
		Location: &weather.Location{Lat: 45.76, Lng: 4.83, Label: "Lyon"},
		Date:     "2025-06-10",
		Profile:  "Farmer",
	})

	require.NoError(t, err)
	require.True(t, resp.Ready)
	require.Equal(t, "Summer", resp.Season)
	require.Equal(t, "Moderate Risk", resp.RiskLabel)
	require.Equal(t, advisor.Context{IsToday: true}, resp.Context)
	require.Equal(t, "Take an umbrella before going out", resp.Suggestions[0].Title)
	require.Equal(t, "delay-irrigation", resp.Suggestions[1].ID)
	require.Len(t, resp.Insights.Warnings, 1)
	require.Equal(t, "farmer-flood", resp.Insights.Warnings[0].ID)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues("farmer")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AdvisoriesEmitted.WithLabelValues("opportunity", "high")))
}

func TestAnalyzeRejectsMalformedDate(t *testing.T) {
	svc, _ := newTestService(t, &stubSynth{}, &stubResponder{})

	_, err := svc.Analyze(context.Background(), Request{
		Location: &weather.Location{Label: "Lyon"},
		Date:     "10/06/2025",
	})

	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAdviseVariants(t *testing.T) {
	svc, _ := newTestService(t, &stubSynth{}, &stubResponder{})
	m := &weather.Metrics{Heat: 80, Wet: 20, Windy: 10, Cold: 5, Comfort: 30}

	compact, err := svc.Advise(context.Background(), AdviseRequest{Metrics: m, Profile: "family"})
	require.NoError(t, err)
	require.Equal(t, VariantSuggestions, compact.Variant)
	require.Equal(t, "sunscreen", compact.Suggestions[0].ID)
	require.Equal(t, "heat-safety", compact.Suggestions[1].ID)

	detailed, err := svc.Advise(context.Background(), AdviseRequest{Metrics: m, Profile: "family", Variant: VariantDetailed})
	require.NoError(t, err)
	require.NotNil(t, detailed.Insights)
	require.Len(t, detailed.Insights.Warnings, 2)

	empty, err := svc.Advise(context.Background(), AdviseRequest{Profile: "family"})
	require.NoError(t, err)
	require.Empty(t, empty.Suggestions)

	_, err = svc.Advise(context.Background(), AdviseRequest{Metrics: m, Variant: "fancy"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestElaborateCountsTopic(t *testing.T) {
	svc, m := newTestService(t, &stubSynth{}, &stubResponder{})

	out, err := svc.Elaborate(context.Background(), ElaborateRequest{
		Subject:  "Tell me more about: umbrella",
		Metrics:  &weather.Metrics{Wet: 77},
		Location: &weather.Location{Label: "Oslo"},
		Date:     "2025-10-01",
	})

	require.NoError(t, err)
	require.Equal(t, advisor.TopicRain, out.Topic)
	require.Contains(t, out.Text, "77%")
	require.Equal(t, 1.0, testutil.ToFloat64(m.Elaborations.WithLabelValues(advisor.TopicRain)))

	fallback, err := svc.Elaborate(context.Background(), ElaborateRequest{Subject: "umbrella"})
	require.NoError(t, err)
	require.Equal(t, advisor.FallbackMessage, fallback.Text)
}

func TestChat(t *testing.T) {
	responder := &stubResponder{replyFn: func(in advisor.ChatInput) advisor.Reply {
		require.Equal(t, weather.ProfilePlanner, in.Profile)
		require.NotNil(t, in.Date)
		return advisor.Reply{Topic: advisor.TopicProfile, Text: "book a tent"}
	}}
	svc, _ := newTestService(t, &stubSynth{}, responder)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message:  "is my event safe?",
		Profile:  "planner",
		Metrics:  &weather.Metrics{Windy: 70},
		Location: &weather.Location{Label: "Cape Town"},
		Date:     "2025-08-02",
	})

	require.NoError(t, err)
	require.Equal(t, "book a tent", resp.Reply.Text)
	require.Equal(t, advisor.SuggestedQueries(weather.ProfilePlanner, "Cape Town", true), resp.SuggestedQueries)

	_, err = svc.Chat(context.Background(), ChatRequest{Message: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
