package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/analysis"
	"github.com/yanqian/weatherwise/internal/domain/calendar"
	"github.com/yanqian/weatherwise/internal/domain/report"
	"github.com/yanqian/weatherwise/internal/domain/session"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/internal/infra/config"
	apperrors "github.com/yanqian/weatherwise/pkg/errors"
	"github.com/yanqian/weatherwise/pkg/metrics"
)

func TestRouter_AnalyzeSuccess(t *testing.T) {
	resp := analysis.Response{
		Ready:       true,
		Date:        "2025-06-10",
		Profile:     weather.ProfileFarmer,
		Metrics:     &weather.Metrics{Heat: 10, Wet: 85, Windy: 20, Cold: 5, Comfort: 60},
		Suggestions: []advisor.Item{{ID: "umbrella", Title: "Carry an umbrella"}},
	}
	svcs := &stubServices{analysis: &stubAnalysis{
		analyzeFn: func(_ context.Context, req analysis.Request) (analysis.Response, error) {
			require.Equal(t, "farmer", req.Profile)
			require.Equal(t, "2025-06-10", req.Date)
			require.InDelta(t, 51.5, req.Location.Lat, 1e-9)
			return resp, nil
		},
	}}

	recorder := performRequest(http.MethodPost, "/api/v1/analyses",
		`{"location":{"lat":51.5,"lng":-0.12,"label":"London"},"date":"2025-06-10","profile":"farmer"}`,
		newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got analysis.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Ready)
	require.Equal(t, 85, got.Metrics.Wet)
	require.Equal(t, "umbrella", got.Suggestions[0].ID)
}

func TestRouter_AnalyzeInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/analyses", `{"date":123}`, newRouterUnderTest(t, &stubServices{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AnalyzeInvalidInput(t *testing.T) {
	svcs := &stubServices{analysis: &stubAnalysis{
		analyzeFn: func(context.Context, analysis.Request) (analysis.Response, error) {
			return analysis.Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", nil)
		},
	}}

	recorder := performRequest(http.MethodPost, "/api/v1/analyses", `{"date":"June"}`, newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "YYYY-MM-DD")
}

func TestRouter_ChatInternalError(t *testing.T) {
	svcs := &stubServices{analysis: &stubAnalysis{
		chatFn: func(context.Context, analysis.ChatRequest) (analysis.ChatResponse, error) {
			return analysis.ChatResponse{}, io.ErrUnexpectedEOF
		},
	}}

	recorder := performRequest(http.MethodPost, "/api/v1/chat", `{"message":"hi"}`, newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, "chat_failed", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CalendarQuery(t *testing.T) {
	svcs := &stubServices{calendar: &stubCalendar{
		buildFn: func(_ context.Context, req calendar.Request) (calendar.Calendar, error) {
			require.Equal(t, 2024, req.Year)
			require.Equal(t, 2, req.Month)
			require.Equal(t, "planner", req.Profile)
			require.NotNil(t, req.Location)
			require.InDelta(t, -33.9, req.Location.Lat, 1e-9)
			return calendar.Calendar{Year: 2024, Month: 2, MonthName: "February", FirstWeekday: 4}, nil
		},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/calendar?year=2024&month=2&lat=-33.9&lng=18.4&profile=planner", "", newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got calendar.Calendar
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "February", got.MonthName)
}

func TestRouter_CalendarRejectsHalfLocation(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/calendar?year=2024&month=2&lat=10", "", newRouterUnderTest(t, &stubServices{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_ExportReportAttachment(t *testing.T) {
	svcs := &stubServices{report: &stubReport{
		exportFn: func(_ context.Context, req report.Request) (report.Document, error) {
			require.Equal(t, report.FormatText, req.Format)
			return report.Document{FileName: "weatherwise-report-Paris-2025-06-10.txt", ContentType: "text/plain", Content: []byte("body")}, nil
		},
	}}

	recorder := performRequest(http.MethodPost, "/api/v1/reports?format=text", `{"date":"2025-06-10"}`, newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "attachment; filename=weatherwise-report-Paris-2025-06-10.txt", recorder.Header().Get("Content-Disposition"))
	require.Equal(t, "body", recorder.Body.String())
}

func TestRouter_ExportReportEncodesFileName(t *testing.T) {
	fileName := "weatherwise-report-Paris\"; x=\"y\r\nSet-Cookie: a=b-2025-06-10.txt"
	svcs := &stubServices{report: &stubReport{
		exportFn: func(context.Context, report.Request) (report.Document, error) {
			return report.Document{FileName: fileName, ContentType: "text/plain", Content: []byte("body")}, nil
		},
	}}

	recorder := performRequest(http.MethodPost, "/api/v1/reports?format=text", `{"date":"2025-06-10"}`, newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, recorder.Header().Values("Set-Cookie"))

	disposition := recorder.Header().Get("Content-Disposition")
	require.NotContains(t, disposition, "\r")
	require.NotContains(t, disposition, "\n")
	mediaType, params, err := mime.ParseMediaType(disposition)
	require.NoError(t, err)
	require.Equal(t, "attachment", mediaType)
	require.Equal(t, fileName, params["filename"])
	require.NotContains(t, params, "x")
}

func TestRouter_SharedReportEncodesFileName(t *testing.T) {
	svcs := &stubServices{report: &stubReport{
		fetchFn: func(context.Context, string) (report.Document, error) {
			return report.Document{FileName: `a";b.csv`, ContentType: "text/csv", Content: []byte("a,b\n")}, nil
		},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/reports/shared/2025-06-10/abc.csv", "", newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)
	_, params, err := mime.ParseMediaType(recorder.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, `a";b.csv`, params["filename"])
}

func TestRouter_ShareReportUnavailable(t *testing.T) {
	svcs := &stubServices{report: &stubReport{
		publishFn: func(context.Context, report.Request) (report.Published, error) {
			return report.Published{}, apperrors.Wrap(apperrors.CodeUnavailable, "report storage is not configured", nil)
		},
	}}

	recorder := performRequest(http.MethodPost, "/api/v1/reports/share", `{}`, newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestRouter_SharedReportKey(t *testing.T) {
	svcs := &stubServices{report: &stubReport{
		fetchFn: func(_ context.Context, key string) (report.Document, error) {
			require.Equal(t, "reports/2025-06-10/abc.csv", key)
			return report.Document{FileName: "abc.csv", ContentType: "text/csv", Content: []byte("a,b\n")}, nil
		},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/reports/shared/2025-06-10/abc.csv", "", newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "a,b\n", recorder.Body.String())
}

func TestRouter_UpdateSession(t *testing.T) {
	svcs := &stubServices{session: &stubSession{
		updateFn: func(_ context.Context, id string, upd session.Update) (session.State, error) {
			require.Equal(t, "s-1", id)
			require.Equal(t, session.TriggerCalendar, upd.Trigger)
			require.NotNil(t, upd.Date)
			require.Equal(t, time.June, upd.Date.Month())
			require.Equal(t, weather.ProfileAdventurer, *upd.Profile)
			require.Nil(t, upd.Location)
			return session.State{ID: id, Loading: true, Revision: 3}, nil
		},
	}}

	recorder := performRequest(http.MethodPatch, "/api/v1/sessions/s-1",
		`{"date":"2025-06-10","profile":"adventurer","trigger":"calendar"}`, newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusAccepted, recorder.Code)

	var got session.State
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Loading)
	require.EqualValues(t, 3, got.Revision)
}

func TestRouter_SessionNotFound(t *testing.T) {
	svcs := &stubServices{session: &stubSession{
		getFn: func(context.Context, string) (session.State, error) {
			return session.State{}, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
		},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/sessions/missing", "", newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_SessionAnalysis(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	loc := weather.Location{Lat: 1, Lng: 2, Label: "Here"}
	described := false
	svcs := &stubServices{
		session: &stubSession{
			getFn: func(_ context.Context, id string) (session.State, error) {
				return session.State{
					ID:              id,
					Location:        &loc,
					Date:            &date,
					Profile:         weather.ProfileFamily,
					Metrics:         &weather.Metrics{Heat: 70},
					ShowSuggestions: true,
					Revision:        2,
				}, nil
			},
		},
		analysis: &stubAnalysis{
			describeFn: func(_ context.Context, gotLoc weather.Location, gotDate time.Time, profile weather.Profile, m weather.Metrics) analysis.Response {
				described = true
				require.Equal(t, loc, gotLoc)
				require.True(t, gotDate.Equal(date))
				require.Equal(t, weather.ProfileFamily, profile)
				return analysis.Response{Ready: true, Metrics: &m}
			},
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/sessions/s-2/analysis", "", newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, described)

	var got sessionAnalysis
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.ShowSuggestions)
	require.NotNil(t, got.Analysis)
	require.Equal(t, 70, got.Analysis.Metrics.Heat)
}

func TestRouter_SessionAnalysisPending(t *testing.T) {
	svcs := &stubServices{session: &stubSession{
		getFn: func(_ context.Context, id string) (session.State, error) {
			return session.State{ID: id, Loading: true}, nil
		},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/sessions/s-3/analysis", "", newRouterUnderTest(t, svcs))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got sessionAnalysis
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Loading)
	require.Nil(t, got.Analysis)
}

func TestRouter_RateLimit(t *testing.T) {
	svcs := &stubServices{}
	server := newRouterWithConfig(t, svcs, config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})

	first := performRequest(http.MethodPost, "/api/v1/sessions", "", server)
	require.Equal(t, http.StatusCreated, first.Code)

	second := performRequest(http.MethodPost, "/api/v1/sessions", "", server)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, second.Body.Bytes())["error"]["code"])
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	server := newRouterUnderTest(t, &stubServices{})

	health := performRequest(http.MethodGet, "/healthz", "", server)
	require.Equal(t, http.StatusOK, health.Code)

	_ = performRequest(http.MethodPost, "/api/v1/sessions", "", server)
	scrape := performRequest(http.MethodGet, "/metrics", "", server)
	require.Equal(t, http.StatusOK, scrape.Code)
	require.Contains(t, scrape.Body.String(), `weatherwise_http_request_duration_seconds_count{method="POST",route="/api/v1/sessions",status="201"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	recorder := performRequest(http.MethodOptions, "/api/v1/sessions/s-1", "", newRouterUnderTest(t, &stubServices{}))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svcs *stubServices) *http.Server {
	return newRouterWithConfig(t, svcs, config.RateLimitConfig{})
}

func newRouterWithConfig(t *testing.T, svcs *stubServices, rl config.RateLimitConfig) *http.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	handler := NewHandler(svcs.analysisService(), svcs.calendarService(), svcs.reportService(), svcs.sessionService(), newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			RateLimit:    rl,
		},
	}
	return NewRouter(cfg, handler, metrics.New(reg), reg)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubServices struct {
	analysis *stubAnalysis
	calendar *stubCalendar
	report   *stubReport
	session  *stubSession
}

func (s *stubServices) analysisService() analysis.Service {
	if s.analysis == nil {
		return &stubAnalysis{}
	}
	return s.analysis
}

func (s *stubServices) calendarService() calendar.Service {
	if s.calendar == nil {
		return &stubCalendar{}
	}
	return s.calendar
}

func (s *stubServices) reportService() report.Service {
	if s.report == nil {
		return &stubReport{}
	}
	return s.report
}

func (s *stubServices) sessionService() session.Service {
	if s.session == nil {
		return &stubSession{}
	}
	return s.session
}

type stubAnalysis struct {
	analyzeFn  func(ctx context.Context, req analysis.Request) (analysis.Response, error)
	chatFn     func(ctx context.Context, req analysis.ChatRequest) (analysis.ChatResponse, error)
	describeFn func(ctx context.Context, loc weather.Location, date time.Time, profile weather.Profile, m weather.Metrics) analysis.Response
}

func (s *stubAnalysis) Analyze(ctx context.Context, req analysis.Request) (analysis.Response, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx, req)
	}
	return analysis.Response{}, nil
}

func (s *stubAnalysis) Advise(context.Context, analysis.AdviseRequest) (analysis.AdviseResponse, error) {
	return analysis.AdviseResponse{}, nil
}

func (s *stubAnalysis) Elaborate(context.Context, analysis.ElaborateRequest) (advisor.Elaboration, error) {
	return advisor.Elaboration{}, nil
}

func (s *stubAnalysis) Chat(ctx context.Context, req analysis.ChatRequest) (analysis.ChatResponse, error) {
	if s.chatFn != nil {
		return s.chatFn(ctx, req)
	}
	return analysis.ChatResponse{}, nil
}

func (s *stubAnalysis) Describe(ctx context.Context, loc weather.Location, date time.Time, profile weather.Profile, m weather.Metrics) analysis.Response {
	if s.describeFn != nil {
		return s.describeFn(ctx, loc, date, profile, m)
	}
	return analysis.Response{}
}

type stubCalendar struct {
	buildFn func(ctx context.Context, req calendar.Request) (calendar.Calendar, error)
}

func (s *stubCalendar) Build(ctx context.Context, req calendar.Request) (calendar.Calendar, error) {
	if s.buildFn != nil {
		return s.buildFn(ctx, req)
	}
	return calendar.Calendar{}, nil
}

type stubReport struct {
	exportFn  func(ctx context.Context, req report.Request) (report.Document, error)
	publishFn func(ctx context.Context, req report.Request) (report.Published, error)
	fetchFn   func(ctx context.Context, key string) (report.Document, error)
}

func (s *stubReport) Export(ctx context.Context, req report.Request) (report.Document, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx, req)
	}
	return report.Document{}, nil
}

func (s *stubReport) Publish(ctx context.Context, req report.Request) (report.Published, error) {
	if s.publishFn != nil {
		return s.publishFn(ctx, req)
	}
	return report.Published{}, nil
}

func (s *stubReport) Fetch(ctx context.Context, key string) (report.Document, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, key)
	}
	return report.Document{}, nil
}

type stubSession struct {
	getFn    func(ctx context.Context, id string) (session.State, error)
	updateFn func(ctx context.Context, id string, upd session.Update) (session.State, error)
}

func (s *stubSession) Create(context.Context) (session.State, error) {
	return session.State{ID: "new"}, nil
}

func (s *stubSession) Get(ctx context.Context, id string) (session.State, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return session.State{ID: id}, nil
}

func (s *stubSession) Update(ctx context.Context, id string, upd session.Update) (session.State, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, upd)
	}
	return session.State{ID: id}, nil
}

func (s *stubSession) Delete(context.Context, string) error {
	return nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestResolveOrigin(t *testing.T) {
	allowed := []string{"https://dash.example", "https://staging.example"}
	require.Equal(t, "*", resolveOrigin("https://x.example", nil))
	require.Equal(t, "https://staging.example", resolveOrigin("https://STAGING.example", allowed))
	require.Equal(t, "https://dash.example", resolveOrigin("https://evil.example", allowed))
}

func TestAsHTTPErrorMapsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", apperrors.Wrap(apperrors.CodeStorage, "bucket gone", nil))
	got := asHTTPError(wrapped)
	require.Equal(t, http.StatusBadGateway, got.Status)
	require.Equal(t, "storage_error", got.Code)

	plain := asHTTPError(io.EOF)
	require.Equal(t, http.StatusInternalServerError, plain.Status)
	require.Equal(t, "internal_error", plain.Code)
}
