package http

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weatherwise/internal/domain/analysis"
	"github.com/yanqian/weatherwise/internal/domain/calendar"
	"github.com/yanqian/weatherwise/internal/domain/report"
	"github.com/yanqian/weatherwise/internal/domain/session"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/pkg/util"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	analysisSvc analysis.Service
	calendarSvc calendar.Service
	reportSvc   report.Service
	sessionSvc  session.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(analysisSvc analysis.Service, calendarSvc calendar.Service, reportSvc report.Service, sessionSvc session.Service, logger *slog.Logger) *Handler {
	return &Handler{
		analysisSvc: analysisSvc,
		calendarSvc: calendarSvc,
		reportSvc:   reportSvc,
		sessionSvc:  sessionSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// Analyze synthesizes metrics and derives every advisory view in one call.
func (h *Handler) Analyze(c *gin.Context) {
	var req analysis.Request
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.analysisSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "analysis_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Advise derives advisories from caller supplied metrics.
func (h *Handler) Advise(c *gin.Context) {
	var req analysis.AdviseRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.analysisSvc.Advise(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "advise_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Elaborate returns long form text about one advisory item.
func (h *Handler) Elaborate(c *gin.Context) {
	var req analysis.ElaborateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.analysisSvc.Elaborate(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "elaborate_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Chat answers a chat widget message.
func (h *Handler) Chat(c *gin.Context) {
	var req analysis.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.analysisSvc.Chat(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "chat_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Calendar returns the monthly risk calendar.
func (h *Handler) Calendar(c *gin.Context) {
	req := calendar.Request{Profile: c.Query("profile")}
	var err error
	if req.Year, err = strconv.Atoi(c.Query("year")); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "year must be an integer", err))
		return
	}
	if req.Month, err = strconv.Atoi(c.Query("month")); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "month must be an integer", err))
		return
	}
	if rawLat, rawLng := c.Query("lat"), c.Query("lng"); rawLat != "" || rawLng != "" {
		lat, latErr := strconv.ParseFloat(rawLat, 64)
		lng, lngErr := strconv.ParseFloat(rawLng, 64)
		if latErr != nil || lngErr != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lat and lng must both be numbers", nil))
			return
		}
		req.Location = &weather.Location{Lat: lat, Lng: lng}
	}

	cal, err := h.calendarSvc.Build(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "calendar_failed", err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// ExportReport returns the report as a downloadable attachment.
func (h *Handler) ExportReport(c *gin.Context) {
	var req report.Request
	if !bindJSON(c, &req) {
		return
	}
	if format := c.Query("format"); format != "" {
		req.Format = report.Format(format)
	}
	doc, err := h.reportSvc.Export(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "report_failed", err)
		return
	}
	writeAttachment(c, doc)
}

// ShareReport uploads the CSV report and returns its key.
func (h *Handler) ShareReport(c *gin.Context) {
	var req report.Request
	if !bindJSON(c, &req) {
		return
	}
	pub, err := h.reportSvc.Publish(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, "report_failed", err)
		return
	}
	c.JSON(http.StatusCreated, pub)
}

// SharedReport streams a previously published report.
func (h *Handler) SharedReport(c *gin.Context) {
	doc, err := h.reportSvc.Fetch(c.Request.Context(), "reports"+c.Param("key"))
	if err != nil {
		abortWithDomainError(c, "report_failed", err)
		return
	}
	writeAttachment(c, doc)
}

// CreateSession starts a fresh dashboard session.
func (h *Handler) CreateSession(c *gin.Context) {
	state, err := h.sessionSvc.Create(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, "session_failed", err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// GetSession returns the session state.
func (h *Handler) GetSession(c *gin.Context) {
	state, err := h.sessionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithDomainError(c, "session_failed", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type sessionPatch struct {
	Location *weather.Location `json:"location"`
	Date     *string           `json:"date"`
	Profile  *string           `json:"profile"`
	Trigger  session.Trigger   `json:"trigger"`
}

// UpdateSession applies a partial input change and schedules the deferred load.
func (h *Handler) UpdateSession(c *gin.Context) {
	var patch sessionPatch
	if !bindJSON(c, &patch) {
		return
	}
	upd := session.Update{Location: patch.Location, Trigger: patch.Trigger}
	if patch.Date != nil {
		date, err := util.ParseDate(strings.TrimSpace(*patch.Date))
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "date must be formatted as YYYY-MM-DD", err))
			return
		}
		upd.Date = &date
	}
	if patch.Profile != nil {
		profile := weather.ParseProfile(*patch.Profile)
		upd.Profile = &profile
	}

	state, err := h.sessionSvc.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		abortWithDomainError(c, "session_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, state)
}

// DeleteSession discards a session.
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithDomainError(c, "session_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sessionAnalysis struct {
	Loading         bool               `json:"loading"`
	ShowSuggestions bool               `json:"showSuggestions"`
	Revision        int64              `json:"revision"`
	Analysis        *analysis.Response `json:"analysis,omitempty"`
}

// SessionAnalysis returns the last landed analysis of a session.
func (h *Handler) SessionAnalysis(c *gin.Context) {
	state, err := h.sessionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithDomainError(c, "session_failed", err)
		return
	}
	out := sessionAnalysis{Loading: state.Loading, ShowSuggestions: state.ShowSuggestions, Revision: state.Revision}
	if state.Metrics != nil && state.Ready() {
		resp := h.analysisSvc.Describe(c.Request.Context(), *state.Location, *state.Date, state.Profile, *state.Metrics)
		out.Analysis = &resp
	}
	c.JSON(http.StatusOK, out)
}

// writeAttachment sends doc as a download. The file name carries user input
// (the location label), so it goes through mime encoding rather than concatenation.
func writeAttachment(c *gin.Context, doc report.Document) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func abortWithDomainError(c *gin.Context, fallbackCode string, err error) {
	abortWithError(c, fromDomainError(fallbackCode, err))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
