package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/framework-progress/internal/config"
	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/core/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HTTPMetrics instruments the router and exposes the scrape endpoint.
type HTTPMetrics interface {
	Handler() http.Handler
	Middleware(service string, next http.Handler) http.Handler
}

type Router struct {
	dashboards ports.DashboardService
	navigation ports.NavigationService
	reports    ports.ReportRequester

	metrics          HTTPMetrics
	logger           *slog.Logger
	limiter          *rate.Limiter
	maxInFlight      int
	backpressureWait time.Duration
}

type RouterOption func(*Router)

func WithMetrics(metrics HTTPMetrics) RouterOption {
	return func(rt *Router) {
		rt.metrics = metrics
	}
}

func WithLogger(logger *slog.Logger) RouterOption {
	return func(rt *Router) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

func NewRouter(
	cfg config.Config,
	dashboards ports.DashboardService,
	navigation ports.NavigationService,
	reports ports.ReportRequester,
	opts ...RouterOption,
) *Router {
	rt := &Router{
		dashboards:       dashboards,
		navigation:       navigation,
		reports:          reports,
		logger:           slog.Default(),
		limiter:          newRateLimiter(cfg.APIRateLimitRPS, cfg.APIRateLimitBurst),
		maxInFlight:      cfg.APIMaxInFlight,
		backpressureWait: time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPI)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("GET /v1/projects/{projectId}/dashboard", rt.getDashboard)
	mux.HandleFunc("POST /v1/projects/{projectId}/reports", rt.requestReport)
	mux.HandleFunc("GET /v1/reports/{reportId}", rt.getReport)
	mux.HandleFunc("GET /v1/users/{userId}/navigation", rt.getNavigation)
	mux.HandleFunc("PUT /v1/users/{userId}/navigation", rt.saveNavigation)
	mux.HandleFunc("POST /v1/users/{userId}/navigation/intents", rt.applyNavigationIntent)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureWait)
	handler = rateLimitMiddleware(handler, rt.limiter)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

func (rt *Router) getDashboard(w http.ResponseWriter, r *http.Request) {
	projectID, err := bindProjectID(r)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}

	dashboard, err := rt.dashboards.BuildDashboard(r.Context(), projectID)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (rt *Router) requestReport(w http.ResponseWriter, r *http.Request) {
	projectID, err := bindProjectID(r)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}

	req, err := rt.reports.RequestReport(r.Context(), projectID)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"report_id": req.ReportID})
}

func (rt *Router) getReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := bindReportID(r)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}

	report, err := rt.reports.OpenReport(r.Context(), reportID)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	defer report.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "framework-progress-"+reportID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, report); err != nil {
		rt.logger.Warn("report_stream_failed",
			"request_id", requestIDFromContext(r.Context()),
			"report_id", reportID,
			"error", err,
		)
	}
}

func (rt *Router) getNavigation(w http.ResponseWriter, r *http.Request) {
	state, err := rt.navigation.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (rt *Router) saveNavigation(w http.ResponseWriter, r *http.Request) {
	var state domain.NavigationState
	if err := apiContract.decodeBody(r, "NavigationState", &state); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	state.UserID = strings.TrimSpace(r.PathValue("userId"))

	saved, err := rt.navigation.Save(r.Context(), state)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type navigationIntentResult struct {
	State domain.NavigationState `json:"state"`
	Route string                 `json:"route"`
}

func (rt *Router) applyNavigationIntent(w http.ResponseWriter, r *http.Request) {
	var intent domain.NavigationIntent
	if err := apiContract.decodeBody(r, "NavigationIntent", &intent); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}

	state, route, err := rt.navigation.ApplyIntent(r.Context(), r.PathValue("userId"), intent)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, navigationIntentResult{State: state, Route: route})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
