package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dahyun0301/carbon-report-server/internal/audit"
	"github.com/dahyun0301/carbon-report-server/internal/auth"
	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/observability/metrics"
	"github.com/dahyun0301/carbon-report-server/internal/period"
	reportapp "github.com/dahyun0301/carbon-report-server/internal/reporting/application"
	"github.com/dahyun0301/carbon-report-server/internal/reporting/interfaces"
)

// ReportHandler handles report APIs under /api/v1/reports.
type ReportHandler struct {
	service     *reportapp.ReportService
	cfg         reportapp.Config
	auditLogger audit.Logger
}

// NewReportHandler constructs a handler.
func NewReportHandler(service *reportapp.ReportService, cfg reportapp.Config, auditLogger audit.Logger) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	return &ReportHandler{service: service, cfg: cfg, auditLogger: auditLogger}, nil
}

// ServeHTTP routes report requests.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/reports" && r.Method == http.MethodPost:
		h.handleSubmit(w, r)
	case r.URL.Path == "/api/v1/reports/summary" && r.Method == http.MethodGet:
		h.handleSummary(w, r)
	case r.URL.Path == "/api/v1/reports/export.pdf" && r.Method == http.MethodGet:
		h.handleExport(w, r, "pdf")
	case r.URL.Path == "/api/v1/reports/export.xlsx" && r.Method == http.MethodGet:
		h.handleExport(w, r, "xlsx")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ReportHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Company    string  `json:"company"`
		Industry   string  `json:"industry"`
		StartMonth string  `json:"start_month"`
		EndMonth   string  `json:"end_month"`
		Allowance  float64 `json:"allowance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	start, err := period.Parse(req.StartMonth)
	if err != nil {
		http.Error(w, "start_month must be YYYY-MM", http.StatusBadRequest)
		return
	}
	end, err := period.Parse(req.EndMonth)
	if err != nil {
		http.Error(w, "end_month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Submit(r.Context(), tenantID, reportapp.ReportRequest{
		Company:   req.Company,
		Industry:  req.Industry,
		Start:     start,
		End:       end,
		Allowance: req.Allowance,
	})
	if err != nil {
		respondReportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)

	if h.auditLogger != nil {
		metadata, _ := json.Marshal(map[string]any{
			"start_month": req.StartMonth,
			"end_month":   req.EndMonth,
			"allowance":   req.Allowance,
		})
		_ = h.auditLogger.Log(r.Context(), audit.Entry{
			TenantID:     tenantID,
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "report.submit",
			ResourceType: "report_windows",
			ResourceID:   req.Company,
			Metadata:     metadata,
			IP:           r.RemoteAddr,
			UserAgent:    r.UserAgent(),
		})
	}
}

func (h *ReportHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	start, end, err := h.resolveRange(r, tenantID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	summary, err := h.service.Summarize(r.Context(), tenantID, start, end)
	if err != nil {
		respondReportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

func (h *ReportHandler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	began := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport(format, result, time.Since(began))
	}()

	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		result = metrics.ResultError
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	window, err := h.service.LatestWindow(r.Context(), tenantID)
	if err != nil {
		result = metrics.ResultError
		respondReportError(w, err)
		return
	}
	summary, err := h.service.Summarize(r.Context(), tenantID, window.Start, window.End)
	if err != nil {
		result = metrics.ResultError
		respondReportError(w, err)
		return
	}

	header := interfaces.ReportHeader{
		Company:   firstNonEmpty(r.URL.Query().Get("company"), window.Company, h.cfg.DefaultCompany),
		Industry:  firstNonEmpty(r.URL.Query().Get("industry"), window.Industry, h.cfg.DefaultIndustry),
		Allowance: window.Allowance,
	}

	var payload []byte
	var contentType, filename string
	switch format {
	case "pdf":
		payload, err = interfaces.BuildReportPDF(header, summary)
		contentType, filename = "application/pdf", "carbon_emission_report.pdf"
	default:
		payload, err = interfaces.BuildReportXLSX(header, summary)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "carbon_emission_report.xlsx"
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	if format == "pdf" && h.cfg.StorageRoot != "" {
		h.writePreview(filename, payload)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	_, _ = w.Write(payload)
}

// writePreview keeps a copy of the latest rendered report on disk. Failures
// only lose the preview, never the response.
func (h *ReportHandler) writePreview(filename string, payload []byte) {
	if err := os.MkdirAll(h.cfg.StorageRoot, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(h.cfg.StorageRoot, filename), payload, 0o644)
}

// resolveRange reads start/end query params, falling back to the tenant's
// current window when both are absent.
func (h *ReportHandler) resolveRange(r *http.Request, tenantID string) (period.Month, period.Month, error) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if startParam == "" && endParam == "" {
		window, err := h.service.LatestWindow(r.Context(), tenantID)
		if err != nil {
			return period.Month{}, period.Month{}, err
		}
		return window.Start, window.End, nil
	}
	start, err := period.Parse(startParam)
	if err != nil {
		return period.Month{}, period.Month{}, err
	}
	end, err := period.Parse(endParam)
	if err != nil {
		return period.Month{}, period.Month{}, err
	}
	return start, end, nil
}

func respondReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, emissions.ErrNoRecords), errors.Is(err, emissions.ErrNoReport):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, emissions.ErrInvalidWindow), errors.Is(err, period.ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
