package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dahyun0301/carbon-report-server/internal/audit"
	"github.com/dahyun0301/carbon-report-server/internal/auth"
	uploadapp "github.com/dahyun0301/carbon-report-server/internal/emissions/application"
	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/emissions/interfaces"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

const maxUploadBytes = 10 << 20

// UploadHandler accepts spreadsheet uploads under /api/v1/uploads.
type UploadHandler struct {
	service     *uploadapp.UploadService
	auditLogger audit.Logger
}

// NewUploadHandler constructs a handler.
func NewUploadHandler(service *uploadapp.UploadService, auditLogger audit.Logger) (*UploadHandler, error) {
	if service == nil {
		return nil, errors.New("upload handler: nil service")
	}
	return &UploadHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles POST /api/v1/uploads as either a multipart XLSX upload
// (field "file") or a JSON body of pre-parsed rows.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var company string
	var rows []map[string]string
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}
		company = r.FormValue("company")
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer file.Close()
		rows, err = interfaces.ParseWorkbookRows(file)
		if err != nil {
			respondUploadError(w, err)
			return
		}
	default:
		var req struct {
			Company string              `json:"company"`
			Rows    []map[string]string `json:"rows"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		company = req.Company
		rows = req.Rows
	}

	result, err := h.service.Ingest(r.Context(), tenantID, company, rows)
	if err != nil {
		respondUploadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)

	if h.auditLogger != nil {
		metadata, _ := json.Marshal(map[string]any{
			"rows":      result.Rows,
			"inserted":  result.Inserted,
			"replaced":  result.Replaced,
			"unchanged": result.Unchanged,
		})
		_ = h.auditLogger.Log(r.Context(), audit.Entry{
			TenantID:     tenantID,
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "upload.ingest",
			ResourceType: "emission_records",
			ResourceID:   company,
			Metadata:     metadata,
			IP:           r.RemoteAddr,
			UserAgent:    r.UserAgent(),
		})
	}
}

func respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, emissions.ErrMissingColumn),
		errors.Is(err, emissions.ErrBadCell),
		errors.Is(err, emissions.ErrEmptyUpload),
		errors.Is(err, period.ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, emissions.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
