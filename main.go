package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dahyun0301/carbon-report-server/internal/audit"
	"github.com/dahyun0301/carbon-report-server/internal/auth"
	uploadapp "github.com/dahyun0301/carbon-report-server/internal/emissions/application"
	emissionsrepo "github.com/dahyun0301/carbon-report-server/internal/emissions/infrastructure/postgres"
	uploadhttp "github.com/dahyun0301/carbon-report-server/internal/emissions/interfaces/http"
	matchapp "github.com/dahyun0301/carbon-report-server/internal/matching/application"
	matchhttp "github.com/dahyun0301/carbon-report-server/internal/matching/interfaces/http"
	"github.com/dahyun0301/carbon-report-server/internal/observability/metrics"
	reportapp "github.com/dahyun0301/carbon-report-server/internal/reporting/application"
	reporthttp "github.com/dahyun0301/carbon-report-server/internal/reporting/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	recordRepo := emissionsrepo.NewRecordRepository(db)
	windowRepo := emissionsrepo.NewWindowRepository(db)

	uploadService, err := uploadapp.NewUploadService(recordRepo, systemClock{})
	if err != nil {
		logger.Fatalf("upload service error: %v", err)
	}
	uploadHandler, err := uploadhttp.NewUploadHandler(uploadService, auditRepo)
	if err != nil {
		logger.Fatalf("upload handler error: %v", err)
	}

	reportCfg, err := reportapp.LoadConfig()
	if err != nil {
		logger.Fatalf("report config error: %v", err)
	}
	reportService, err := reportapp.NewReportService(recordRepo, windowRepo)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}
	reportHandler, err := reporthttp.NewReportHandler(reportService, reportCfg, auditRepo)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	matchService, err := matchapp.NewMatchService(recordRepo, windowRepo)
	if err != nil {
		logger.Fatalf("match service error: %v", err)
	}
	matchHandler, err := matchhttp.NewMatchHandler(matchService)
	if err != nil {
		logger.Fatalf("match handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/uploads", uploadHandler)
	mux.Handle("/api/v1/reports", reportHandler)
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/api/v1/matching", matchHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
