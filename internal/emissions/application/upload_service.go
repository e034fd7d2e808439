package application

import (
	"context"
	"errors"
	"time"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/observability/metrics"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// UploadService ingests normalized spreadsheet rows into emission records.
type UploadService struct {
	records emissions.RecordRepository
	clock   Clock
}

// NewUploadService constructs a service.
func NewUploadService(records emissions.RecordRepository, clock Clock) (*UploadService, error) {
	if records == nil {
		return nil, errors.New("upload service: nil record repository")
	}
	if clock == nil {
		return nil, errors.New("upload service: nil clock")
	}
	return &UploadService{records: records, clock: clock}, nil
}

// UploadResult reports what one upload batch did.
type UploadResult struct {
	Rows      int `json:"rows"`
	Inserted  int `json:"inserted"`
	Replaced  int `json:"replaced"`
	Unchanged int `json:"unchanged"`
}

// Ingest normalizes raw rows, computes each record's emission total and
// applies the whole batch as a single transactional upsert. Rows are applied
// in input order; nothing persists when any row fails.
func (s *UploadService) Ingest(ctx context.Context, tenantID string, company string, rows []map[string]string) (UploadResult, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveUpload(result, time.Since(start))
	}()

	if tenantID == "" {
		result = metrics.ResultError
		return UploadResult{}, errors.New("upload service: empty tenant id")
	}

	readings, err := Normalize(rows)
	if err != nil {
		result = metrics.ResultError
		return UploadResult{}, err
	}

	now := s.clock.Now()
	records := make([]*emissions.EmissionRecord, 0, len(readings))
	for _, reading := range readings {
		records = append(records, reading.Record(tenantID, company, now))
	}

	outcomes, err := s.records.ReplaceAll(ctx, records)
	if err != nil {
		result = metrics.ResultError
		return UploadResult{}, err
	}

	summary := UploadResult{Rows: len(outcomes)}
	for _, outcome := range outcomes {
		switch outcome {
		case emissions.OutcomeInserted:
			summary.Inserted++
		case emissions.OutcomeReplaced:
			summary.Replaced++
		case emissions.OutcomeUnchanged:
			summary.Unchanged++
		}
		metrics.IncUploadRow(string(outcome))
	}
	return summary, nil
}
