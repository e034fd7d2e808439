package emissions

import (
	"context"

	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// RecordRepository persists emission records.
type RecordRepository interface {
	// FindByKey returns the record for (tenant, company, month), or nil.
	FindByKey(ctx context.Context, tenantID, company string, month period.Month) (*EmissionRecord, error)

	// ReplaceAll applies the conditional upsert to every record in one
	// transaction: unchanged rows are skipped, changed rows are deleted and
	// re-inserted with their recomputed total, new rows are inserted. The
	// returned outcomes are index-aligned with the input. A unique-key race
	// with a concurrent batch surfaces as ErrConflict and nothing commits.
	ReplaceAll(ctx context.Context, records []*EmissionRecord) ([]UpsertOutcome, error)

	// QueryRange returns a tenant's records with start <= month <= end,
	// ordered by month ascending.
	QueryRange(ctx context.Context, tenantID string, start, end period.Month) ([]EmissionRecord, error)
}

// WindowRepository persists report windows.
type WindowRepository interface {
	// Append stores a new window and assigns its id. Windows are never
	// deduplicated or mutated.
	Append(ctx context.Context, window *ReportWindow) error

	// LatestByTenant returns the tenant's most recently appended window,
	// or nil when the tenant has never submitted one.
	LatestByTenant(ctx context.Context, tenantID string) (*ReportWindow, error)

	// LatestPerTenant returns the most recent window of every tenant that
	// has at least one.
	LatestPerTenant(ctx context.Context) ([]ReportWindow, error)
}
