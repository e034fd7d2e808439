package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// WindowRepository is the Postgres implementation for report windows.
// Windows are append-only; a tenant's current window is its highest id.
type WindowRepository struct {
	db *sql.DB
}

// NewWindowRepository constructs a repository.
func NewWindowRepository(db *sql.DB) *WindowRepository {
	return &WindowRepository{db: db}
}

// Append stores a new window and assigns its id.
func (r *WindowRepository) Append(ctx context.Context, window *emissions.ReportWindow) error {
	if r == nil || r.db == nil {
		return errors.New("window repo: nil db")
	}
	if err := window.Validate(); err != nil {
		return err
	}
	if window.CreatedAt.IsZero() {
		window.CreatedAt = time.Now().UTC()
	}
	return r.db.QueryRowContext(ctx, `
INSERT INTO report_windows (
	tenant_id, company, industry, start_month, end_month, allowance, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id`,
		window.TenantID, window.Company, window.Industry,
		window.Start.Start(), window.End.Start(), window.Allowance, window.CreatedAt,
	).Scan(&window.ID)
}

// LatestByTenant returns the tenant's most recent window, or nil.
func (r *WindowRepository) LatestByTenant(ctx context.Context, tenantID string) (*emissions.ReportWindow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("window repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, company, industry, start_month, end_month, allowance, created_at
FROM report_windows
WHERE tenant_id = $1
ORDER BY id DESC
LIMIT 1`, tenantID)
	return scanWindow(row)
}

// LatestPerTenant returns every tenant's most recent window.
func (r *WindowRepository) LatestPerTenant(ctx context.Context) ([]emissions.ReportWindow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("window repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT ON (tenant_id)
	id, tenant_id, company, industry, start_month, end_month, allowance, created_at
FROM report_windows
ORDER BY tenant_id, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []emissions.ReportWindow
	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		if window != nil {
			result = append(result, *window)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanWindow(row rowScanner) (*emissions.ReportWindow, error) {
	var window emissions.ReportWindow
	var start, end time.Time
	var company sql.NullString
	var industry sql.NullString
	err := row.Scan(
		&window.ID,
		&window.TenantID,
		&company,
		&industry,
		&start,
		&end,
		&window.Allowance,
		&window.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if company.Valid {
		window.Company = company.String
	}
	if industry.Valid {
		window.Industry = industry.String
	}
	window.Start = period.FromTime(start)
	window.End = period.FromTime(end)
	window.CreatedAt = window.CreatedAt.UTC()
	return &window, nil
}
