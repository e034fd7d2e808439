package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

const uniqueViolation = "23505"

// RecordRepository is the Postgres implementation for emission records.
// The (tenant_id, company, month_start) unique constraint backs the
// conditional upsert: a racing batch hits the constraint instead of
// silently duplicating a key.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository constructs a repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// FindByKey returns the record for (tenant, company, month), or nil.
func (r *RecordRepository) FindByKey(ctx context.Context, tenantID, company string, month period.Month) (*emissions.EmissionRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("record repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT tenant_id, company, month_start, electricity_kwh, gasoline_l,
	natural_gas_m3, district_heating_gj, total_emission, created_at, updated_at
FROM emission_records
WHERE tenant_id = $1 AND company = $2 AND month_start = $3
LIMIT 1`, tenantID, company, month.Start())
	return scanRecord(row)
}

// ReplaceAll applies the batch conditional upsert in one transaction.
// Unchanged rows (two-decimal compare on the four quantities) are left
// untouched; changed rows are deleted and re-inserted so the stored total is
// always recomputed from the full current quantity set.
func (r *RecordRepository) ReplaceAll(ctx context.Context, records []*emissions.EmissionRecord) ([]emissions.UpsertOutcome, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("record repo: nil db")
	}
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	outcomes := make([]emissions.UpsertOutcome, 0, len(records))
	for _, record := range records {
		if record == nil {
			_ = tx.Rollback()
			return nil, emissions.ErrNilRecord
		}
		outcome, err := upsertOne(ctx, tx, record)
		if err != nil {
			_ = tx.Rollback()
			return nil, mapConflict(err)
		}
		outcomes = append(outcomes, outcome)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapConflict(err)
	}
	return outcomes, nil
}

func upsertOne(ctx context.Context, tx *sql.Tx, record *emissions.EmissionRecord) (emissions.UpsertOutcome, error) {
	row := tx.QueryRowContext(ctx, `
SELECT tenant_id, company, month_start, electricity_kwh, gasoline_l,
	natural_gas_m3, district_heating_gj, total_emission, created_at, updated_at
FROM emission_records
WHERE tenant_id = $1 AND company = $2 AND month_start = $3
FOR UPDATE`, record.TenantID, record.Company, record.Month.Start())

	existing, err := scanRecord(row)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.SameQuantities(record.Reading()) {
		return emissions.OutcomeUnchanged, nil
	}

	outcome := emissions.OutcomeInserted
	if existing != nil {
		outcome = emissions.OutcomeReplaced
		_, err = tx.ExecContext(ctx, `
DELETE FROM emission_records
WHERE tenant_id = $1 AND company = $2 AND month_start = $3`,
			record.TenantID, record.Company, record.Month.Start())
		if err != nil {
			return "", err
		}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO emission_records (
	tenant_id, company, month_start, electricity_kwh, gasoline_l,
	natural_gas_m3, district_heating_gj, total_emission, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		record.TenantID, record.Company, record.Month.Start(),
		record.ElectricityKWh, record.GasolineL, record.NaturalGasM3, record.DistrictHeatGJ,
		record.TotalEmission, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// QueryRange returns a tenant's records inside [start, end], month ascending.
func (r *RecordRepository) QueryRange(ctx context.Context, tenantID string, start, end period.Month) ([]emissions.EmissionRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("record repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT tenant_id, company, month_start, electricity_kwh, gasoline_l,
	natural_gas_m3, district_heating_gj, total_emission, created_at, updated_at
FROM emission_records
WHERE tenant_id = $1 AND month_start >= $2 AND month_start <= $3
ORDER BY month_start ASC`, tenantID, start.Start(), end.Start())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []emissions.EmissionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if record != nil {
			result = append(result, *record)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*emissions.EmissionRecord, error) {
	var record emissions.EmissionRecord
	var monthStart time.Time
	err := row.Scan(
		&record.TenantID,
		&record.Company,
		&monthStart,
		&record.ElectricityKWh,
		&record.GasolineL,
		&record.NaturalGasM3,
		&record.DistrictHeatGJ,
		&record.TotalEmission,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	record.Month = period.FromTime(monthStart)
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", emissions.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
