package memory

import (
	"context"
	"sort"
	"sync"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// RecordRepository is an in-memory record store with the same conditional
// upsert semantics as the Postgres implementation.
type RecordRepository struct {
	mu   sync.RWMutex
	data map[recordKey]*emissions.EmissionRecord
}

type recordKey struct {
	tenantID string
	company  string
	month    period.Month
}

// NewRecordRepository constructs a repository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{data: make(map[recordKey]*emissions.EmissionRecord)}
}

// FindByKey loads one record.
func (r *RecordRepository) FindByKey(ctx context.Context, tenantID, company string, month period.Month) (*emissions.EmissionRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	record := r.data[recordKey{tenantID, company, month}]
	if record == nil {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

// ReplaceAll applies the batch conditional upsert atomically under the lock.
func (r *RecordRepository) ReplaceAll(ctx context.Context, records []*emissions.EmissionRecord) ([]emissions.UpsertOutcome, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	outcomes := make([]emissions.UpsertOutcome, 0, len(records))
	for _, record := range records {
		if record == nil {
			return nil, emissions.ErrNilRecord
		}
		key := recordKey{record.TenantID, record.Company, record.Month}
		existing := r.data[key]
		switch {
		case existing == nil:
			outcomes = append(outcomes, emissions.OutcomeInserted)
		case existing.SameQuantities(record.Reading()):
			outcomes = append(outcomes, emissions.OutcomeUnchanged)
			continue
		default:
			outcomes = append(outcomes, emissions.OutcomeReplaced)
		}
		clone := *record
		r.data[key] = &clone
	}
	return outcomes, nil
}

// QueryRange returns a tenant's records inside [start, end], month ascending.
func (r *RecordRepository) QueryRange(ctx context.Context, tenantID string, start, end period.Month) ([]emissions.EmissionRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []emissions.EmissionRecord
	for key, record := range r.data {
		if key.tenantID != tenantID {
			continue
		}
		if key.month.Before(start) || key.month.After(end) {
			continue
		}
		result = append(result, *record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.Before(result[j].Month)
	})
	return result, nil
}

// Count returns the number of stored records, for test assertions.
func (r *RecordRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
