package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
)

// WindowRepository is an in-memory append-only window store.
type WindowRepository struct {
	mu     sync.RWMutex
	nextID int64
	data   []emissions.ReportWindow
}

// NewWindowRepository constructs a repository.
func NewWindowRepository() *WindowRepository {
	return &WindowRepository{nextID: 1}
}

// Append stores a new window and assigns its id.
func (r *WindowRepository) Append(ctx context.Context, window *emissions.ReportWindow) error {
	_ = ctx
	if err := window.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	window.ID = r.nextID
	r.nextID++
	if window.CreatedAt.IsZero() {
		window.CreatedAt = time.Now().UTC()
	}
	r.data = append(r.data, *window)
	return nil
}

// LatestByTenant returns the tenant's most recent window, or nil.
func (r *WindowRepository) LatestByTenant(ctx context.Context, tenantID string) (*emissions.ReportWindow, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *emissions.ReportWindow
	for i := range r.data {
		window := r.data[i]
		if window.TenantID != tenantID {
			continue
		}
		if latest == nil || window.ID > latest.ID {
			clone := window
			latest = &clone
		}
	}
	return latest, nil
}

// LatestPerTenant returns every tenant's most recent window.
func (r *WindowRepository) LatestPerTenant(ctx context.Context) ([]emissions.ReportWindow, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := make(map[string]emissions.ReportWindow)
	for _, window := range r.data {
		if current, ok := latest[window.TenantID]; !ok || window.ID > current.ID {
			latest[window.TenantID] = window
		}
	}
	result := make([]emissions.ReportWindow, 0, len(latest))
	for _, window := range latest {
		result = append(result, window)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TenantID < result[j].TenantID
	})
	return result, nil
}

// Count returns the number of stored windows, for test assertions.
func (r *WindowRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
