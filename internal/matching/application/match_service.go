package application

import (
	"context"
	"errors"
	"time"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/observability/metrics"
)

// UnspecifiedCompany is the display sentinel for tenants that never named
// their company anywhere.
const UnspecifiedCompany = "(unspecified)"

const (
	// StatusSurplus means remaining allowance is strictly positive.
	StatusSurplus = "surplus"
	// StatusDeficit means remaining allowance is zero or negative.
	StatusDeficit = "deficit"
)

// OwnStatus is the requesting tenant's allowance position.
type OwnStatus struct {
	Company  string  `json:"company"`
	Industry string  `json:"industry"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
}

// Peer is another tenant's allowance position. Difference is allowance minus
// emissions over that tenant's own current window: positive is surplus,
// negative is deficit.
type Peer struct {
	TenantID   string  `json:"tenant_id"`
	Company    string  `json:"company"`
	Industry   string  `json:"industry"`
	Difference float64 `json:"difference"`
}

// MatchResult is a point-in-time matching snapshot. It is advisory only;
// concurrent submissions elsewhere are not locked out.
type MatchResult struct {
	Own     OwnStatus `json:"own"`
	Surplus []Peer    `json:"surplus"`
	Deficit []Peer    `json:"deficit"`
}

// MatchService pairs tenants with opposite allowance positions.
type MatchService struct {
	records emissions.RecordRepository
	windows emissions.WindowRepository
}

// NewMatchService constructs a service.
func NewMatchService(records emissions.RecordRepository, windows emissions.WindowRepository) (*MatchService, error) {
	if records == nil {
		return nil, errors.New("match service: nil record repository")
	}
	if windows == nil {
		return nil, errors.New("match service: nil window repository")
	}
	return &MatchService{records: records, windows: windows}, nil
}

// Match computes the tenant's own position and partitions every other tenant
// with a report window into surplus and deficit sets. Tenants whose
// difference is exactly zero appear in neither set; the requesting tenant
// never appears as its own peer. Match performs no writes.
func (s *MatchService) Match(ctx context.Context, tenantID string) (*MatchResult, error) {
	began := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveMatch(result, time.Since(began))
	}()

	if tenantID == "" {
		result = metrics.ResultError
		return nil, errors.New("match service: empty tenant id")
	}

	own, err := s.windows.LatestByTenant(ctx, tenantID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if own == nil {
		result = metrics.ResultError
		return nil, emissions.ErrNoReport
	}

	company, remaining, err := s.standing(ctx, own)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	status := StatusDeficit
	if remaining > 0 {
		status = StatusSurplus
	}
	match := &MatchResult{
		Own: OwnStatus{
			Company:  company,
			Industry: own.Industry,
			Status:   status,
			Amount:   abs(remaining),
		},
	}

	windows, err := s.windows.LatestPerTenant(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	for i := range windows {
		window := &windows[i]
		if window.TenantID == tenantID {
			continue
		}
		peerCompany, difference, err := s.standing(ctx, window)
		if err != nil {
			result = metrics.ResultError
			return nil, err
		}
		peer := Peer{
			TenantID:   window.TenantID,
			Company:    peerCompany,
			Industry:   window.Industry,
			Difference: difference,
		}
		switch {
		case difference > 0:
			match.Surplus = append(match.Surplus, peer)
		case difference < 0:
			match.Deficit = append(match.Deficit, peer)
		}
	}
	return match, nil
}

// standing resolves a window's display company and its rounded
// allowance-minus-emissions difference.
func (s *MatchService) standing(ctx context.Context, window *emissions.ReportWindow) (string, float64, error) {
	records, err := s.records.QueryRange(ctx, window.TenantID, window.Start, window.End)
	if err != nil {
		return "", 0, err
	}

	var sum float64
	company := window.Company
	for i := range records {
		sum += records[i].TotalEmission
		if company == "" && records[i].Company != "" {
			company = records[i].Company
		}
	}
	if company == "" {
		company = UnspecifiedCompany
	}
	return company, emissions.Round2(window.Allowance - sum), nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
