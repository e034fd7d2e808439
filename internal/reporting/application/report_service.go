package application

import (
	"context"
	"errors"
	"time"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/observability/metrics"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// longPeriodMonths is the span above which a window gets a yearly roll-up.
const longPeriodMonths = 12

// MonthlyResult is one retained month of a summary: the raw quantities plus
// the stored total.
type MonthlyResult struct {
	Month          string  `json:"month"`
	ElectricityKWh float64 `json:"electricity"`
	GasolineL      float64 `json:"gasoline"`
	NaturalGasM3   float64 `json:"natural_gas"`
	DistrictHeatGJ float64 `json:"district_heating"`
	TotalEmission  float64 `json:"total_emission"`
}

// ScopeSplit is the per-month Scope 1/2 split, computed on demand and never
// persisted.
type ScopeSplit struct {
	Month  string  `json:"month"`
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
}

// Summary is the aggregate for one reporting window.
type Summary struct {
	Start   period.Month       `json:"-"`
	End     period.Month       `json:"-"`
	Monthly []MonthlyResult    `json:"monthly"`
	Scopes  []ScopeSplit       `json:"scopes"`
	Yearly  map[string]float64 `json:"yearly,omitempty"`

	// TotalEmission sums the rounded per-record totals; Scope1Total and
	// Scope2Total accumulate unrounded scope values and are rounded once
	// here. The two bases can diverge by per-record rounding error.
	TotalEmission float64 `json:"total_emission"`
	Scope1Total   float64 `json:"scope1_total"`
	Scope2Total   float64 `json:"scope2_total"`
	Scope1Pct     float64 `json:"scope1_pct"`
	Scope2Pct     float64 `json:"scope2_pct"`
}

// ReportRequest is one report window submission.
type ReportRequest struct {
	Company   string
	Industry  string
	Start     period.Month
	End       period.Month
	Allowance float64
}

// ReportService aggregates emission records over reporting windows.
type ReportService struct {
	records emissions.RecordRepository
	windows emissions.WindowRepository
}

// NewReportService constructs a service.
func NewReportService(records emissions.RecordRepository, windows emissions.WindowRepository) (*ReportService, error) {
	if records == nil {
		return nil, errors.New("report service: nil record repository")
	}
	if windows == nil {
		return nil, errors.New("report service: nil window repository")
	}
	return &ReportService{records: records, windows: windows}, nil
}

// Submit appends a report window for the tenant and returns the summary for
// that window. Windows are never deduplicated; the newest one becomes the
// tenant's current window.
func (s *ReportService) Submit(ctx context.Context, tenantID string, req ReportRequest) (*Summary, error) {
	window := &emissions.ReportWindow{
		TenantID:  tenantID,
		Company:   req.Company,
		Industry:  req.Industry,
		Start:     req.Start,
		End:       req.End,
		Allowance: req.Allowance,
	}
	if err := s.windows.Append(ctx, window); err != nil {
		return nil, err
	}
	metrics.IncWindowSubmitted()
	return s.Summarize(ctx, tenantID, req.Start, req.End)
}

// Summarize aggregates a tenant's records over [start, end]. Months are
// deduplicated defensively (first in sort order wins); an empty window
// returns ErrNoRecords. Windows spanning more than twelve calendar months
// additionally get a yearly roll-up keyed by 4-digit year.
func (s *ReportService) Summarize(ctx context.Context, tenantID string, start, end period.Month) (*Summary, error) {
	began := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSummary(result, time.Since(began))
	}()

	if tenantID == "" {
		result = metrics.ResultError
		return nil, errors.New("report service: empty tenant id")
	}

	records, err := s.records.QueryRange(ctx, tenantID, start, end)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	seen := make(map[period.Month]struct{}, len(records))
	summary := &Summary{Start: start, End: end}
	var scope1, scope2 float64
	for i := range records {
		record := &records[i]
		if _, dup := seen[record.Month]; dup {
			continue
		}
		seen[record.Month] = struct{}{}

		scopes := emissions.Compute(record.Reading())
		scope1 += scopes.Scope1
		scope2 += scopes.Scope2
		summary.TotalEmission += record.TotalEmission

		summary.Monthly = append(summary.Monthly, MonthlyResult{
			Month:          record.Month.String(),
			ElectricityKWh: record.ElectricityKWh,
			GasolineL:      record.GasolineL,
			NaturalGasM3:   record.NaturalGasM3,
			DistrictHeatGJ: record.DistrictHeatGJ,
			TotalEmission:  record.TotalEmission,
		})
		summary.Scopes = append(summary.Scopes, ScopeSplit{
			Month:  record.Month.String(),
			Scope1: emissions.Round2(scopes.Scope1),
			Scope2: emissions.Round2(scopes.Scope2),
		})
	}

	if len(summary.Monthly) == 0 {
		result = metrics.ResultError
		return nil, emissions.ErrNoRecords
	}

	summary.TotalEmission = emissions.Round2(summary.TotalEmission)
	summary.Scope1Total = emissions.Round2(scope1)
	summary.Scope2Total = emissions.Round2(scope2)
	if summary.TotalEmission > 0 {
		summary.Scope1Pct = emissions.Round2(scope1 / summary.TotalEmission * 100)
		summary.Scope2Pct = emissions.Round2(scope2 / summary.TotalEmission * 100)
	}

	if period.Span(start, end) > longPeriodMonths {
		summary.Yearly = make(map[string]float64)
		for _, monthly := range summary.Monthly {
			month, err := period.Parse(monthly.Month)
			if err != nil {
				continue
			}
			summary.Yearly[month.YearKey()] = emissions.Round2(summary.Yearly[month.YearKey()] + monthly.TotalEmission)
		}
	}
	return summary, nil
}

// LatestWindow returns the tenant's current report window, or ErrNoReport.
func (s *ReportService) LatestWindow(ctx context.Context, tenantID string) (*emissions.ReportWindow, error) {
	window, err := s.windows.LatestByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, emissions.ErrNoReport
	}
	return window, nil
}
