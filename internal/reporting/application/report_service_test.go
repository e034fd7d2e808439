package application

import (
	"context"
	"errors"
	"testing"
	"time"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/emissions/infrastructure/memory"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

func newReportFixture(t *testing.T) (*ReportService, *memory.RecordRepository, *memory.WindowRepository) {
	t.Helper()
	records := memory.NewRecordRepository()
	windows := memory.NewWindowRepository()
	service, err := NewReportService(records, windows)
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}
	return service, records, windows
}

func storeMonth(t *testing.T, repo *memory.RecordRepository, tenantID, company, month string, electricity float64) {
	t.Helper()
	m, err := period.Parse(month)
	if err != nil {
		t.Fatalf("parse month %q: %v", month, err)
	}
	reading := emissions.UtilityReading{Month: m, ElectricityKWh: electricity}
	if _, err := repo.ReplaceAll(context.Background(), []*emissions.EmissionRecord{
		reading.Record(tenantID, company, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
	}); err != nil {
		t.Fatalf("store month: %v", err)
	}
}

func mustMonth(t *testing.T, value string) period.Month {
	t.Helper()
	m, err := period.Parse(value)
	if err != nil {
		t.Fatalf("parse month %q: %v", value, err)
	}
	return m
}

func TestSummarize_RangeBounds(t *testing.T) {
	service, records, _ := newReportFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2023-12", 100)
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	storeMonth(t, records, "tenant-a", "Acme", "2024-03", 200)
	storeMonth(t, records, "tenant-a", "Acme", "2024-04", 100)
	storeMonth(t, records, "tenant-b", "Other", "2024-02", 100)

	summary, err := service.Summarize(context.Background(), "tenant-a", mustMonth(t, "2024-01"), mustMonth(t, "2024-03"))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(summary.Monthly) != 2 {
		t.Fatalf("expected 2 months inside range, got %d", len(summary.Monthly))
	}
	if summary.Monthly[0].Month != "2024-01" || summary.Monthly[1].Month != "2024-03" {
		t.Fatalf("wrong months: %+v", summary.Monthly)
	}
	// 100 kWh = 41.7, 200 kWh = 83.4
	if summary.TotalEmission != 125.1 {
		t.Fatalf("total = %v, want 125.1", summary.TotalEmission)
	}
	if summary.Scope1Total != 0 || summary.Scope2Total != 125.1 {
		t.Fatalf("scope totals = %v / %v", summary.Scope1Total, summary.Scope2Total)
	}
	if summary.Scope2Pct != 100 {
		t.Fatalf("scope2 pct = %v, want 100", summary.Scope2Pct)
	}
}

func TestSummarize_EmptyWindow(t *testing.T) {
	service, records, _ := newReportFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2023-06", 100)

	_, err := service.Summarize(context.Background(), "tenant-a", mustMonth(t, "2024-01"), mustMonth(t, "2024-03"))
	if !errors.Is(err, emissions.ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestSummarize_YearlyRollupOnLongWindow(t *testing.T) {
	service, records, _ := newReportFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2023-11", 100)
	storeMonth(t, records, "tenant-a", "Acme", "2023-12", 100)
	storeMonth(t, records, "tenant-a", "Acme", "2024-06", 200)

	// 2023-01 .. 2024-06 spans 17 months, so the yearly roll-up kicks in.
	summary, err := service.Summarize(context.Background(), "tenant-a", mustMonth(t, "2023-01"), mustMonth(t, "2024-06"))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Yearly == nil {
		t.Fatal("expected yearly roll-up for a window longer than 12 months")
	}
	if got := summary.Yearly["2023"]; got != 83.4 {
		t.Fatalf("yearly[2023] = %v, want 83.4", got)
	}
	if got := summary.Yearly["2024"]; got != 83.4 {
		t.Fatalf("yearly[2024] = %v, want 83.4", got)
	}
}

func TestSummarize_NoYearlyRollupOnTwelveMonthWindow(t *testing.T) {
	service, records, _ := newReportFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)

	// 2024-01 .. 2024-12 spans exactly 12 months: no roll-up.
	summary, err := service.Summarize(context.Background(), "tenant-a", mustMonth(t, "2024-01"), mustMonth(t, "2024-12"))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Yearly != nil {
		t.Fatalf("unexpected yearly roll-up: %v", summary.Yearly)
	}
}

func TestSubmit_AppendsWindowAndSummarizes(t *testing.T) {
	service, records, windows := newReportFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-02", 100)

	summary, err := service.Submit(context.Background(), "tenant-a", ReportRequest{
		Company:   "Acme",
		Industry:  "steel",
		Start:     mustMonth(t, "2024-01"),
		End:       mustMonth(t, "2024-03"),
		Allowance: 500,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if summary.TotalEmission != 41.7 {
		t.Fatalf("total = %v, want 41.7", summary.TotalEmission)
	}
	if windows.Count() != 1 {
		t.Fatalf("expected 1 window, got %d", windows.Count())
	}

	window, err := service.LatestWindow(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("latest window: %v", err)
	}
	if window.Company != "Acme" || window.Allowance != 500 {
		t.Fatalf("unexpected window: %+v", window)
	}
}

func TestSubmit_NewestWindowWins(t *testing.T) {
	service, records, _ := newReportFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-02", 100)

	first := ReportRequest{Start: mustMonth(t, "2024-01"), End: mustMonth(t, "2024-03"), Allowance: 100}
	second := ReportRequest{Start: mustMonth(t, "2024-02"), End: mustMonth(t, "2024-02"), Allowance: 900}
	if _, err := service.Submit(context.Background(), "tenant-a", first); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := service.Submit(context.Background(), "tenant-a", second); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	window, err := service.LatestWindow(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("latest window: %v", err)
	}
	if window.Allowance != 900 {
		t.Fatalf("latest window allowance = %v, want 900", window.Allowance)
	}
}

func TestLatestWindow_NoReport(t *testing.T) {
	service, _, _ := newReportFixture(t)
	_, err := service.LatestWindow(context.Background(), "tenant-a")
	if !errors.Is(err, emissions.ErrNoReport) {
		t.Fatalf("expected ErrNoReport, got %v", err)
	}
}
