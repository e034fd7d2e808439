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

func newMatchFixture(t *testing.T) (*MatchService, *memory.RecordRepository, *memory.WindowRepository) {
	t.Helper()
	records := memory.NewRecordRepository()
	windows := memory.NewWindowRepository()
	service, err := NewMatchService(records, windows)
	if err != nil {
		t.Fatalf("new match service: %v", err)
	}
	return service, records, windows
}

func mustMonth(t *testing.T, value string) period.Month {
	t.Helper()
	m, err := period.Parse(value)
	if err != nil {
		t.Fatalf("parse month %q: %v", value, err)
	}
	return m
}

func storeMonth(t *testing.T, repo *memory.RecordRepository, tenantID, company, month string, electricity float64) {
	t.Helper()
	reading := emissions.UtilityReading{Month: mustMonth(t, month), ElectricityKWh: electricity}
	if _, err := repo.ReplaceAll(context.Background(), []*emissions.EmissionRecord{
		reading.Record(tenantID, company, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
	}); err != nil {
		t.Fatalf("store month: %v", err)
	}
}

func appendWindow(t *testing.T, repo *memory.WindowRepository, tenantID, company string, allowance float64) {
	t.Helper()
	window := &emissions.ReportWindow{
		TenantID:  tenantID,
		Company:   company,
		Start:     mustMonth(t, "2024-01"),
		End:       mustMonth(t, "2024-03"),
		Allowance: allowance,
	}
	if err := repo.Append(context.Background(), window); err != nil {
		t.Fatalf("append window: %v", err)
	}
}

func TestMatch_PartitionsPeers(t *testing.T) {
	service, records, windows := newMatchFixture(t)

	// tenant-a: 41.7 emitted against 100 allowance -> surplus 58.3.
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	appendWindow(t, windows, "tenant-a", "Acme", 100)

	// tenant-b: 417 emitted against 100 allowance -> deficit.
	storeMonth(t, records, "tenant-b", "Borealis", "2024-01", 1000)
	appendWindow(t, windows, "tenant-b", "Borealis", 100)

	// tenant-c: 83.4 emitted against 200 allowance -> surplus.
	storeMonth(t, records, "tenant-c", "Corex", "2024-02", 200)
	appendWindow(t, windows, "tenant-c", "Corex", 200)

	result, err := service.Match(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.Own.Status != StatusSurplus {
		t.Fatalf("own status = %q, want surplus", result.Own.Status)
	}
	if result.Own.Amount != 58.3 {
		t.Fatalf("own amount = %v, want 58.3", result.Own.Amount)
	}
	if len(result.Surplus) != 1 || result.Surplus[0].TenantID != "tenant-c" {
		t.Fatalf("surplus peers = %+v", result.Surplus)
	}
	if len(result.Deficit) != 1 || result.Deficit[0].TenantID != "tenant-b" {
		t.Fatalf("deficit peers = %+v", result.Deficit)
	}
	if result.Deficit[0].Difference != -317 {
		t.Fatalf("deficit difference = %v, want -317", result.Deficit[0].Difference)
	}
}

func TestMatch_SelfNeverAPeer(t *testing.T) {
	service, records, windows := newMatchFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	appendWindow(t, windows, "tenant-a", "Acme", 500)

	result, err := service.Match(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(result.Surplus) != 0 || len(result.Deficit) != 0 {
		t.Fatalf("requesting tenant leaked into peers: %+v", result)
	}
}

func TestMatch_ZeroDifferenceExcluded(t *testing.T) {
	service, records, windows := newMatchFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	appendWindow(t, windows, "tenant-a", "Acme", 500)

	// tenant-b's allowance exactly equals its emissions.
	storeMonth(t, records, "tenant-b", "Borealis", "2024-01", 100)
	appendWindow(t, windows, "tenant-b", "Borealis", 41.7)

	result, err := service.Match(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(result.Surplus) != 0 || len(result.Deficit) != 0 {
		t.Fatalf("zero-difference peer should be excluded: %+v", result)
	}
}

func TestMatch_ZeroRemainingIsDeficit(t *testing.T) {
	service, records, windows := newMatchFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	appendWindow(t, windows, "tenant-a", "Acme", 41.7)

	result, err := service.Match(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.Own.Status != StatusDeficit {
		t.Fatalf("zero remaining must be deficit, got %q", result.Own.Status)
	}
	if result.Own.Amount != 0 {
		t.Fatalf("own amount = %v, want 0", result.Own.Amount)
	}
}

func TestMatch_CompanyFallback(t *testing.T) {
	service, records, windows := newMatchFixture(t)

	// Window carries no company, records do: record name wins.
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	appendWindow(t, windows, "tenant-a", "", 500)

	result, err := service.Match(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.Own.Company != "Acme" {
		t.Fatalf("own company = %q, want record fallback", result.Own.Company)
	}

	// Neither the window nor any record names a company.
	appendWindow(t, windows, "tenant-b", "", 500)
	result, err = service.Match(context.Background(), "tenant-b")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.Own.Company != UnspecifiedCompany {
		t.Fatalf("own company = %q, want %q", result.Own.Company, UnspecifiedCompany)
	}
}

func TestMatch_NoReport(t *testing.T) {
	service, _, _ := newMatchFixture(t)
	_, err := service.Match(context.Background(), "tenant-a")
	if !errors.Is(err, emissions.ErrNoReport) {
		t.Fatalf("expected ErrNoReport, got %v", err)
	}
}

func TestMatch_PeerWindowScopesItsOwnRange(t *testing.T) {
	service, records, windows := newMatchFixture(t)
	storeMonth(t, records, "tenant-a", "Acme", "2024-01", 100)
	appendWindow(t, windows, "tenant-a", "Acme", 500)

	// tenant-b has records outside its window; only 2024-01..03 counts.
	storeMonth(t, records, "tenant-b", "Borealis", "2024-01", 100)
	storeMonth(t, records, "tenant-b", "Borealis", "2023-01", 10000)
	appendWindow(t, windows, "tenant-b", "Borealis", 100)

	result, err := service.Match(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(result.Surplus) != 1 || result.Surplus[0].Difference != 58.3 {
		t.Fatalf("peer difference should ignore out-of-window records: %+v", result.Surplus)
	}
}
