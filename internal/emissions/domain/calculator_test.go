package emissions

import (
	"testing"
	"time"

	"github.com/dahyun0301/carbon-report-server/internal/period"
)

func TestCompute(t *testing.T) {
	reading := UtilityReading{
		Month:          period.Month{Year: 2024, Month: time.January},
		ElectricityKWh: 1000,
		GasolineL:      50,
		NaturalGasM3:   20,
		DistrictHeatGJ: 5,
	}

	got := Compute(reading)
	if got.Scope1 != 119.56 {
		t.Errorf("scope1 = %v, want 119.56", got.Scope1)
	}
	if got.Scope2 != 967 {
		t.Errorf("scope2 = %v, want 967", got.Scope2)
	}
	if got.Total != 1086.56 {
		t.Errorf("total = %v, want 1086.56", got.Total)
	}
}

func TestComputeTotalIsRoundedSum(t *testing.T) {
	readings := []UtilityReading{
		{},
		{ElectricityKWh: 0.001},
		{GasolineL: 1.005, NaturalGasM3: 3.333},
		{ElectricityKWh: 123456.789, GasolineL: 99.99, NaturalGasM3: 0.1, DistrictHeatGJ: 7.77},
	}
	for _, r := range readings {
		got := Compute(r)
		if want := Round2(got.Scope1 + got.Scope2); got.Total != want {
			t.Errorf("total = %v, want round2(scope1+scope2) = %v", got.Total, want)
		}
	}
}

func TestRecordStampsOwnershipAndTotal(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	reading := UtilityReading{
		Month:          period.Month{Year: 2024, Month: time.March},
		ElectricityKWh: 10,
	}

	rec := reading.Record("tenant-a", "Acme", now)
	if rec.TenantID != "tenant-a" || rec.Company != "Acme" {
		t.Fatalf("ownership not stamped: %+v", rec)
	}
	if rec.TotalEmission != 4.17 {
		t.Fatalf("total = %v, want 4.17", rec.TotalEmission)
	}
	if !rec.SameQuantities(reading) {
		t.Fatal("record should match its own reading")
	}
}

func TestSameQuantitiesTwoDecimalPrecision(t *testing.T) {
	rec := UtilityReading{GasolineL: 10.004}.Record("t", "c", time.Now())
	if !rec.SameQuantities(UtilityReading{GasolineL: 10.0044}) {
		t.Fatal("values equal at 2 decimals should compare equal")
	}
	if rec.SameQuantities(UtilityReading{GasolineL: 10.01}) {
		t.Fatal("values differing at 2 decimals should compare unequal")
	}
}
