package application

import (
	"errors"
	"testing"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
)

func TestNormalize_HeaderAliases(t *testing.T) {
	rows := []map[string]string{
		{
			" Month ":             "2024-03",
			"Electricity (kWh)":   "1,000",
			"Gasoline (L)":        "50",
			"Natural Gas (m3)":    "20",
			"District Heating GJ": "5",
		},
	}

	readings, err := Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
	reading := readings[0]
	if got := reading.Month.String(); got != "2024-03" {
		t.Fatalf("month = %q", got)
	}
	if reading.ElectricityKWh != 1000 || reading.GasolineL != 50 || reading.NaturalGasM3 != 20 || reading.DistrictHeatGJ != 5 {
		t.Fatalf("quantities = %+v", reading)
	}
}

func TestNormalize_MissingQuantitiesDefaultToZero(t *testing.T) {
	readings, err := Normalize([]map[string]string{{"month": "2024-01", "electricity": "100"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if readings[0].GasolineL != 0 || readings[0].NaturalGasM3 != 0 || readings[0].DistrictHeatGJ != 0 {
		t.Fatalf("missing quantities should be zero: %+v", readings[0])
	}
}

func TestNormalize_NegativeClampedToZero(t *testing.T) {
	readings, err := Normalize([]map[string]string{{"month": "2024-01", "gasoline": "-12.5"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if readings[0].GasolineL != 0 {
		t.Fatalf("negative quantity should clamp to zero, got %v", readings[0].GasolineL)
	}
}

func TestNormalize_MissingMonthColumn(t *testing.T) {
	_, err := Normalize([]map[string]string{{"electricity": "100"}})
	if !errors.Is(err, emissions.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestNormalize_BadCell(t *testing.T) {
	_, err := Normalize([]map[string]string{{"month": "2024-01", "electricity": "lots"}})
	if !errors.Is(err, emissions.ErrBadCell) {
		t.Fatalf("expected ErrBadCell, got %v", err)
	}
}

func TestNormalize_EmptyUpload(t *testing.T) {
	_, err := Normalize(nil)
	if !errors.Is(err, emissions.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestCleanColumn(t *testing.T) {
	cases := map[string]string{
		"  Natural Gas (m3) ": "natural_gas",
		"District-Heating":    "district_heating",
		"ELECTRICITY_kWh":     "electricity_kwh",
		"month":               "month",
	}
	for in, want := range cases {
		if got := cleanColumn(in); got != want {
			t.Fatalf("cleanColumn(%q) = %q, want %q", in, got, want)
		}
	}
}
