package emissions

import (
	"time"

	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// EmissionRecord is one persisted month of consumption and its derived total
// emission. At most one record exists per (tenant, company, month);
// TotalEmission is always recomputed from the four quantities, never patched.
type EmissionRecord struct {
	TenantID       string
	Company        string
	Month          period.Month
	ElectricityKWh float64
	GasolineL      float64
	NaturalGasM3   float64
	DistrictHeatGJ float64
	TotalEmission  float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reading returns the raw consumption quantities of the record.
func (r *EmissionRecord) Reading() UtilityReading {
	return UtilityReading{
		Month:          r.Month,
		ElectricityKWh: r.ElectricityKWh,
		GasolineL:      r.GasolineL,
		NaturalGasM3:   r.NaturalGasM3,
		DistrictHeatGJ: r.DistrictHeatGJ,
	}
}

// SameQuantities reports whether the stored quantities equal the incoming
// reading at two-decimal precision. Equal rows make an upsert a no-op.
func (r *EmissionRecord) SameQuantities(in UtilityReading) bool {
	return Round2(r.ElectricityKWh) == Round2(in.ElectricityKWh) &&
		Round2(r.GasolineL) == Round2(in.GasolineL) &&
		Round2(r.NaturalGasM3) == Round2(in.NaturalGasM3) &&
		Round2(r.DistrictHeatGJ) == Round2(in.DistrictHeatGJ)
}

// UpsertOutcome describes what a conditional upsert did to one record key.
type UpsertOutcome string

const (
	OutcomeInserted  UpsertOutcome = "inserted"
	OutcomeReplaced  UpsertOutcome = "replaced"
	OutcomeUnchanged UpsertOutcome = "unchanged"
)
