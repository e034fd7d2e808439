package emissions

import (
	"math"
	"time"

	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// UtilityReading is one month of utility consumption for one company,
// produced by the upload normalizer. Quantities are already coerced to
// non-negative numbers.
type UtilityReading struct {
	Month          period.Month
	ElectricityKWh float64
	GasolineL      float64
	NaturalGasM3   float64
	DistrictHeatGJ float64
}

// Scopes is the computed emission split for a single reading, in kg CO2.
type Scopes struct {
	Scope1 float64
	Scope2 float64
	Total  float64
}

// Compute converts a reading into Scope 1/2 emissions. Scope subtotals are
// left unrounded; only the total is rounded, to two decimals.
func Compute(r UtilityReading) Scopes {
	scope1 := r.GasolineL*FactorGasoline + r.NaturalGasM3*FactorNaturalGas
	scope2 := r.ElectricityKWh*FactorElectricity + r.DistrictHeatGJ*FactorDistrictHeating
	return Scopes{
		Scope1: scope1,
		Scope2: scope2,
		Total:  Round2(scope1 + scope2),
	}
}

// Record builds the persisted record for a reading, stamping ownership and
// the derived total.
func (r UtilityReading) Record(tenantID, company string, now time.Time) *EmissionRecord {
	return &EmissionRecord{
		TenantID:       tenantID,
		Company:        company,
		Month:          r.Month,
		ElectricityKWh: r.ElectricityKWh,
		GasolineL:      r.GasolineL,
		NaturalGasM3:   r.NaturalGasM3,
		DistrictHeatGJ: r.DistrictHeatGJ,
		TotalEmission:  Compute(r).Total,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
}

// Round2 rounds to two decimal places, the precision of every persisted or
// displayed emission amount.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
