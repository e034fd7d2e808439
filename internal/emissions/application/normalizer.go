package application

import (
	"fmt"
	"strconv"
	"strings"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// Canonical column names after header cleanup.
const (
	columnMonth        = "month"
	columnElectricity  = "electricity"
	columnGasoline     = "gasoline"
	columnNaturalGas   = "natural_gas"
	columnDistrictHeat = "district_heating"
)

// columnAliases maps cleaned header variants to canonical quantity columns.
// Unit suffixes ("electricity (kWh)") are already stripped by cleanColumn
// before this lookup.
var columnAliases = map[string]string{
	"month":               columnMonth,
	"electricity":         columnElectricity,
	"electricity_kwh":     columnElectricity,
	"gasoline":            columnGasoline,
	"gasoline_l":          columnGasoline,
	"natural_gas":         columnNaturalGas,
	"natural_gas_m3":      columnNaturalGas,
	"naturalgas":          columnNaturalGas,
	"district_heating":    columnDistrictHeat,
	"district_heating_gj": columnDistrictHeat,
	"districtheating":     columnDistrictHeat,
}

// Normalize converts raw upload rows into canonical readings. Column names
// are cleaned (trimmed, lower-cased, separators collapsed, unit suffixes
// stripped); a month column is required; missing quantities default to zero.
// Rows come back in input order. Normalize has no side effects.
func Normalize(rows []map[string]string) ([]emissions.UtilityReading, error) {
	if len(rows) == 0 {
		return nil, emissions.ErrEmptyUpload
	}

	readings := make([]emissions.UtilityReading, 0, len(rows))
	for i, raw := range rows {
		row := make(map[string]string, len(raw))
		for name, value := range raw {
			canonical, ok := columnAliases[cleanColumn(name)]
			if !ok {
				continue
			}
			row[canonical] = strings.TrimSpace(value)
		}

		monthValue, ok := row[columnMonth]
		if !ok || monthValue == "" {
			return nil, fmt.Errorf("%w: month (row %d)", emissions.ErrMissingColumn, i+1)
		}
		month, err := period.Parse(monthValue)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		reading := emissions.UtilityReading{Month: month}
		if reading.ElectricityKWh, err = parseQuantity(row[columnElectricity]); err != nil {
			return nil, fmt.Errorf("row %d electricity: %w", i+1, err)
		}
		if reading.GasolineL, err = parseQuantity(row[columnGasoline]); err != nil {
			return nil, fmt.Errorf("row %d gasoline: %w", i+1, err)
		}
		if reading.NaturalGasM3, err = parseQuantity(row[columnNaturalGas]); err != nil {
			return nil, fmt.Errorf("row %d natural_gas: %w", i+1, err)
		}
		if reading.DistrictHeatGJ, err = parseQuantity(row[columnDistrictHeat]); err != nil {
			return nil, fmt.Errorf("row %d district_heating: %w", i+1, err)
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

// cleanColumn normalizes one header cell: trim, lower-case, drop a trailing
// parenthesized unit, collapse separators to underscores, strip leftover
// non-alphanumeric suffixes.
func cleanColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if open := strings.Index(name, "("); open >= 0 {
		name = strings.TrimSpace(name[:open])
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// parseQuantity coerces a cell to a non-negative float. Empty cells are zero;
// thousands separators are tolerated; negatives are clamped to zero.
func parseQuantity(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	value = strings.ReplaceAll(value, ",", "")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", emissions.ErrBadCell, value)
	}
	if parsed < 0 {
		return 0, nil
	}
	return parsed, nil
}
