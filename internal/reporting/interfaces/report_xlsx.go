package interfaces

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	reportapp "github.com/dahyun0301/carbon-report-server/internal/reporting/application"
)

// BuildReportXLSX renders the emission report as a workbook: a summary sheet
// plus a monthly sheet, and a yearly sheet for long windows.
func BuildReportXLSX(header ReportHeader, summary *reportapp.Summary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("report xlsx: nil summary")
	}

	f := excelize.NewFile()
	summarySheet := "summary"
	monthlySheet := "monthly"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(monthlySheet)

	_ = f.SetCellValue(summarySheet, "A1", "Carbon Emission Report")
	_ = f.SetCellValue(summarySheet, "A3", "Company")
	_ = f.SetCellValue(summarySheet, "B3", header.Company)
	_ = f.SetCellValue(summarySheet, "A4", "Industry")
	_ = f.SetCellValue(summarySheet, "B4", header.Industry)
	_ = f.SetCellValue(summarySheet, "A5", "Period")
	_ = f.SetCellValue(summarySheet, "B5", fmt.Sprintf("%s ~ %s", summary.Start, summary.End))
	_ = f.SetCellValue(summarySheet, "A6", "Scope 1 (kgCO2)")
	_ = f.SetCellValue(summarySheet, "B6", summary.Scope1Total)
	_ = f.SetCellValue(summarySheet, "A7", "Scope 2 (kgCO2)")
	_ = f.SetCellValue(summarySheet, "B7", summary.Scope2Total)
	_ = f.SetCellValue(summarySheet, "A8", "Total (kgCO2)")
	_ = f.SetCellValue(summarySheet, "B8", summary.TotalEmission)
	_ = f.SetCellValue(summarySheet, "A9", "Allowance (kgCO2)")
	_ = f.SetCellValue(summarySheet, "B9", header.Allowance)
	_ = f.SetCellValue(summarySheet, "A10", "Remaining (kgCO2)")
	_ = f.SetCellValue(summarySheet, "B10", header.Allowance-summary.TotalEmission)

	_ = f.SetCellValue(monthlySheet, "A1", "Month")
	_ = f.SetCellValue(monthlySheet, "B1", "Electricity (kWh)")
	_ = f.SetCellValue(monthlySheet, "C1", "Gasoline (L)")
	_ = f.SetCellValue(monthlySheet, "D1", "Natural gas (m3)")
	_ = f.SetCellValue(monthlySheet, "E1", "District heating (GJ)")
	_ = f.SetCellValue(monthlySheet, "F1", "Scope 1 (kgCO2)")
	_ = f.SetCellValue(monthlySheet, "G1", "Scope 2 (kgCO2)")
	_ = f.SetCellValue(monthlySheet, "H1", "Total (kgCO2)")
	for i, row := range summary.Monthly {
		line := i + 2
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("A%d", line), row.Month)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("B%d", line), row.ElectricityKWh)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("C%d", line), row.GasolineL)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("D%d", line), row.NaturalGasM3)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("E%d", line), row.DistrictHeatGJ)
		if i < len(summary.Scopes) {
			_ = f.SetCellValue(monthlySheet, fmt.Sprintf("F%d", line), summary.Scopes[i].Scope1)
			_ = f.SetCellValue(monthlySheet, fmt.Sprintf("G%d", line), summary.Scopes[i].Scope2)
		}
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("H%d", line), row.TotalEmission)
	}

	if len(summary.Yearly) > 0 {
		yearlySheet := "yearly"
		f.NewSheet(yearlySheet)
		_ = f.SetCellValue(yearlySheet, "A1", "Year")
		_ = f.SetCellValue(yearlySheet, "B1", "Total (kgCO2)")
		years := make([]string, 0, len(summary.Yearly))
		for year := range summary.Yearly {
			years = append(years, year)
		}
		sort.Strings(years)
		for i, year := range years {
			line := i + 2
			_ = f.SetCellValue(yearlySheet, fmt.Sprintf("A%d", line), year)
			_ = f.SetCellValue(yearlySheet, fmt.Sprintf("B%d", line), summary.Yearly[year])
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
