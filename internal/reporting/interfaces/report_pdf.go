package interfaces

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	reportapp "github.com/dahyun0301/carbon-report-server/internal/reporting/application"
)

// ReportHeader carries the display fields above the numbers.
type ReportHeader struct {
	Company   string
	Industry  string
	Allowance float64
}

// BuildReportPDF renders the emission report: header, scope summary,
// allowance verdict, bar charts, monthly table and feedback bullets.
func BuildReportPDF(header ReportHeader, summary *reportapp.Summary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("report pdf: nil summary")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Carbon Emission Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(95, 6, fmt.Sprintf("Company: %s", header.Company))
	pdf.Cell(0, 6, fmt.Sprintf("Industry: %s", header.Industry))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s ~ %s", summary.Start, summary.End))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, "Scope Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Scope 1: %.2f kgCO2", summary.Scope1Total))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Scope 2: %.2f kgCO2", summary.Scope2Total))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %.2f kgCO2", summary.TotalEmission))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, "Allowance")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	if summary.TotalEmission <= header.Allowance {
		pdf.Cell(0, 6, fmt.Sprintf("Within allowance: %.2f kgCO2 remaining", header.Allowance-summary.TotalEmission))
	} else {
		pdf.Cell(0, 6, fmt.Sprintf("Allowance exceeded: %.2f kgCO2 over", summary.TotalEmission-header.Allowance))
	}
	pdf.Ln(10)

	if len(summary.Yearly) > 0 {
		drawBarChart(pdf, "Yearly Emissions", yearlyBars(summary.Yearly))
	}
	drawBarChart(pdf, "Monthly Emissions", monthlyBars(summary.Monthly))

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, "Monthly Detail")
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(24, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(34, 6, "Electricity (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Gasoline (L)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(34, 6, "Natural gas (m3)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(34, 6, "Dist. heating (GJ)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(34, 6, "Total (kgCO2)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range summary.Monthly {
		pdf.CellFormat(24, 6, row.Month, "1", 0, "C", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.2f", row.ElectricityKWh), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", row.GasolineL), "1", 0, "R", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.2f", row.NaturalGasM3), "1", 0, "R", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.2f", row.DistrictHeatGJ), "1", 0, "R", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.2f", row.TotalEmission), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, "Feedback")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("- Total emissions for the period: %.2f kgCO2.", summary.TotalEmission))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("- Scope 1 share: %.1f%%, Scope 2 share: %.1f%%.", summary.Scope1Pct, summary.Scope2Pct))
	pdf.Ln(5)
	pdf.Cell(0, 5, "- Review the highest-consumption utilities for efficiency gains.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type bar struct {
	label string
	value float64
}

func monthlyBars(monthly []reportapp.MonthlyResult) []bar {
	bars := make([]bar, 0, len(monthly))
	for _, row := range monthly {
		bars = append(bars, bar{label: row.Month, value: row.TotalEmission})
	}
	return bars
}

func yearlyBars(yearly map[string]float64) []bar {
	years := make([]string, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	sort.Strings(years)
	bars := make([]bar, 0, len(years))
	for _, year := range years {
		bars = append(bars, bar{label: year, value: yearly[year]})
	}
	return bars
}

// drawBarChart renders a simple vertical bar chart; gofpdf has no chart
// primitives so bars are plain rectangles over a baseline.
func drawBarChart(pdf *gofpdf.Fpdf, title string, bars []bar) {
	if len(bars) == 0 {
		return
	}
	const (
		chartWidth  = 170.0
		chartHeight = 40.0
		originX     = 20.0
	)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)

	maxValue := 0.0
	for _, b := range bars {
		if b.value > maxValue {
			maxValue = b.value
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	top := pdf.GetY()
	baseline := top + chartHeight
	step := chartWidth / float64(len(bars))
	barWidth := step * 0.6

	pdf.SetFillColor(99, 140, 110)
	pdf.SetDrawColor(60, 60, 60)
	for i, b := range bars {
		height := chartHeight * (b.value / maxValue)
		x := originX + float64(i)*step + (step-barWidth)/2
		pdf.Rect(x, baseline-height, barWidth, height, "F")
	}
	pdf.Line(originX, baseline, originX+chartWidth, baseline)

	pdf.SetY(baseline + 1)
	pdf.SetFont("Arial", "", 6)
	for i, b := range bars {
		x := originX + float64(i)*step
		pdf.SetXY(x, baseline+1)
		pdf.CellFormat(step, 3, b.label, "", 0, "C", false, 0, "")
	}
	pdf.SetY(baseline + 8)
}
