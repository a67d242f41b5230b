package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

const reportTitle = "IT Ticket Analytics Report"

// WriteExcel renders the aggregation result (and the underlying collection)
// into a formatted workbook: one sheet per metric table, bar/line charts on
// the volume sheets, and the raw data last. It only reads the result; the
// caller keeps ownership.
func WriteExcel(path string, tickets []models.Ticket, res *models.AggregationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, res); err != nil {
		return err
	}

	if err := writeTable(f, "By Category", headerStyle,
		[]string{"Category", "Count", "Percentage"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.ByCategory))
			for _, r := range res.ByCategory {
				rows = append(rows, []interface{}{r.Label, r.Count, r.Percentage})
			}
			return rows
		}()); err != nil {
		return err
	}
	if len(res.ByCategory) > 0 {
		if err := f.AddChart("By Category", "E2", &excelize.Chart{
			Type:  excelize.Col,
			Title: []excelize.RichTextRun{{Text: "Tickets by Category"}},
			Series: []excelize.ChartSeries{{
				Name:       "'By Category'!$B$1",
				Categories: fmt.Sprintf("'By Category'!$A$2:$A$%d", len(res.ByCategory)+1),
				Values:     fmt.Sprintf("'By Category'!$B$2:$B$%d", len(res.ByCategory)+1),
			}},
		}); err != nil {
			return fmt.Errorf("failed to add category chart: %w", err)
		}
	}

	if err := writeTable(f, "Priority Distribution", headerStyle,
		[]string{"Priority", "Count", "Percentage"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.ByPriority))
			for _, r := range res.ByPriority {
				rows = append(rows, []interface{}{r.Label, r.Count, r.Percentage})
			}
			return rows
		}()); err != nil {
		return err
	}
	if len(res.ByPriority) > 0 {
		if err := f.AddChart("Priority Distribution", "E2", &excelize.Chart{
			Type:  excelize.Pie,
			Title: []excelize.RichTextRun{{Text: "Priority Distribution"}},
			Series: []excelize.ChartSeries{{
				Name:       "'Priority Distribution'!$B$1",
				Categories: fmt.Sprintf("'Priority Distribution'!$A$2:$A$%d", len(res.ByPriority)+1),
				Values:     fmt.Sprintf("'Priority Distribution'!$B$2:$B$%d", len(res.ByPriority)+1),
			}},
		}); err != nil {
			return fmt.Errorf("failed to add priority chart: %w", err)
		}
	}

	if err := writeTable(f, "Resolution Time", headerStyle,
		[]string{"Priority", "Avg Hours", "Median Hours", "Min Hours", "Max Hours", "Count", "SLA Threshold", "Within SLA %"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.ResolutionByPriority))
			for _, r := range res.ResolutionByPriority {
				rows = append(rows, []interface{}{
					r.Priority, r.AvgHours, r.MedianHours, r.MinHours, r.MaxHours,
					r.Count, deref(r.SLAThreshold), deref(r.WithinSLAPct),
				})
			}
			return rows
		}()); err != nil {
		return err
	}

	if err := writeTable(f, "Team Performance", headerStyle,
		[]string{"Team", "Total Tickets", "Resolved", "Resolution Rate %", "Avg Hours", "Median Hours", "SLA Compliance %"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.TeamPerformance))
			for _, r := range res.TeamPerformance {
				rows = append(rows, []interface{}{
					r.Team, r.TotalTickets, r.ResolvedCount, r.ResolutionRatePct,
					deref(r.AvgResolutionHours), deref(r.MedianResolutionHours), deref(r.SLACompliancePct),
				})
			}
			return rows
		}()); err != nil {
		return err
	}

	if err := writeTable(f, "Technician Performance", headerStyle,
		[]string{"Technician", "Team", "Total Tickets", "Resolved", "Resolution Rate %", "Avg Hours", "Median Hours", "SLA Compliance %"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.TechnicianPerformance))
			for _, r := range res.TechnicianPerformance {
				rows = append(rows, []interface{}{
					r.Technician, r.Team, r.TotalTickets, r.ResolvedCount, r.ResolutionRatePct,
					deref(r.AvgResolutionHours), deref(r.MedianResolutionHours), deref(r.SLACompliancePct),
				})
			}
			return rows
		}()); err != nil {
		return err
	}

	if err := writeTable(f, "Trends", headerStyle,
		[]string{"Period", "Tickets"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.Trend.Points))
			for _, p := range res.Trend.Points {
				rows = append(rows, []interface{}{p.Label, p.Count})
			}
			return rows
		}()); err != nil {
		return err
	}
	if len(res.Trend.Points) > 0 {
		if err := f.AddChart("Trends", "D2", &excelize.Chart{
			Type:  excelize.Line,
			Title: []excelize.RichTextRun{{Text: "Ticket Volume Trend"}},
			Series: []excelize.ChartSeries{{
				Name:       "'Trends'!$B$1",
				Categories: fmt.Sprintf("'Trends'!$A$2:$A$%d", len(res.Trend.Points)+1),
				Values:     fmt.Sprintf("'Trends'!$B$2:$B$%d", len(res.Trend.Points)+1),
			}},
		}); err != nil {
			return fmt.Errorf("failed to add trend chart: %w", err)
		}
	}

	if err := writeTable(f, "SLA Compliance", headerStyle,
		[]string{"Priority", "Measured", "Within SLA", "Compliance %", "Threshold Hours"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(res.SLACompliance))
			for _, r := range res.SLACompliance {
				rows = append(rows, []interface{}{r.Priority, r.TotalMeasured, r.WithinSLA, r.CompliancePct, r.ThresholdHours})
			}
			return rows
		}()); err != nil {
		return err
	}

	if err := writeRawData(f, headerStyle, tickets); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, res *models.AggregationResult) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	f.SetCellValue(sheet, "A1", reportTitle)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", "Generated: "+time.Now().Format("2006-01-02 15:04:05"))

	s := res.Summary
	lines := []struct {
		label string
		value interface{}
	}{
		{"Total Tickets", s.TotalTickets},
		{"Resolved Tickets", s.ResolvedTickets},
		{"Open Tickets", s.OpenTickets},
		{"In Progress Tickets", s.InProgressTickets},
		{"Resolution Rate %", s.ResolutionRatePct},
		{"Avg Resolution Hours", s.AvgResolutionHours},
		{"Median Resolution Hours", s.MedianResolutionHours},
		{"Date Range Start", s.DateRangeStart},
		{"Date Range End", s.DateRangeEnd},
		{"Top Category", s.TopCategory},
		{"Busiest Day", s.BusiestDay},
		{"Result Status", res.Status},
	}
	for i, line := range lines {
		row := i + 4
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.value)
	}
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 20)
	return nil
}

// writeTable creates a sheet with a styled header row and one row per entry.
func writeTable(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", last, headerStyle)

	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if v != nil {
				f.SetCellValue(sheet, cell, v)
			}
		}
	}
	endCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", endCol, 18)
	return nil
}

func writeRawData(f *excelize.File, headerStyle int, tickets []models.Ticket) error {
	const sheet = "Raw Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	for col, h := range CSVHeader() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	last, err := excelize.CoordinatesToCellName(len(CSVHeader()), 1)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", last, headerStyle)

	for i, t := range tickets {
		for col, v := range csvRow(t) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}

func deref(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
