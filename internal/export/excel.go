package export

import (
	"context"
	"fmt"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/scrapers/banner"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const report_excel_write = "excel.write"

const (
	// column widths are measured over the header and this many rows
	widthSampleRows = 100
	maxColumnWidth  = 50
)

type ExcelWriter struct {
	tel telemetry.API
}

func (w ExcelWriter) Write(ctx context.Context, term string, courses []banner.CourseSummary, path string) error {
	if len(courses) == 0 {
		return ErrNoCourses
	}

	err := w.write(term, banner.FlattenAll(courses), path)
	if err != nil {
		w.tel.ReportBroken(report_excel_write, err, path)
		return err
	}
	return nil
}

// columnWidths returns the width of each column, which is the longest of the header
// and the first widthSampleRows values plus padding, capped at maxColumnWidth.
func columnWidths(records []banner.FlatRecord) []float64 {
	widths := make([]float64, len(banner.Columns))
	for col, header := range banner.Columns {
		longest := utf8.RuneCountInString(header)
		for row := 0; row < len(records) && row < widthSampleRows; row++ {
			longest = max(longest, utf8.RuneCountInString(records[row].Values()[col]))
		}
		widths[col] = float64(min(longest+2, maxColumnWidth))
	}
	return widths
}

func (w ExcelWriter) write(term string, records []banner.FlatRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Courses %s", term)
	err := f.SetSheetName(f.GetSheetName(0), sheet)
	if err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Vertical: "top",
			WrapText: true,
		},
	})
	if err != nil {
		return fmt.Errorf("cell style: %w", err)
	}

	header := make([]any, len(banner.Columns))
	for i, c := range banner.Columns {
		header[i] = c
	}
	err = f.SetSheetRow(sheet, "A1", &header)
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, record := range records {
		values := record.Values()
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	lastColumn, err := excelize.ColumnNumberToName(len(banner.Columns))
	if err != nil {
		return err
	}
	err = f.SetCellStyle(sheet, "A1", lastColumn+"1", headerStyle)
	if err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	err = f.SetCellStyle(sheet, "A2", fmt.Sprintf("%s%d", lastColumn, len(records)+1), cellStyle)
	if err != nil {
		return fmt.Errorf("style cells: %w", err)
	}

	for i, width := range columnWidths(records) {
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		err = f.SetColWidth(sheet, column, column, width)
		if err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	return f.SaveAs(path)
}
