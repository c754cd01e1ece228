package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/scrapers/banner"
	"os"
)

const report_csv_write = "csv.write"

type CsvWriter struct {
	tel telemetry.API
}

func (w CsvWriter) Write(ctx context.Context, term string, courses []banner.CourseSummary, path string) error {
	if len(courses) == 0 {
		return ErrNoCourses
	}

	f, err := os.Create(path)
	if err != nil {
		w.tel.ReportBroken(report_csv_write, fmt.Errorf("create: %w", err), path)
		return err
	}
	defer f.Close()

	out := csv.NewWriter(f)
	err = out.Write(banner.Columns)
	if err != nil {
		w.tel.ReportBroken(report_csv_write, fmt.Errorf("write header: %w", err), path)
		return err
	}
	for _, record := range banner.FlattenAll(courses) {
		err = out.Write(record.Values())
		if err != nil {
			w.tel.ReportBroken(report_csv_write, fmt.Errorf("write row: %w", err), path, record.CRN)
			return err
		}
	}
	out.Flush()
	err = out.Error()
	if err != nil {
		w.tel.ReportBroken(report_csv_write, fmt.Errorf("flush: %w", err), path)
		return err
	}

	return f.Close()
}
