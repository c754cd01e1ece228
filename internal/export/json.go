package export

import (
	"context"
	"encoding/json"
	"fmt"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/scrapers/banner"
	"os"
)

const report_json_write = "json.write"

// JsonWriter writes the courses as the server returned them, enrichment data
// included, without flattening.
type JsonWriter struct {
	tel telemetry.API
}

type jsonDocument struct {
	Term       string            `json:"term"`
	TotalCount int               `json:"total_count"`
	Courses    []json.RawMessage `json:"courses"`
}

func (w JsonWriter) Write(ctx context.Context, term string, courses []banner.CourseSummary, path string) error {
	doc := jsonDocument{
		Term:       term,
		TotalCount: len(courses),
		Courses:    make([]json.RawMessage, len(courses)),
	}
	for i, course := range courses {
		raw, err := course.RawRecord()
		if err != nil {
			w.tel.ReportBroken(report_json_write, fmt.Errorf("raw record: %w", err), course.CourseReferenceNumber)
			return err
		}
		doc.Courses[i] = raw
	}

	serialized, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		w.tel.ReportBroken(report_json_write, fmt.Errorf("marshal: %w", err))
		return err
	}
	err = os.WriteFile(path, serialized, 0644)
	if err != nil {
		w.tel.ReportBroken(report_json_write, fmt.Errorf("write file: %w", err), path)
		return err
	}
	return nil
}
