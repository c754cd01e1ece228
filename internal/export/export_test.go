package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/scrapers/banner"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testCourses(t *testing.T) []banner.CourseSummary {
	raw := `[
		{
			"courseReferenceNumber": "11111",
			"subject": "COMP",
			"courseNumber": "1000",
			"sequenceNumber": "01",
			"courseTitle": "Computer Science I",
			"creditHours": 4,
			"faculty": [{"displayName": "A. Smith"}, {"displayName": "B. Jones"}],
			"meetingsFaculty": [{"meetingTime": {"monday": true, "wednesday": true, "beginTime": "1000", "endTime": "1050", "building": "WENT", "room": "100"}}],
			"enrollment": 10,
			"maximumEnrollment": 20
		},
		{
			"courseReferenceNumber": "22222",
			"subject": "MATH",
			"courseNumber": "2500",
			"sequenceNumber": "02",
			"courseTitle": "Linear Algebra, with \"Applications\""
		}
	]`
	var courses []banner.CourseSummary
	err := json.Unmarshal([]byte(raw), &courses)
	if err != nil {
		t.Fatal(err)
	}
	return courses
}

func newWriter(t *testing.T, format Format) Writer {
	w, err := New(format, &telemetry.Recorder{})
	require.NoError(t, err)
	return w
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)
	return ctx
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	require.Equal(t, FormatCsv, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)

	require.Equal(t, "courses_202510.xlsx", FormatExcel.DefaultOutput("202510"))
	require.Equal(t, "courses_202510.db", FormatSqlite.DefaultOutput("202510"))
}

func TestCsvWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.csv")
	err := newWriter(t, FormatCsv).Write(testContext(t), "202510", testCourses(t), path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	require.Equal(t, banner.Columns, rows[0])
	require.Equal(t, "11111", rows[1][0])
	require.Equal(t, "A. Smith, B. Jones", rows[1][8])
	require.Equal(t, "MW", rows[1][9])
	require.Equal(t, `Linear Algebra, with "Applications"`, rows[2][4])
}

func TestEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []Format{FormatCsv, FormatExcel, FormatSqlite} {
		path := filepath.Join(dir, "empty"+format.Extension())
		err := newWriter(t, format).Write(testContext(t), "202510", nil, path)
		require.ErrorIs(t, err, ErrNoCourses)
		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	}

	path := filepath.Join(dir, "empty.json")
	err := newWriter(t, FormatJson).Write(testContext(t), "202510", []banner.CourseSummary{}, path)
	require.NoError(t, err)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"term": "202510", "total_count": 0, "courses": []}`, string(contents))
}

func TestJsonWriter(t *testing.T) {
	courses := testCourses(t)
	courses[0].Detail = banner.Lookup[json.RawMessage]{
		Value:   json.RawMessage(`{"termCode": "202510"}`),
		Present: true,
	}

	path := filepath.Join(t.TempDir(), "courses.json")
	err := newWriter(t, FormatJson).Write(testContext(t), "202510", courses, path)
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Term       string           `json:"term"`
		TotalCount int              `json:"total_count"`
		Courses    []map[string]any `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(contents, &doc))
	require.Equal(t, "202510", doc.Term)
	require.Equal(t, 2, doc.TotalCount)
	require.Equal(t, "11111", doc.Courses[0]["courseReferenceNumber"])
	require.Equal(t, map[string]any{"termCode": "202510"}, doc.Courses[0]["_detailed"])
	require.NotContains(t, doc.Courses[1], "_detailed")
	require.NotContains(t, doc.Courses[1], "_faculty_meeting_times")
}

func TestExcelWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.xlsx")
	err := newWriter(t, FormatExcel).Write(testContext(t), "202510", testCourses(t), path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Courses 202510"}, f.GetSheetList())
	rows, err := f.GetRows("Courses 202510")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, banner.Columns, rows[0])
	require.Equal(t, "WENT 100", rows[1][11])

	width, err := f.GetColWidth("Courses 202510", "A")
	require.NoError(t, err)
	require.Equal(t, float64(7), width)
}

func TestColumnWidths(t *testing.T) {
	records := []banner.FlatRecord{
		{Title: "A very long course title that goes well past the cap of fifty characters"},
		{CRN: "123456789"},
	}
	widths := columnWidths(records)
	require.Len(t, widths, len(banner.Columns))
	require.Equal(t, float64(11), widths[0])
	require.Equal(t, float64(50), widths[4])
	require.Equal(t, float64(len("Instructional Method")+2), widths[7])
}

func TestSqliteWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.db")
	w := newWriter(t, FormatSqlite)

	courses := testCourses(t)
	require.NoError(t, w.Write(testContext(t), "202510", courses, path))
	// writing a term again replaces its rows
	require.NoError(t, w.Write(testContext(t), "202510", courses[:1], path))
	require.NoError(t, w.Write(testContext(t), "202430", courses, path))
	// an empty catalog does not wipe what was stored for the term
	require.ErrorIs(t, w.Write(testContext(t), "202430", nil, path), ErrNoCourses)

	database, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	err = database.QueryRow("select count(*) from courses where term = ?", "202510").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	err = database.QueryRow("select count(*) from courses where term = ?", "202430").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, len(courses), count)

	var faculty, location string
	err = database.QueryRow(
		"select faculty, location from courses where term = ? and crn = ?",
		"202430", "11111",
	).Scan(&faculty, &location)
	require.NoError(t, err)
	require.Equal(t, "A. Smith, B. Jones", faculty)
	require.Equal(t, "WENT 100", location)
}
