package export

import (
	"context"
	"database/sql"
	"fmt"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/export/db"
	"leopardweb/internal/scrapers/banner"
	"leopardweb/lib/sqliteutil"
)

const report_sqlite_write = "sqlite.write"

// SqliteWriter stores the flattened courses in a `courses` table, replacing whatever
// was stored for the term before. An empty catalog leaves the stored rows alone. The
// path is either a local file or a libsql url.
type SqliteWriter struct {
	tel telemetry.API
}

func (w SqliteWriter) Write(ctx context.Context, term string, courses []banner.CourseSummary, path string) error {
	if len(courses) == 0 {
		return ErrNoCourses
	}
	database, err := sqliteutil.OpenDB(path)
	if err != nil {
		w.tel.ReportBroken(report_sqlite_write, fmt.Errorf("open: %w", err), path)
		return err
	}
	defer database.Close()

	err = w.store(ctx, database, term, banner.FlattenAll(courses))
	if err != nil {
		w.tel.ReportBroken(report_sqlite_write, err, path)
		return err
	}
	return nil
}

func (w SqliteWriter) store(ctx context.Context, database *sql.DB, term string, records []banner.FlatRecord) error {
	_, err := database.ExecContext(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, db.DeleteTermCourses, term)
	if err != nil {
		return fmt.Errorf("delete courses: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, db.InsertCourse)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for i, r := range records {
		_, err = insert.ExecContext(
			ctx,
			term, i, r.CRN, r.Subject, r.CourseNumber, r.Section, r.Title, r.CreditHours,
			r.ScheduleType, r.InstructionalMethod, r.Faculty, r.MeetingDays, r.MeetingTimes,
			r.Location, r.Campus, r.EnrollmentCurrent, r.EnrollmentMax, r.SeatsAvailable,
			r.WaitlistCurrent, r.WaitlistMax,
		)
		if err != nil {
			return fmt.Errorf("insert course %s: %w", r.CRN, err)
		}
	}

	return tx.Commit()
}
