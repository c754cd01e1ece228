package db

import (
	_ "embed"
)

//go:embed schema.sql
var Schema string

const DeleteTermCourses = `delete from courses where term = ?`

const InsertCourse = `insert into courses (
    term, position, crn, subject, course_number, section, title, credit_hours,
    schedule_type, instructional_method, faculty, meeting_days, meeting_times,
    location, campus, enrollment_current, enrollment_max, seats_available,
    waitlist_current, waitlist_max
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
