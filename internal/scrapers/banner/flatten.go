package banner

import (
	"strconv"
	"strings"
)

// Columns are the names of the FlatRecord fields in output order.
var Columns = []string{
	"CRN",
	"Subject",
	"Course Number",
	"Section",
	"Title",
	"Credit Hours",
	"Schedule Type",
	"Instructional Method",
	"Faculty",
	"Meeting Days",
	"Meeting Times",
	"Location",
	"Campus",
	"Enrollment Current",
	"Enrollment Max",
	"Seats Available",
	"Waitlist Current",
	"Waitlist Max",
}

// FlatRecord is a course reduced to a single row of text fields.
type FlatRecord struct {
	CRN                 string
	Subject             string
	CourseNumber        string
	Section             string
	Title               string
	CreditHours         string
	ScheduleType        string
	InstructionalMethod string
	Faculty             string
	MeetingDays         string
	MeetingTimes        string
	Location            string
	Campus              string
	EnrollmentCurrent   string
	EnrollmentMax       string
	SeatsAvailable      string
	WaitlistCurrent     string
	WaitlistMax         string
}

// Values returns the fields of the record in the order of Columns.
func (r FlatRecord) Values() []string {
	return []string{
		r.CRN,
		r.Subject,
		r.CourseNumber,
		r.Section,
		r.Title,
		r.CreditHours,
		r.ScheduleType,
		r.InstructionalMethod,
		r.Faculty,
		r.MeetingDays,
		r.MeetingTimes,
		r.Location,
		r.Campus,
		r.EnrollmentCurrent,
		r.EnrollmentMax,
		r.SeatsAvailable,
		r.WaitlistCurrent,
		r.WaitlistMax,
	}
}

type meetingSource int

const (
	meetingSourceNone meetingSource = iota
	meetingSourceFacultyMeetingTimes
	meetingSourceEmbedded
)

// meetingSourceOf decides where the meeting fields of a course come from, meeting
// times looked up separately always win over the ones embedded in the summary.
func meetingSourceOf(course CourseSummary) (meetingSource, []Meeting) {
	switch {
	case course.FacultyMeetingTimes.Present && len(course.FacultyMeetingTimes.Value.Meetings) > 0:
		return meetingSourceFacultyMeetingTimes, course.FacultyMeetingTimes.Value.Meetings
	case len(course.MeetingsFaculty) > 0:
		return meetingSourceEmbedded, course.MeetingsFaculty
	default:
		return meetingSourceNone, nil
	}
}

var weekInitials = [7]string{"M", "T", "W", "T", "F", "S", "S"}

func meetingDays(mt MeetingTime) string {
	flags := [7]bool{
		mt.Monday,
		mt.Tuesday,
		mt.Wednesday,
		mt.Thursday,
		mt.Friday,
		mt.Saturday,
		mt.Sunday,
	}
	var days strings.Builder
	for i, flagged := range flags {
		if flagged {
			days.WriteString(weekInitials[i])
		}
	}
	return days.String()
}

func meetingLocation(source meetingSource, mt MeetingTime) string {
	building := mt.Building
	if source == meetingSourceFacultyMeetingTimes && mt.BuildingDescription != "" {
		building = mt.BuildingDescription
	}
	if mt.Room == "" {
		return building
	}
	return strings.TrimSpace(building + " " + mt.Room)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatFloat(n *float64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}

// Flatten reduces a course and whatever enrichment data it carries into a FlatRecord.
func Flatten(course CourseSummary) FlatRecord {
	var faculty []string
	for _, f := range course.Faculty {
		if f.DisplayName != "" {
			faculty = append(faculty, f.DisplayName)
		}
	}

	var days, times, locations []string
	source, meetings := meetingSourceOf(course)
	for _, meeting := range meetings {
		mt := meeting.MeetingTime

		if d := meetingDays(mt); d != "" {
			days = append(days, d)
		}
		if mt.BeginTime != "" && mt.EndTime != "" {
			times = append(times, mt.BeginTime+"-"+mt.EndTime)
		}
		if location := meetingLocation(source, mt); location != "" {
			locations = append(locations, location)
		}
	}

	return FlatRecord{
		CRN:                 course.CourseReferenceNumber,
		Subject:             course.Subject,
		CourseNumber:        course.CourseNumber,
		Section:             course.SequenceNumber,
		Title:               course.CourseTitle,
		CreditHours:         formatFloat(course.CreditHours),
		ScheduleType:        course.ScheduleTypeDescription,
		InstructionalMethod: course.InstructionalMethod,
		Faculty:             strings.Join(faculty, ", "),
		MeetingDays:         strings.Join(days, ", "),
		MeetingTimes:        strings.Join(times, ", "),
		Location:            strings.Join(locations, ", "),
		Campus:              course.CampusDescription,
		EnrollmentCurrent:   formatInt(course.Enrollment),
		EnrollmentMax:       formatInt(course.MaximumEnrollment),
		SeatsAvailable:      formatInt(course.SeatsAvailable),
		WaitlistCurrent:     formatInt(course.WaitCount),
		WaitlistMax:         formatInt(course.WaitCapacity),
	}
}

// FlattenAll flattens every course, keeping their order.
func FlattenAll(courses []CourseSummary) []FlatRecord {
	records := make([]FlatRecord, len(courses))
	for i, course := range courses {
		records[i] = Flatten(course)
	}
	return records
}
