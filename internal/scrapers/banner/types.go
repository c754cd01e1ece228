package banner

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Term is an academic registration period, Code is what every catalog request is keyed by.
type Term struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Faculty struct {
	DisplayName string `json:"displayName"`
}

type MeetingTime struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`

	BeginTime           string `json:"beginTime"`
	EndTime             string `json:"endTime"`
	Building            string `json:"building"`
	BuildingDescription string `json:"buildingDescription"`
	Room                string `json:"room"`
}

// Meeting is the shape shared by a summary's embedded "meetingsFaculty" entries and
// the "fmt" entries of the faculty meeting times endpoint.
type Meeting struct {
	MeetingTime MeetingTime `json:"meetingTime"`
}

// Lookup is the outcome of an optional enrichment request, a zero Lookup is absent.
type Lookup[T any] struct {
	Value   T
	Present bool
}

func present[T any](value T) Lookup[T] {
	return Lookup[T]{Value: value, Present: true}
}

func absent[T any]() Lookup[T] {
	return Lookup[T]{}
}

// MeetingTimes is the payload of the faculty meeting times endpoint.
type MeetingTimes struct {
	Meetings []Meeting
	// Raw is the undecoded "fmt" array.
	Raw json.RawMessage
}

// CourseSummary is a single entry of a catalog page.
type CourseSummary struct {
	CourseReferenceNumber   string    `json:"courseReferenceNumber"`
	Subject                 string    `json:"subject"`
	CourseNumber            string    `json:"courseNumber"`
	SequenceNumber          string    `json:"sequenceNumber"`
	CourseTitle             string    `json:"courseTitle"`
	CreditHours             *float64  `json:"creditHours"`
	ScheduleTypeDescription string    `json:"scheduleTypeDescription"`
	InstructionalMethod     string    `json:"instructionalMethod"`
	CampusDescription       string    `json:"campusDescription"`
	Faculty                 []Faculty `json:"faculty"`
	MeetingsFaculty         []Meeting `json:"meetingsFaculty"`
	Enrollment              *int      `json:"enrollment"`
	MaximumEnrollment       *int      `json:"maximumEnrollment"`
	SeatsAvailable          *int      `json:"seatsAvailable"`
	WaitCount               *int      `json:"waitCount"`
	WaitCapacity            *int      `json:"waitCapacity"`

	// Raw is the summary exactly as the server returned it.
	Raw json.RawMessage `json:"-"`

	Detail              Lookup[json.RawMessage] `json:"-"`
	FacultyMeetingTimes Lookup[MeetingTimes]    `json:"-"`
}

func (c *CourseSummary) UnmarshalJSON(data []byte) error {
	type plain CourseSummary
	var decoded plain
	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return err
	}
	*c = CourseSummary(decoded)
	c.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// RawRecord returns the summary as the server returned it with the enrichment payloads
// attached under "_detailed" and "_faculty_meeting_times" when they are present. The
// server's field order is kept, the enrichment keys are appended after it.
func (c CourseSummary) RawRecord() (json.RawMessage, error) {
	raw := c.Raw
	if len(raw) == 0 {
		type plain CourseSummary
		var err error
		raw, err = json.Marshal(plain(c))
		if err != nil {
			return nil, err
		}
	}

	var extra []rawField
	if c.Detail.Present {
		extra = append(extra, rawField{key: "_detailed", value: c.Detail.Value})
	}
	if c.FacultyMeetingTimes.Present {
		fmtRaw := c.FacultyMeetingTimes.Value.Raw
		if len(fmtRaw) == 0 {
			var err error
			fmtRaw, err = json.Marshal(c.FacultyMeetingTimes.Value.Meetings)
			if err != nil {
				return nil, err
			}
		}
		extra = append(extra, rawField{key: "_faculty_meeting_times", value: fmtRaw})
	}
	return appendFields(raw, extra)
}

type rawField struct {
	key   string
	value json.RawMessage
}

// appendFields adds fields at the end of a json object without reordering the keys it
// already has. If one of the keys is already present the object is re-encoded with it
// replaced, which sorts its keys.
func appendFields(object json.RawMessage, fields []rawField) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(object)
	if len(trimmed) < 2 || trimmed[0] != '{' {
		return nil, fmt.Errorf("course record is not a json object")
	}
	var existing map[string]json.RawMessage
	err := json.Unmarshal(trimmed, &existing)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return object, nil
	}
	for _, f := range fields {
		if _, ok := existing[f.key]; ok {
			return replaceFields(existing, fields)
		}
	}

	body := bytes.TrimSpace(trimmed[1 : len(trimmed)-1])

	out := bytes.NewBufferString("{")
	out.Write(body)
	for i, f := range fields {
		if len(body) > 0 || i > 0 {
			out.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		out.Write(key)
		out.WriteByte(':')
		out.Write(f.value)
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

func replaceFields(existing map[string]json.RawMessage, fields []rawField) (json.RawMessage, error) {
	for _, f := range fields {
		existing[f.key] = f.value
	}
	return json.Marshal(existing)
}

type catalogPage struct {
	Data       []CourseSummary `json:"data"`
	TotalCount int             `json:"totalCount"`
}

type facultyMeetingTimesResponse struct {
	Fmt json.RawMessage `json:"fmt"`
}
