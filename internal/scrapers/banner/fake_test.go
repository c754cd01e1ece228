package banner

import (
	"encoding/json"
	"fmt"
	"leopardweb/internal/components/telemetry"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

const fakeToken = "token-123"

// fakeBanner emulates the StudentRegistrationSsb endpoints used by Client.
type fakeBanner struct {
	courses []map[string]any
	// totalCount is reported by every page, it defaults to len(courses) when negative.
	totalCount int
	// pageLimit caps the amount of courses returned per page when > 0.
	pageLimit int
	// failOffset makes the page at that offset fail with a 500, -1 disables it.
	failOffset int
	omitCookie bool

	detailStatus map[string]int
	// detailBody replaces the class details json of a crn with a literal body.
	detailBody map[string]string
	fmtStatus  map[string]int
	// fmtDrop closes the connection of a crn's meeting times request without answering.
	fmtDrop map[string]bool
	fmt     map[string][]map[string]any

	mutex            sync.Mutex
	pageRequests     int
	uniqueSessionIds map[string]bool
	lookups          int
}

func newFakeBanner(courses []map[string]any) *fakeBanner {
	return &fakeBanner{
		courses:          courses,
		totalCount:       -1,
		failOffset:       -1,
		detailStatus:     map[string]int{},
		detailBody:       map[string]string{},
		fmtStatus:        map[string]int{},
		fmtDrop:          map[string]bool{},
		fmt:              map[string][]map[string]any{},
		uniqueSessionIds: map[string]bool{},
	}
}

func (f *fakeBanner) start(t testing.TB) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ssb/classSearch/getTerms", f.terms)
	mux.HandleFunc("/ssb/term/search", f.termSearch)
	mux.HandleFunc("/ssb/searchResults/searchResults", f.searchResults)
	mux.HandleFunc("/ssb/searchResults/getClassDetails", f.classDetails)
	mux.HandleFunc("/ssb/searchResults/getFacultyMeetingTimes", f.facultyMeetingTimes)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func (f *fakeBanner) client(t testing.TB, server *httptest.Server, pageSize, concurrency int) (*Client, *telemetry.Recorder) {
	tel := &telemetry.Recorder{}
	client, err := NewClient(ClientOptions{
		BaseUrl:     server.URL + "/ssb",
		PageSize:    pageSize,
		Concurrency: concurrency,
	}, tel)
	if err != nil {
		t.Fatal(err)
	}
	return client, tel
}

func writeJson(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(value)
}

func hasSession(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	return err == nil && cookie.Value == fakeToken
}

func (f *fakeBanner) terms(w http.ResponseWriter, r *http.Request) {
	writeJson(w, []Term{
		{Code: "202510", Description: "Spring 2025"},
		{Code: "202410", Description: "Fall 2024"},
		{Code: "202430", Description: "Summer 2024"},
	})
}

func (f *fakeBanner) termSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Query().Get("mode") != "search" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := r.ParseForm()
	if err != nil || r.PostForm.Get("term") == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !f.omitCookie {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: fakeToken, Path: "/"})
	}
	writeJson(w, map[string]string{"fwdURL": "/ssb/classSearch/classSearch"})
}

func (f *fakeBanner) searchResults(w http.ResponseWriter, r *http.Request) {
	if !hasSession(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("pageOffset"))
	size, _ := strconv.Atoi(query.Get("pageMaxSize"))

	f.mutex.Lock()
	f.pageRequests++
	f.uniqueSessionIds[query.Get("uniqueSessionId")] = true
	f.mutex.Unlock()

	if offset == f.failOffset {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if f.pageLimit > 0 && size > f.pageLimit {
		size = f.pageLimit
	}
	end := min(offset+size, len(f.courses))
	data := []map[string]any{}
	if offset < len(f.courses) {
		data = f.courses[offset:end]
	}

	total := f.totalCount
	if total < 0 {
		total = len(f.courses)
	}
	writeJson(w, map[string]any{
		"success":    true,
		"totalCount": total,
		"data":       data,
		"pageOffset": offset,
	})
}

func (f *fakeBanner) classDetails(w http.ResponseWriter, r *http.Request) {
	f.countLookup()
	if !hasSession(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	crn := r.URL.Query().Get("courseReferenceNumber")
	if status, ok := f.detailStatus[crn]; ok {
		w.WriteHeader(status)
		return
	}
	if body, ok := f.detailBody[crn]; ok {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(body))
		return
	}
	writeJson(w, map[string]any{
		"courseReferenceNumber": crn,
		"termCode":              r.URL.Query().Get("term"),
		"sectionAttributes":     []string{"lab"},
	})
}

func (f *fakeBanner) facultyMeetingTimes(w http.ResponseWriter, r *http.Request) {
	f.countLookup()
	if !hasSession(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	crn := r.URL.Query().Get("courseReferenceNumber")
	if status, ok := f.fmtStatus[crn]; ok {
		w.WriteHeader(status)
		return
	}
	if f.fmtDrop[crn] {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
		return
	}
	meetings, ok := f.fmt[crn]
	if !ok {
		meetings = []map[string]any{}
	}
	writeJson(w, map[string]any{"fmt": meetings})
}

func (f *fakeBanner) countLookup() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.lookups++
}

func makeCourses(n int) []map[string]any {
	courses := make([]map[string]any, n)
	for i := range courses {
		courses[i] = map[string]any{
			"courseReferenceNumber":   fmt.Sprint(10000 + i),
			"subject":                 "COMP",
			"courseNumber":            fmt.Sprint(1000 + i),
			"sequenceNumber":          "01",
			"courseTitle":             fmt.Sprintf("Course %d", i),
			"creditHours":             4,
			"scheduleTypeDescription": "Lecture",
			"instructionalMethod":     "In Person",
			"campusDescription":       "Boston",
			"enrollment":              20,
			"maximumEnrollment":       30,
			"seatsAvailable":          10,
			"waitCount":               0,
			"waitCapacity":            5,
			"faculty": []map[string]any{
				{"displayName": "A. Smith"},
			},
			"meetingsFaculty": []map[string]any{
				{"meetingTime": map[string]any{
					"monday":    true,
					"wednesday": true,
					"beginTime": "1000",
					"endTime":   "1050",
					"building":  "WENT",
					"room":      "100",
				}},
			},
		}
	}
	return courses
}

func fmtMeeting(building, description, room string, days ...string) map[string]any {
	mt := map[string]any{
		"beginTime":           "1300",
		"endTime":             "1450",
		"building":            building,
		"buildingDescription": description,
		"room":                room,
	}
	for _, d := range days {
		mt[d] = true
	}
	return map[string]any{"meetingTime": mt}
}

func fakeTel() *telemetry.Recorder {
	return &telemetry.Recorder{}
}
