// client.go contains the requests made against Banner's StudentRegistrationSsb endpoints,
// catalog.go combines them into a full catalog fetch.

package banner

import (
	"context"
	"encoding/json"
	"fmt"
	"leopardweb/internal/components/assert"
	"leopardweb/internal/components/telemetry"
	"leopardweb/lib/restyutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_client_list_terms            = "client.list-terms"
	report_client_init_session          = "client.init-session"
	report_client_fetch_page            = "client.fetch-page"
	report_client_class_details         = "client.class-details"
	report_client_faculty_meeting_times = "client.faculty-meeting-times"
	report_catalog_fetch_pages          = "catalog.fetch-pages"
	report_catalog_enrich               = "catalog.enrich"
	report_catalog_fetch_catalog        = "catalog.fetch-catalog"
)

const (
	DefaultBaseUrl  = "https://selfservice.wit.edu/StudentRegistrationSsb/ssb"
	DefaultPageSize = 500

	sessionCookie = "JSESSIONID"
)

var tracer = otel.Tracer("scrapers/banner")

type ClientOptions struct {
	BaseUrl string
	// PageSize is the amount of summaries requested per catalog page.
	PageSize int
	// Concurrency bounds how many courses are enriched at the same time.
	Concurrency int
	// Timeout applies to each request individually.
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
	// DumpDir, when set, receives a transcript of every http exchange.
	DumpDir string
}

type Client struct {
	http        *resty.Client
	baseUrl     string
	pageSize    int
	concurrency int

	tel telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("banner", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}

	baseUrl := strings.TrimRight(opts.BaseUrl, "/")
	_, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl)
	httpClient.SetTimeout(opts.Timeout)
	// the session cookie is carried explicitly by Session, a jar would
	// send a second copy of it.
	httpClient.SetCookieJar(nil)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("http transcript directory: %w", err)
		}
		restyutil.Record(httpClient, out)
	}

	telemetry.InstrumentResty(httpClient, "scrapers/banner/http", tel)

	return &Client{
		http:        httpClient,
		baseUrl:     baseUrl,
		pageSize:    opts.PageSize,
		concurrency: opts.Concurrency,
		tel:         tel,
	}, nil
}

// Session is the server side search context of a single term.
type Session struct {
	Term  string
	Token string
}

func (s Session) cookie() *http.Cookie {
	return &http.Cookie{Name: sessionCookie, Value: s.Token}
}

func checkStatus(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}
	return &StatusError{Code: res.StatusCode(), Status: res.Status()}
}

// ListTerms returns the terms the catalog currently offers.
func (c *Client) ListTerms(ctx context.Context) ([]Term, error) {
	ctx, span := tracer.Start(ctx, "client:ListTerms")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"searchTerm": "",
			"offset":     "1",
			"max":        "50",
		}).
		Get("/classSearch/getTerms")
	if err == nil {
		err = checkStatus(res)
	}
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch terms")
		c.tel.ReportBroken(report_client_list_terms, fmt.Errorf("fetch: %w", err))
		return nil, fmt.Errorf("fetch terms: %w", err)
	}

	var terms []Term
	err = json.Unmarshal(res.Body(), &terms)
	if err != nil {
		span.SetStatus(codes.Error, "failed to decode terms")
		c.tel.ReportBroken(report_client_list_terms, fmt.Errorf("unmarshal json: %w", err))
		return nil, fmt.Errorf("decode terms: %w", err)
	}
	return terms, nil
}

// InitSession selects the term on the server and returns the session it was selected in.
func (c *Client) InitSession(ctx context.Context, term string) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:InitSession")
	defer span.End()
	span.SetAttributes(attribute.String("banner.term", term))

	sessionError := func(err error) error {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_init_session, err, term)
		return &SessionError{Term: term, Err: err}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("mode", "search").
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(url.Values{"term": {term}}.Encode()).
		Post("/term/search")
	if err != nil {
		return Session{}, sessionError(fmt.Errorf("post term: %w", err))
	}
	err = checkStatus(res)
	if err != nil {
		return Session{}, sessionError(err)
	}

	for _, cookie := range res.Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return Session{Term: term, Token: cookie.Value}, nil
		}
	}
	return Session{}, sessionError(fmt.Errorf("response did not set a %s cookie", sessionCookie))
}

// fetchPage requests the catalog page starting at offset.
func (c *Client) fetchPage(ctx context.Context, session Session, uniqueSessionId string, offset int) (catalogPage, error) {
	c.tel.ReportDebug(report_client_fetch_page, session.Term, offset, c.pageSize)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"txt_term":        session.Term,
			"startDatepicker": "",
			"endDatepicker":   "",
			"uniqueSessionId": uniqueSessionId,
			"pageOffset":      strconv.Itoa(offset),
			"pageMaxSize":     strconv.Itoa(c.pageSize),
			"sortColumn":      "subjectDescription",
			"sortDirection":   "asc",
		}).
		SetHeaders(map[string]string{
			"Accept":           "application/json, text/javascript, */*; q=0.01",
			"Accept-Language":  "en-US,en;q=0.9",
			"X-Requested-With": "XMLHttpRequest",
			"Referer":          c.baseUrl + "/courseSearch/courseSearch",
		}).
		SetCookie(session.cookie()).
		Get("/searchResults/searchResults")
	if err != nil {
		return catalogPage{}, fmt.Errorf("fetch: %w", err)
	}
	err = checkStatus(res)
	if err != nil {
		return catalogPage{}, err
	}

	var page catalogPage
	err = json.Unmarshal(res.Body(), &page)
	if err != nil {
		return catalogPage{}, fmt.Errorf("unmarshal json: %w", err)
	}
	return page, nil
}

// lookup fetches one of the per course endpoints, an empty body is reported as nil.
func (c *Client) lookup(ctx context.Context, session Session, endpoint, crn string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"term":                  session.Term,
			"courseReferenceNumber": crn,
		}).
		SetCookie(session.cookie()).
		Get(endpoint)
	if err != nil {
		return nil, err
	}
	err = checkStatus(res)
	if err != nil {
		return nil, err
	}
	body := res.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	return body, nil
}

// ClassDetails returns the class details of a course, any failure is reported as absent.
func (c *Client) ClassDetails(ctx context.Context, session Session, crn string) Lookup[json.RawMessage] {
	body, err := c.lookup(ctx, session, "/searchResults/getClassDetails", crn)
	if err != nil {
		c.tel.ReportWarning(report_client_class_details, err, crn)
		return absent[json.RawMessage]()
	}
	if body == nil || !json.Valid(body) || emptyPayload(body) {
		return absent[json.RawMessage]()
	}
	return present(json.RawMessage(body))
}

// emptyPayload reports whether a json document carries no data: null, an empty object,
// array or string, false or 0.
func emptyPayload(body []byte) bool {
	var decoded any
	err := json.Unmarshal(body, &decoded)
	if err != nil {
		return false
	}
	switch v := decoded.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	}
	return false
}

// FacultyMeetingTimes returns the meeting times of a course, any failure or an empty
// "fmt" list is reported as absent.
func (c *Client) FacultyMeetingTimes(ctx context.Context, session Session, crn string) Lookup[MeetingTimes] {
	body, err := c.lookup(ctx, session, "/searchResults/getFacultyMeetingTimes", crn)
	if err != nil {
		c.tel.ReportWarning(report_client_faculty_meeting_times, err, crn)
		return absent[MeetingTimes]()
	}
	if body == nil {
		return absent[MeetingTimes]()
	}

	var parsed facultyMeetingTimesResponse
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		c.tel.ReportWarning(report_client_faculty_meeting_times, fmt.Errorf("unmarshal json: %w", err), crn)
		return absent[MeetingTimes]()
	}
	var meetings []Meeting
	if len(parsed.Fmt) > 0 {
		err = json.Unmarshal(parsed.Fmt, &meetings)
		if err != nil {
			c.tel.ReportWarning(report_client_faculty_meeting_times, fmt.Errorf("unmarshal fmt: %w", err), crn)
			return absent[MeetingTimes]()
		}
	}
	if len(meetings) == 0 {
		return absent[MeetingTimes]()
	}

	return present(MeetingTimes{
		Meetings: meetings,
		Raw:      parsed.Fmt,
	})
}
