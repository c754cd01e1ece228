package banner

import (
	"context"
	"fmt"
	"leopardweb/lib/textutil"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

type FetchOptions struct {
	// EnrichDetails requests class details and faculty meeting times for every course.
	EnrichDetails bool
	// Observer defaults to NopObserver.
	Observer Observer
}

// FetchCatalog initializes a session for term, fetches every page of its catalog and,
// if requested, enriches each course. The courses are returned in the order the
// server paged them.
func (c *Client) FetchCatalog(ctx context.Context, term string, opts FetchOptions) ([]CourseSummary, error) {
	ctx, span := tracer.Start(ctx, "catalog:FetchCatalog")
	defer span.End()
	span.SetAttributes(
		attribute.String("banner.term", term),
		attribute.Bool("banner.enrich_details", opts.EnrichDetails),
	)

	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	observer.SessionStarted(term)
	session, err := c.InitSession(ctx, term)
	if err != nil {
		span.SetStatus(codes.Error, "failed to initialize session")
		return nil, err
	}

	courses, err := c.FetchPages(ctx, session, observer)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch catalog pages")
		return nil, err
	}
	c.tel.ReportCount(report_catalog_fetch_catalog, int64(len(courses)))

	if opts.EnrichDetails && len(courses) > 0 {
		c.Enrich(ctx, session, courses, observer)
		// lookups absorb cancellation as absent data, it must not pass for a complete catalog
		err = ctx.Err()
		if err != nil {
			span.SetStatus(codes.Error, "enrichment interrupted")
			return nil, err
		}
	}

	return courses, nil
}

func newUniqueSessionId() (string, error) {
	suffix, err := random.String(12)
	if err != nil {
		return "", err
	}
	return "sess" + suffix, nil
}

// FetchPages pages through the catalog of the session's term. It stops once the
// total reported by the first page has been reached or a page comes back empty.
func (c *Client) FetchPages(ctx context.Context, session Session, observer Observer) ([]CourseSummary, error) {
	ctx, span := tracer.Start(ctx, "catalog:FetchPages")
	defer span.End()

	fetchError := func(offset int, err error) error {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_catalog_fetch_pages, err, session.Term, offset)
		return &FetchError{Term: session.Term, Offset: offset, Err: err}
	}

	uniqueSessionId, err := newUniqueSessionId()
	if err != nil {
		return nil, fetchError(0, fmt.Errorf("generate unique session id: %w", err))
	}

	courses := []CourseSummary{}
	offset := 0
	totalCount := -1
	requests := 0

	for {
		page, err := c.fetchPage(ctx, session, uniqueSessionId, offset)
		if err != nil {
			return nil, fetchError(offset, err)
		}
		requests++
		pagesFetched.Add(ctx, 1)

		if totalCount < 0 {
			totalCount = page.TotalCount
		}
		courses = append(courses, page.Data...)
		observer.PageFetched(len(courses), totalCount)

		if len(courses) >= totalCount || len(page.Data) == 0 {
			break
		}
		offset += c.pageSize
	}

	span.SetAttributes(
		attribute.Int("banner.total_count", totalCount),
		attribute.Int("banner.fetched", len(courses)),
		attribute.Int("banner.page_requests", requests),
	)
	if len(courses) < totalCount {
		c.tel.ReportWarning(
			report_catalog_fetch_pages,
			fmt.Errorf("catalog ended early: fetched %d of %d", len(courses), totalCount),
			session.Term,
		)
	}

	return courses, nil
}

// Enrich attaches class details and faculty meeting times to every course that has a
// course reference number. Lookups that fail leave the course without that data, they
// never stop the enrichment of other courses. Courses are modified in place, their
// order is untouched.
func (c *Client) Enrich(ctx context.Context, session Session, courses []CourseSummary, observer Observer) {
	ctx, span := tracer.Start(ctx, "catalog:Enrich")
	defer span.End()

	if observer == nil {
		observer = NopObserver{}
	}
	observer.EnrichStarted(len(courses))
	defer observer.EnrichFinished()

	group := errgroup.Group{}
	group.SetLimit(c.concurrency)

	for i := range courses {
		group.Go(func() error {
			course := &courses[i]
			if course.CourseReferenceNumber != "" {
				c.enrichOne(ctx, session, course)
			}
			observer.RecordEnriched(*course)
			return nil
		})
	}
	group.Wait()

	c.tel.ReportCount(report_catalog_enrich, int64(len(courses)))
}

func (c *Client) enrichOne(ctx context.Context, session Session, course *CourseSummary) {
	crn := course.CourseReferenceNumber

	course.Detail = c.ClassDetails(ctx, session, crn)
	if !course.Detail.Present {
		lookupsAbsent.Add(ctx, 1, classDetailsAttr)
	}

	course.FacultyMeetingTimes = c.FacultyMeetingTimes(ctx, session, crn)
	if !course.FacultyMeetingTimes.Present {
		lookupsAbsent.Add(ctx, 1, facultyMeetingTimesAttr)
	}

	recordsEnriched.Add(ctx, 1)
}

// RankTerms orders terms by how similar their description is to query, most similar
// first. Terms that are equally similar keep their original order.
func RankTerms(terms []Term, query string) []Term {
	query = textutil.Normalize(query)
	ranked := slices.Clone(terms)
	if query == "" {
		return ranked
	}

	similarity := make(map[string]float64, len(terms))
	for _, t := range terms {
		description := textutil.Normalize(t.Description)
		score := matchr.JaroWinkler(description, query, false)
		if strings.Contains(description, query) || strings.EqualFold(t.Code, query) {
			score += 1
		}
		similarity[t.Code] = score
	}

	slices.SortStableFunc(ranked, func(a, b Term) int {
		sa := similarity[a.Code]
		sb := similarity[b.Code]
		if sa > sb {
			return -1
		}
		if sa < sb {
			return 1
		}
		return 0
	})
	return ranked
}
