package telemetry

import "fmt"

// API is how components report what happens to them. Production code logs through
// SlogAPI, tests assert against a Recorder.
type API interface {
	// ReportBroken reports a failure of a component that stops it from doing its job.
	//
	// ids name the component and the method that broke, lowercase with dashes, ex.
	// `client.fetch-page` or `sqlite.write`. Details go in params, not in the id.
	ReportBroken(id string, params ...any)
	// ReportWarning reports a failure the component recovered from, ex. an enrichment
	// lookup that left a course without its details.
	ReportWarning(id string, params ...any)
	// ReportDebug is ignored unless running verbosely.
	ReportDebug(msg string, params ...any)
	// ReportCount reports how many times something happened during an operation.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id it reports with a namespace, so `client.fetch-page`
// reported by the banner package reads `banner: client.fetch-page`.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) qualify(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.qualify(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.qualify(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.qualify(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.qualify(id), count)
}
