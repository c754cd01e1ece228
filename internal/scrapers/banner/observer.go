package banner

// Observer is notified of the progress of a catalog fetch. RecordEnriched may be
// called from multiple goroutines at once when enrichment is concurrent.
type Observer interface {
	SessionStarted(term string)
	PageFetched(fetched, total int)
	EnrichStarted(total int)
	RecordEnriched(course CourseSummary)
	EnrichFinished()
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) SessionStarted(string)        {}
func (NopObserver) PageFetched(int, int)         {}
func (NopObserver) EnrichStarted(int)            {}
func (NopObserver) RecordEnriched(CourseSummary) {}
func (NopObserver) EnrichFinished()              {}
