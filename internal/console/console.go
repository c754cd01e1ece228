package console

import (
	"fmt"
	"io"
	"leopardweb/internal/scrapers/banner"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Console prints human readable status to a terminal, a quiet Console only prints errors.
// It implements banner.Observer.
type Console struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool

	mutex     sync.Mutex
	announced bool
	bar       progress.Writer
	tracker   *progress.Tracker
}

func New(out, errOut io.Writer, quiet bool) *Console {
	return &Console{out: out, errOut: errOut, quiet: quiet}
}

func (c *Console) println(color text.Colors, format string, args ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, color.Sprintf(format, args...))
}

func (c *Console) Info(format string, args ...any) {
	c.println(text.Colors{text.FgCyan}, format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.println(text.Colors{text.FgYellow}, "⚠️  "+format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.println(text.Colors{text.FgGreen}, "✓ "+format, args...)
}

// Error is printed even when quiet.
func (c *Console) Error(err error) {
	fmt.Fprintln(c.errOut, text.FgRed.Sprintf("❌ Error: %v", err))
}

func (c *Console) SessionStarted(term string) {
	c.Info("🔄 Initializing search session for term %s...", term)
	c.Info("📚 Fetching course catalog...")
}

func (c *Console) PageFetched(fetched, total int) {
	if !c.announced {
		c.announced = true
		c.println(text.Colors{text.FgYellow}, "📊 Total courses to fetch: %s", text.Bold.Sprint(total))
	}
	c.Info("   Fetched %d/%d courses...", fetched, total)
}

func (c *Console) EnrichStarted(total int) {
	if c.quiet {
		return
	}
	c.Info("\n🔍 Fetching detailed information for %d courses...", total)
	c.println(text.Colors{text.FgYellow}, "⏱️  This may take a few minutes...")

	bar := progress.NewWriter()
	bar.SetOutputWriter(c.out)
	bar.SetAutoStop(false)
	bar.SetTrackerLength(30)
	bar.SetUpdateFrequency(time.Millisecond * 100)
	bar.SetStyle(progress.StyleDefault)
	bar.Style().Colors = progress.StyleColorsExample
	bar.Style().Visibility.ETA = true

	tracker := &progress.Tracker{
		Message: "Fetching details",
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	bar.AppendTracker(tracker)

	c.mutex.Lock()
	c.bar = bar
	c.tracker = tracker
	c.mutex.Unlock()

	go bar.Render()
	for !bar.IsRenderInProgress() {
		time.Sleep(time.Millisecond)
	}
}

func (c *Console) RecordEnriched(course banner.CourseSummary) {
	c.mutex.Lock()
	tracker := c.tracker
	c.mutex.Unlock()
	if tracker != nil {
		tracker.Increment(1)
	}
}

func (c *Console) EnrichFinished() {
	c.mutex.Lock()
	bar := c.bar
	tracker := c.tracker
	c.bar = nil
	c.tracker = nil
	c.mutex.Unlock()

	if bar == nil {
		return
	}
	tracker.MarkAsDone()
	// let the renderer draw the finished bar before stopping it
	time.Sleep(time.Millisecond * 150)
	bar.Stop()
	for bar.IsRenderInProgress() {
		time.Sleep(time.Millisecond * 10)
	}
	c.Success("Completed detailed fetch for all courses")
}

// Terms renders the terms as a table.
func (c *Console) Terms(terms []banner.Term) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(c.out)
	t.SetTitle("Available Terms")
	t.AppendHeader(table.Row{"Code", "Description"})
	for _, term := range terms {
		t.AppendRow(table.Row{
			text.FgYellow.Sprint(term.Code),
			term.Description,
		})
	}
	t.Render()
}
