package telemetry

import (
	"fmt"
	"log/slog"
	"os"
)

// SlogAPI implements API on top of the default slog logger.
type SlogAPI struct{}

// attrs turns positional params into `params.N` key value pairs after the leading pairs.
func attrs(leading []any, params []any) []any {
	out := make([]any, 0, len(leading)+len(params)*2)
	out = append(out, leading...)
	for i, p := range params {
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", attrs([]any{"id", id}, params)...)
}

func (SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("recovered failure", attrs([]any{"id", id}, params)...)
}

func (SlogAPI) ReportDebug(message string, params ...any) {
	slog.Debug(message, attrs(nil, params)...)
}

func (SlogAPI) ReportCount(id string, count int64) {
	slog.Debug("count", "id", id, "n", count)
}

// Level picks the slog level for the cli, the console is the user facing channel so
// only errors are logged unless running verbosely.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelError
}

// InitSlog installs a text handler writing to stderr as the default slog logger.
func InitSlog(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
