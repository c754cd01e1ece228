package export

import (
	"context"
	"errors"
	"fmt"
	"leopardweb/internal/components/assert"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/scrapers/banner"
	"strings"
)

// ErrNoCourses is returned by writers that produce nothing for an empty catalog.
var ErrNoCourses = errors.New("no courses to save")

type Format string

const (
	FormatExcel  Format = "excel"
	FormatCsv    Format = "csv"
	FormatJson   Format = "json"
	FormatSqlite Format = "sqlite"
)

var Formats = []Format{FormatExcel, FormatCsv, FormatJson, FormatSqlite}

func ParseFormat(value string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(string(f), value) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", value)
}

func (f Format) Extension() string {
	switch f {
	case FormatCsv:
		return ".csv"
	case FormatJson:
		return ".json"
	case FormatSqlite:
		return ".db"
	default:
		return ".xlsx"
	}
}

// DefaultOutput is the file a catalog is written to when no output path is given.
func (f Format) DefaultOutput(term string) string {
	return fmt.Sprintf("courses_%s%s", term, f.Extension())
}

// Writer persists the catalog of a term to path.
type Writer interface {
	Write(ctx context.Context, term string, courses []banner.CourseSummary, path string) error
}

func New(format Format, tel telemetry.API) (Writer, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("export", tel)

	switch format {
	case FormatExcel:
		return ExcelWriter{tel: tel}, nil
	case FormatCsv:
		return CsvWriter{tel: tel}, nil
	case FormatJson:
		return JsonWriter{tel: tel}, nil
	case FormatSqlite:
		return SqliteWriter{tel: tel}, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
