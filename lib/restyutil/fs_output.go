package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// FilesystemOutput writes one transcript file per http exchange into a directory.
type FilesystemOutput struct {
	directory string
	counter   *atomic.Uint64
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir, counter: &atomic.Uint64{}}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http transcript", "id", id, "err", err)
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func transcriptName(seq uint64, res *resty.Response) string {
	endpoint := unsafeChars.ReplaceAllString(path.Base(res.Request.RawRequest.URL.Path), "_")
	return fmt.Sprintf("%05d-%s-%s.txt", seq, res.Request.Method, endpoint)
}

// Record writes a transcript of every response client receives to out.
func Record(client *resty.Client, out FilesystemOutput) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		seq := out.counter.Add(1)
		out.Write(transcriptName(seq, res), formatTranscript(res))
		return nil
	})
}
