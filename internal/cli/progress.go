package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter renders an index-build progress bar on stderr.
type ProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewProgressReporter creates a progress reporter. With quiet set it stays
// silent.
func NewProgressReporter(quiet bool) *ProgressReporter {
	return &ProgressReporter{quiet: quiet}
}

func (p *ProgressReporter) OnDiscoveryComplete(fileCount int) {
	if p.quiet {
		return
	}
	p.bar = progressbar.NewOptions(fileCount,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Indexing symbols"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (p *ProgressReporter) OnFileProcessed(path string) {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Add(1)
}
