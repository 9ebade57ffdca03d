package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/harrison/modelout/internal/logger"
)

// ProgressIndicator reports progress through the resolved files
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	bar     *logger.ProgressBar
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	bar := logger.NewProgressBar(total, 20, !color.NoColor)
	bar.SetPrefix("  ")
	return &ProgressIndicator{writer: w, total: total, bar: bar}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Reading %d resolved %s:\n", p.total, plural(p.total, "file", "files"))
}

// Step displays progress for current item: [N/Total] filename
func (p *ProgressIndicator) Step(path string) {
	p.current++
	p.bar.Increment()
	color.New(color.FgCyan).Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.total, filepath.Base(path))
}

// Fail reports that the current file could not be read
func (p *ProgressIndicator) Fail(path string, err error) {
	color.New(color.FgRed).Fprintf(p.writer, "  [%d/%d] %s: %v\n", p.current+1, p.total, filepath.Base(path), err)
}

// Complete displays the final bar and a success message
func (p *ProgressIndicator) Complete() {
	fmt.Fprintln(p.writer, p.bar.Render())
	fmt.Fprintf(p.writer, "%s Read %d of %d %s\n", color.GreenString("✓"), p.current, p.total, plural(p.total, "file", "files"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
