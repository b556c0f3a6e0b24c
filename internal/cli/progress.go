package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress draws a per-record progress bar. The zero value is not usable;
// create one with NewProgress.
type Progress struct {
	bar         *progressbar.ProgressBar
	writer      io.Writer
	description string
	current     int
}

// NewProgress creates a progress reporter that draws on writer.
func NewProgress(writer io.Writer, description string) *Progress {
	if writer == nil {
		writer = os.Stderr
	}
	return &Progress{writer: writer, description: description}
}

// Update moves the bar to done out of total, creating it on first use.
// Its signature matches engine.ProgressFunc.
func (p *Progress) Update(done, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(0),
			progressbar.OptionSetDescription("[cyan][bold]"+p.description+"[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}

	if done <= p.current {
		return
	}
	if err := p.bar.Add(done - p.current); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
	p.current = done
}

// Done reports how many records have been counted so far.
func (p *Progress) Done() int {
	return p.current
}
