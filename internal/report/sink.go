// Package report is the user-facing surface of a pipeline run: the
// append-only sink of stage reports, and the CSV/JSON summaries written at
// the end of a successful run.
package report

import (
	"fmt"
	"io"
	"sync"
)

// Sink accumulates human-readable stage reports. Stages append exactly once
// and never rewrite earlier output.
type Sink interface {
	// Report appends one stage report followed by a newline.
	Report(text string)
	// Reportf appends a formatted stage report.
	Reportf(format string, args ...any)
	// Blank appends an empty line between report sections.
	Blank()
}

// Console is the terminal sink.
type Console struct {
	W io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{W: w} }

func (c *Console) Report(text string) {
	fmt.Fprintln(c.W, text)
}

func (c *Console) Reportf(format string, args ...any) {
	fmt.Fprintf(c.W, format+"\n", args...)
}

func (c *Console) Blank() {
	fmt.Fprintln(c.W)
}

// Memory accumulates reports in order, for tests and for callers embedding
// the pipeline.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

func (m *Memory) Report(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, text)
}

func (m *Memory) Reportf(format string, args ...any) {
	m.Report(fmt.Sprintf(format, args...))
}

func (m *Memory) Blank() {
	m.Report("")
}

// Lines returns a copy of the accumulated reports.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}
