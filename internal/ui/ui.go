package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8c8c8c"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e6e6e"))
)

const ruleWidth = 39

// Printer writes the user-facing lines of a cleanup run. Normal output
// goes to out, failures to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// New creates a Printer on stdout/stderr.
func New() *Printer {
	return &Printer{out: os.Stdout, errOut: os.Stderr}
}

// Discard creates a Printer that drops all output. Used by tests and the
// fleet dispatcher's quieter per-station runs.
func Discard() *Printer {
	return &Printer{out: io.Discard, errOut: io.Discard}
}

func (p *Printer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.errOut, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Noticef(format string, args ...interface{}) {
	fmt.Fprintln(p.out, noticeStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Mutedf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Separator prints the horizontal rule between run phases.
func (p *Printer) Separator() {
	fmt.Fprintln(p.out, ruleStyle.Render(strings.Repeat("-", ruleWidth)))
}
