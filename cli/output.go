// ABOUTME: Styled command output for terminals, plain text otherwise
// ABOUTME: Uses lipgloss styles and tables when stdout is a TTY
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

type printer struct {
	w      io.Writer
	styled bool

	success lipgloss.Style
	key     lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}

	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		styled:  styled,
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		key:     r.NewStyle().Foreground(lipgloss.Color("39")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
		header:  r.NewStyle().Foreground(lipgloss.Color("170")).Bold(true).Padding(0, 1),
	}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Success prints a check-marked headline.
func (p *printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(p.success, "✓ "+fmt.Sprintf(format, args...)))
}

// Detail prints an indented key/value line.
func (p *printer) Detail(key, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.render(p.key, key+":"), value)
}

// Note prints a dimmed line.
func (p *printer) Note(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(p.muted, fmt.Sprintf(format, args...)))
}

// Table prints rows under headers, as a bordered table on a terminal.
func (p *printer) Table(headers []string, rows [][]string) {
	if p.styled {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(p.muted).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return p.header
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers(headers...).
			Rows(rows...)
		fmt.Fprintln(p.w, t.Render())
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
