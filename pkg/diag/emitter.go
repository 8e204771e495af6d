package diag

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Emitter renders diagnostics to a writer and is the one place that decides
// whether the compilation has to stop.
type Emitter struct {
	out    io.Writer
	styles styles
	halt   bool
	counts map[Severity]int
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer, mode ColorMode) *Emitter {
	return &Emitter{
		out:    w,
		styles: newStyles(lipgloss.NewRenderer(w), mode),
		counts: make(map[Severity]int),
	}
}

// Emit sets the severity and primary message of d, writes the rendered
// report, and returns it.
func (e *Emitter) Emit(src *Source, d *Diagnostic, sev Severity, message string) string {
	d.Severity = sev
	d.Message = message
	report := e.Render(src, d)
	fmt.Fprintln(e.out, report)

	e.counts[sev]++
	if d.Halt {
		e.halt = true
	}
	return report
}

// ShouldHalt reports whether any emitted diagnostic asked to halt.
func (e *Emitter) ShouldHalt() bool { return e.halt }

// ExitCode is 1 once a halting diagnostic has been emitted, 0 otherwise.
func (e *Emitter) ExitCode() int {
	if e.halt {
		return 1
	}
	return 0
}

// Count returns how many diagnostics of sev were emitted.
func (e *Emitter) Count(sev Severity) int { return e.counts[sev] }

// Render formats d against src without writing it.
//
//	error[E0005]: closing name does not match the block's opening name
//	 --> main.cbt:3:13
//	  |
//	1 | DEFINE MODULE "X" WITH CONTENTS:
//	  |                - block opened here
//	3 | END MODULE "Y".
//	  |             ^ expected "X", found "Y"
func (e *Emitter) Render(src *Source, d *Diagnostic) string {
	sevStyle := e.styles.forSeverity(d.Severity)

	var sb strings.Builder
	head := d.Severity.String()
	if d.Code != "" {
		head += "[" + d.Code + "]"
	}
	sb.WriteString(sevStyle.Render(head))
	sb.WriteString(e.styles.message.Render(": " + d.Message))

	primary, ok := d.primary()
	if src == nil || !ok {
		e.renderNotes(&sb, d, "")
		return sb.String()
	}

	labels := make([]Label, len(d.Labels))
	copy(labels, d.Labels)
	sort.SliceStable(labels, func(i, j int) bool {
		return src.Line(labels[i].Span.Start) < src.Line(labels[j].Span.Start)
	})

	width := 1
	for _, l := range labels {
		if w := len(strconv.Itoa(src.Line(l.Span.Start))); w > width {
			width = w
		}
	}
	pad := strings.Repeat(" ", width)
	bar := e.styles.gutter.Render(pad + " |")

	line, col := src.LineCol(primary.Span.Start)
	sb.WriteString("\n" + pad)
	sb.WriteString(e.styles.gutter.Render("-->"))
	fmt.Fprintf(&sb, " %s:%d:%d", src.Name, line, col)
	sb.WriteString("\n" + bar)

	shown := 0
	for _, l := range labels {
		n := src.Line(l.Span.Start)
		if n != shown {
			num := fmt.Sprintf("%*d |", width, n)
			sb.WriteString("\n" + e.styles.gutter.Render(num) + " " + src.LineText(n))
			shown = n
		}
		sb.WriteString("\n" + bar + " " + e.renderMarker(src, l, sevStyle))
	}

	e.renderNotes(&sb, d, pad)
	return sb.String()
}

// renderMarker draws the marker run under l's span. The run has one marker
// per byte of the span, clipped at the end of the line; an empty span gets
// a single marker.
func (e *Emitter) renderMarker(src *Source, l Label, sevStyle lipgloss.Style) string {
	n := src.Line(l.Span.Start)
	lineStart, lineEnd := src.lineBounds(n)

	start := l.Span.Start
	if start > lineEnd {
		start = lineEnd
	}
	end := l.Span.End
	if end > lineEnd {
		end = lineEnd
	}
	count := end - start
	if count < 1 {
		count = 1
	}

	marker := "^"
	style := sevStyle
	if !l.Primary {
		marker = "-"
		style = e.styles.gutter
	}

	run := strings.Repeat(marker, count)
	if l.Message != "" {
		run += " " + l.Message
	}
	return indentFor(src.Text[lineStart:start]) + style.Render(run)
}

// indentFor returns whitespace that lines up with the end of prefix on a
// terminal: tabs are kept, every other rune becomes as many spaces as its
// display width.
func indentFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func (e *Emitter) renderNotes(sb *strings.Builder, d *Diagnostic, pad string) {
	if len(d.Notes) == 0 {
		return
	}
	if pad != "" {
		sb.WriteString("\n" + e.styles.gutter.Render(pad+" |"))
	}
	for _, note := range d.Notes {
		sb.WriteString("\n" + pad + e.styles.gutter.Render(" =") + " note: " + note)
	}
}
