// Package diag renders source-anchored diagnostics.
//
// A Diagnostic collects labels (spans with a message) and notes. An
// Emitter renders it against a Source, showing each labeled line verbatim
// with a marker run under the span, colors it by severity, and remembers
// whether anything emitted asked to halt the compilation.
package diag

import "fmt"

// Severity orders diagnostics by how bad they are.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Span is a half-open byte range [Start, End) into a Source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Label marks a span. Primary labels are drawn with '^', secondary with '-'.
type Label struct {
	Span    Span
	Message string
	Primary bool
}

// Diagnostic is one report. Build it with the chaining methods, then hand
// it to Emitter.Emit, which fills in Severity and Message.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Labels   []Label
	Notes    []string
	// Halt asks the emitter to stop the compilation after this report.
	Halt bool
}

// New returns an empty diagnostic.
func New() *Diagnostic { return &Diagnostic{} }

func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

// Primary adds the label the report is about.
func (d *Diagnostic) Primary(span Span, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Message: message, Primary: true})
	return d
}

// Secondary adds a label giving context, such as where a block was opened.
func (d *Diagnostic) Secondary(span Span, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Message: message})
	return d
}

func (d *Diagnostic) Note(note string) *Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

func (d *Diagnostic) HaltAfterEmit(halt bool) *Diagnostic {
	d.Halt = halt
	return d
}

// primary returns the label used for the --> location line.
func (d *Diagnostic) primary() (Label, bool) {
	for _, l := range d.Labels {
		if l.Primary {
			return l, true
		}
	}
	if len(d.Labels) > 0 {
		return d.Labels[0], true
	}
	return Label{}, false
}
