// Package diagnostics defines the typed, non-fatal error and warning
// values the deducer and layout passes collect as they run, plus an
// accumulator and a terminal-aware writer for reporting them.
//
// Grounded on the teacher's internal/diagnostics.DiagnosticError /
// NewError / error-code conventions (as consumed by
// internal/analyzer/analyzer.go and cmd/lsp/diagnostics.go) and on
// internal/evaluator/builtins_term.go's go-isatty color-level
// detection for the writer.
package diagnostics

import "fmt"

// Code identifies the kind of diagnostic, mirroring the teacher's
// ErrA00N-style codes.
type Code string

const (
	// InvalidReference: a Reference string failed to parse against
	// its grammar.
	InvalidReference Code = "D001"
	// UnresolvedName: a name had no reaching definition anywhere in
	// the usage index.
	UnresolvedName Code = "D002"
	// BadClassBase: a class lists a base that is not itself a known
	// class.
	BadClassBase Code = "D003"
	// TypeWarning: a definition location deduced to zero candidate
	// types.
	TypeWarning Code = "D004"
	// MutationConflict: two mutation passes disagreed about a single
	// attribute's demoted value.
	MutationConflict Code = "D005"
)

// Location pinpoints a diagnostic to an encoded definition or access
// location string (loc.Def.String() / loc.Access.String()), matching
// the encoded-location convention the rest of the module uses instead
// of line/column source positions.
type Location struct {
	Loc    string
	Detail string
}

// Diagnostic is a single non-fatal finding, either a fatal-shaped
// error or a softer warning, depending on Code.
type Diagnostic struct {
	Code     Code
	Location Location
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.Location.Loc == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location.Loc, d.Code, d.Message)
}

// New constructs a Diagnostic at loc with the given code and message.
func New(code Code, loc string, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Location: Location{Loc: loc}, Message: fmt.Sprintf(format, args...)}
}

// IsWarning reports whether code names a warning-class diagnostic
// rather than an error-class one.
func (c Code) IsWarning() bool {
	switch c {
	case TypeWarning:
		return true
	default:
		return false
	}
}

// Diagnostics accumulates diagnostics produced while running a
// pipeline, deduplicating by (code, location, message) the way the teacher's
// walker.errorSet does.
type Diagnostics struct {
	seen map[string]struct{}
	all  []*Diagnostic
}

// NewAccumulator returns an empty Diagnostics accumulator.
func NewAccumulator() *Diagnostics {
	return &Diagnostics{seen: map[string]struct{}{}}
}

// Add records d, skipping an exact (code, location, message) repeat.
func (ds *Diagnostics) Add(d *Diagnostic) {
	key := string(d.Code) + "|" + d.Location.Loc + "|" + d.Message
	if _, dup := ds.seen[key]; dup {
		return
	}
	ds.seen[key] = struct{}{}
	ds.all = append(ds.all, d)
}

// Addf is a convenience wrapper building and adding a Diagnostic in
// one call.
func (ds *Diagnostics) Addf(code Code, loc string, format string, args ...any) {
	ds.Add(New(code, loc, format, args...))
}

// All returns every recorded diagnostic, insertion order.
func (ds *Diagnostics) All() []*Diagnostic {
	return ds.all
}

// Errors returns only the non-warning diagnostics.
func (ds *Diagnostics) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range ds.all {
		if !d.Code.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-class diagnostics.
func (ds *Diagnostics) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range ds.all {
		if d.Code.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any non-warning diagnostic was recorded.
func (ds *Diagnostics) HasErrors() bool {
	for _, d := range ds.all {
		if !d.Code.IsWarning() {
			return true
		}
	}
	return false
}
