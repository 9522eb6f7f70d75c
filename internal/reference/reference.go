// Package reference implements the tagged reference abstraction that
// replaces runtime-typed value objects throughout the deducer and the
// layout generator: every name, attribute, and usage candidate the core
// reasons about is a Reference.
package reference

import (
	"fmt"
	"strings"
)

// Kind identifies the sort of object a Reference describes.
type Kind string

const (
	Class    Kind = "<class>"
	Instance Kind = "<instance>"
	Module   Kind = "<module>"
	Function Kind = "<function>"
	Var      Kind = "<var>"
	Depends  Kind = "<depends>"
)

func (k Kind) valid() bool {
	switch k {
	case Class, Instance, Module, Function, Var, Depends:
		return true
	}
	return false
}

// InvalidReferenceError reports a Reference constructed with a kind field
// that does not name one of the known kinds (the Python original guards
// against a Reference whose "kind" is itself a Reference instance; here the
// equivalent precondition is that Kind must be one of the enumerated atoms).
type InvalidReferenceError struct {
	Kind   Kind
	Origin string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference kind %q for origin %q", e.Kind, e.Origin)
}

// Reference is a tagged value {kind, origin, name}. A Var reference never
// carries an origin; equality and hashing use (kind, origin) only, so two
// references that differ solely by alias Name compare equal.
type Reference struct {
	kind   Kind
	origin string
	name   string
}

// New constructs a Reference, enforcing the invariant that a Var reference
// carries no origin and that kind names one of the known atoms.
func New(kind Kind, origin, name string) (Reference, error) {
	if !kind.valid() {
		return Reference{}, &InvalidReferenceError{Kind: kind, Origin: origin}
	}
	if kind == Var {
		origin = ""
	}
	return Reference{kind: kind, origin: origin, name: name}, nil
}

// MustNew is New but panics on error; it is intended for call sites
// constructing references from constants known to be valid at compile time.
func MustNew(kind Kind, origin, name string) Reference {
	r, err := New(kind, origin, name)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the kind of object referenced.
func (r Reference) Kind() Kind { return r.kind }

// Origin returns the origin of the reference, or "" for a Var reference.
func (r Reference) Origin() string {
	if r.kind == Var {
		return ""
	}
	return r.origin
}

// Name returns the alias name used for this reference, if any.
func (r Reference) Name() string { return r.name }

// RefKey is the comparable (kind, origin) pair a Reference is keyed by.
type RefKey struct {
	Kind   Kind
	Origin string
}

// Key returns the (kind, origin) pair used for equality and hashing,
// ignoring the alias name.
func (r Reference) Key() RefKey { return RefKey{Kind: r.kind, Origin: r.Origin()} }

// Equal compares two references using (kind, origin) only.
func (r Reference) Equal(other Reference) bool {
	return r.Key() == other.Key()
}

// HasKind reports whether the reference's kind is one of the given kinds.
func (r Reference) HasKind(kinds ...Kind) bool {
	for _, k := range kinds {
		if r.kind == k {
			return true
		}
	}
	return false
}

// Static reports whether this reference refers to a static (non-variable,
// non-instance) object.
func (r Reference) Static() bool {
	return !r.HasKind(Var, Instance)
}

// InstanceOf returns a reference to an instance of the referenced class,
// and ok=false if this reference does not describe a class.
func (r Reference) InstanceOf() (Reference, bool) {
	if !r.HasKind(Class) {
		return Reference{}, false
	}
	return MustNew(Instance, r.origin, ""), true
}

// AsVar returns a variable version of this reference. Origin information is
// discarded since variable references are deliberately ambiguous.
func (r Reference) AsVar() Reference {
	return MustNew(Var, "", r.name)
}

// Alias returns a copy of this reference carrying the given alias name.
func (r Reference) Alias(name string) Reference {
	return Reference{kind: r.kind, origin: r.origin, name: name}
}

// GetPath returns the dotted components of the origin.
func (r Reference) GetPath() []string {
	if r.Origin() == "" {
		return nil
	}
	return strings.Split(r.Origin(), ".")
}

// ProvidedByModule reports whether the reference's origin is provided by
// the named module, i.e. the origin is empty (as for a var reference) or
// the part before its last "." equals moduleName; an origin with no "."
// is compared to moduleName whole.
func (r Reference) ProvidedByModule(moduleName string) bool {
	path := r.origin
	if path == "" {
		return true
	}
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return path == moduleName
	}
	return path[:idx] == moduleName
}

// String serialises the reference as "<var>" or "<kind>:origin".
func (r Reference) String() string {
	if r.kind == Var {
		return string(Var)
	}
	return fmt.Sprintf("%s:%s", r.kind, r.origin)
}

// Decode decodes a serialised reference string into a Reference, using name
// as the alias. It accepts:
//
//   - a reference already in "<kind>:origin" form
//   - the empty string, producing a Var reference
//   - a "<kind>" form with no origin, whose origin defaults to name
//   - a bare module name, producing a Module reference
func Decode(s, name string) (Reference, error) {
	switch {
	case s == "":
		return MustNew(Var, "", name), nil

	case strings.Contains(s, ":"):
		parts := strings.SplitN(s, ":", 2)
		kind, origin := Kind(parts[0]), parts[1]
		return New(kind, origin, name)

	case strings.HasPrefix(s, "<"):
		return New(Kind(s), name, name)

	default:
		return New(Module, s, name)
	}
}
