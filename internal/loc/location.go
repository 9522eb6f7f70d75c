// Package loc implements the two location tuples the deducer threads
// through every pass: definition locations (where a name is bound) and
// access locations (where an attribute is read off a name). Both are
// plain comparable structs so they can be used directly as map keys,
// mirroring the tuple semantics the analyser relies on throughout.
package loc

import (
	"strconv"
	"strings"
)

// AttrPath is a dot-joined chain of attribute names, e.g. "a.b.c" for an
// access like x.a.b.c. It is kept as a string (rather than []string) so
// that locations built around it remain comparable map keys.
type AttrPath string

// NewAttrPath joins attribute name components into an AttrPath.
func NewAttrPath(parts ...string) AttrPath {
	return AttrPath(strings.Join(parts, "."))
}

// Parts splits the path back into its component attribute names. An
// empty path has zero parts.
func (a AttrPath) Parts() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), ".")
}

// Empty reports whether this is the "no attributes observed" path.
func (a AttrPath) Empty() bool { return a == "" }

// Def is a definition location: (unit_path, name, version). attrnames is
// implicitly bottom for a definition location.
type Def struct {
	Path    string
	Name    string
	Version int
}

// String encodes a definition location as "<scope>.<name>:<version>".
func (d Def) String() string {
	return d.Path + "." + d.Name + ":" + strconv.Itoa(d.Version)
}

// Access is an access location: (unit_path, name, attrnames,
// access_number). Name may be empty for an anonymous attribute chain
// access, in which case it is encoded as "#<attrnames>".
type Access struct {
	Path      string
	Name      string
	Attrnames AttrPath
	Number    int
}

// String encodes an access location as
// "<scope>.<name> <attrnames>:<access_number>", substituting
// "#<attrnames>" for a missing name.
func (a Access) String() string {
	name := a.Name
	if name == "" {
		name = "#" + string(a.Attrnames)
	}
	return a.Path + "." + name + " " + string(a.Attrnames) + ":" + strconv.Itoa(a.Number)
}
