// Package deduce implements the type solver (§4.F), the reference
// identifier (§4.G), the guard/test classifier (§4.H), and the
// mutation-demotion pass, over the indexes usageindex and attrindex
// build from an Importer fact base.
//
// Grounded throughout on deducer.py: constrain_types/get_target_types/
// constrain_self_reference/record_types_for_usage/record_reference_types
// (solver), identify_reference_attributes/_identify_reference_attribute
// (identifier), classify_accessors/classify_accesses (classifier), and
// modify_mutated_attributes/mutate_attribute (mutation pass).
package deduce

import (
	"sort"
	"strings"

	"github.com/lichen-lang/lichen/internal/reference"
)

// Planes is a per-plane set of candidate type names.
type Planes struct {
	Class    map[string]struct{}
	Instance map[string]struct{}
	Module   map[string]struct{}
}

func newPlanes() Planes {
	return Planes{Class: map[string]struct{}{}, Instance: map[string]struct{}{}, Module: map[string]struct{}{}}
}

func (p Planes) union(other Planes) {
	for k := range other.Class {
		p.Class[k] = struct{}{}
	}
	for k := range other.Instance {
		p.Instance[k] = struct{}{}
	}
	for k := range other.Module {
		p.Module[k] = struct{}{}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefState is the per-definition-location deduction state: provider
// and accessor candidate sets on each plane, plus the constraint
// flags §3 defines.
type DefState struct {
	ProviderTypes Planes
	AccessorTypes Planes

	Constrained         bool
	ConstrainedSpecific bool

	AccessorGuardTest string // one of the §4.H guard-test atoms, or ""
}

func newDefState() *DefState {
	return &DefState{ProviderTypes: newPlanes(), AccessorTypes: newPlanes()}
}

// AttrRef is a (attrtype, object_type, ref) triple: attrtype is the
// plane the attribute was found on ("class", "instance", or
// "module"), object_type is the providing type, and ref is the
// resolved attribute reference.
type AttrRef struct {
	AttrType   string
	ObjectType string
	Ref        reference.Reference
}

// AccessState is the per-access-location deduction state.
type AccessState struct {
	ReferencedAttrs map[AttrRef]struct{}
	Constrained     bool
	TestType        string // §3 reference_test_types atom, or ""

	// TestProviderType is the sole provider object type backing an
	// active (non-guarded) TestType — reference_test_accessor_types in
	// deducer.py. Only set for the specific-*/common-* test types
	// ClassifyAccess derives from a single provider; empty otherwise,
	// including for "validate" and all "guarded-*" test types.
	TestProviderType string
}

func newAccessState() *AccessState {
	return &AccessState{ReferencedAttrs: map[AttrRef]struct{}{}}
}

// classOfScope returns the class name a method scope belongs to, by
// stripping the method's own trailing ".<name>" component, or "" if
// scope does not look like a qualified method path.
func classOfScope(scope string) string {
	i := strings.LastIndex(scope, ".")
	if i < 0 {
		return ""
	}
	return scope[:i]
}

func qualify(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
