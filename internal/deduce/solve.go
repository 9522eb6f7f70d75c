package deduce

import (
	"github.com/lichen-lang/lichen/internal/attrindex"
	"github.com/lichen-lang/lichen/internal/descendants"
	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/loc"
	"github.com/lichen-lang/lichen/internal/reference"
	"github.com/lichen-lang/lichen/internal/usageindex"
)

// Solver computes DefState for every definition location that carries
// usage, per §4.F.
type Solver struct {
	imp  importer.Importer
	idx  *usageindex.Indexes
	attr *attrindex.Index
	desc *descendants.Closure
}

// NewSolver builds a Solver over the given fact base and indexes.
func NewSolver(imp importer.Importer, idx *usageindex.Indexes, attr *attrindex.Index, desc *descendants.Closure) *Solver {
	return &Solver{imp: imp, idx: idx, attr: attr, desc: desc}
}

// Solve runs get_target_types/record_reference_types over every
// definition location usageindex recorded usage for, returning the
// per-location DefState map.
func (s *Solver) Solve() map[loc.Def]*DefState {
	out := map[loc.Def]*DefState{}
	for def, keys := range s.idx.Usage {
		out[def] = s.solveOne(def, keys)
	}
	return out
}

func (s *Solver) solveOne(def loc.Def, usageKeys map[loc.AttrPath]struct{}) *DefState {
	state := newDefState()
	qname := qualify(def.Path, def.Name)

	// 1. Initialised-name override.
	if versions := s.imp.AllInitialisedNames(qname); versions != nil {
		if ref, ok := versions[def.Version]; ok {
			s.recordOverride(state, ref)
			s.applySelfNarrowing(def, state)
			return state
		}
	}

	// 2. Usage-based candidates, unioned across every observed branch.
	candidates := newPlanes()
	for key := range usageKeys {
		attrs := key.Parts()
		for _, t := range s.attr.Class.TypesForUsage(attrs) {
			candidates.Class[t] = struct{}{}
		}
		for _, t := range s.attr.Instance.TypesForUsage(attrs) {
			candidates.Instance[t] = struct{}{}
		}
		for _, t := range s.attr.Module.TypesForUsage(attrs) {
			candidates.Module[t] = struct{}{}
		}
	}
	onlyInstance := map[string]struct{}{}
	for t := range candidates.Instance {
		if _, isClass := candidates.Class[t]; !isClass {
			onlyInstance[t] = struct{}{}
		}
	}

	state.ProviderTypes.Class = candidates.Class
	state.ProviderTypes.Instance = candidates.Instance
	state.ProviderTypes.Module = candidates.Module

	// Class types also supply the instance accessor plane, unless the
	// location turns out to be constrained_specific (the accessor is
	// the class object itself, not an instance of it).
	accessorInstance := map[string]struct{}{}
	for t := range candidates.Class {
		accessorInstance[t] = struct{}{}
	}
	for t := range onlyInstance {
		accessorInstance[t] = struct{}{}
	}
	state.AccessorTypes.Class = copySet(candidates.Class)
	state.AccessorTypes.Instance = accessorInstance
	state.AccessorTypes.Module = copySet(candidates.Module)

	// 3. Contextual constraint via an identified static object.
	if ref, ok := s.imp.Identify(qname); ok {
		s.constrainTypes(state, ref)
	}

	// 4. Self-narrowing.
	s.applySelfNarrowing(def, state)

	return state
}

func (s *Solver) recordOverride(state *DefState, ref reference.Reference) {
	state.Constrained = true
	switch ref.Kind() {
	case reference.Class:
		state.ProviderTypes.Class[ref.Origin()] = struct{}{}
		state.AccessorTypes.Class[ref.Origin()] = struct{}{}
	case reference.Module:
		state.ProviderTypes.Module[ref.Origin()] = struct{}{}
		state.AccessorTypes.Module[ref.Origin()] = struct{}{}
	case reference.Instance:
		state.ProviderTypes.Instance[ref.Origin()] = struct{}{}
		state.AccessorTypes.Instance[ref.Origin()] = struct{}{}
	}
}

// constrainTypes implements §4.F.3: an identified class or module
// reference pins that single plane and clears the others, flagging
// constrained_specific (the accessor is known to be the class/module
// object itself, not an instance of it).
func (s *Solver) constrainTypes(state *DefState, ref reference.Reference) {
	state.Constrained = true
	state.ConstrainedSpecific = true
	switch ref.Kind() {
	case reference.Class:
		state.ProviderTypes = Planes{
			Class:    map[string]struct{}{ref.Origin(): {}},
			Instance: map[string]struct{}{},
			Module:   map[string]struct{}{},
		}
		state.AccessorTypes = Planes{
			Class:    map[string]struct{}{ref.Origin(): {}},
			Instance: map[string]struct{}{},
			Module:   map[string]struct{}{},
		}
	case reference.Module:
		state.ProviderTypes = Planes{
			Class:    map[string]struct{}{},
			Instance: map[string]struct{}{},
			Module:   map[string]struct{}{ref.Origin(): {}},
		}
		state.AccessorTypes = Planes{
			Class:    map[string]struct{}{},
			Instance: map[string]struct{}{},
			Module:   map[string]struct{}{ref.Origin(): {}},
		}
	}
}

// applySelfNarrowing implements §4.F.4: inside a method of class C,
// the solver for "self" intersects candidates with {C} ∪
// descendants(C), records only the instance plane, and suppresses the
// class and module planes. Both the accessor types and the provider
// types are narrowed to this set, per constrain_self_reference
// (deducer.py:1226) and record_reference_types storing the narrowed
// sets as the providers; an empty intersection is left empty (it
// surfaces downstream as a zero-candidate-types warning) rather than
// falling back to the unnarrowed allowed set.
func (s *Solver) applySelfNarrowing(def loc.Def, state *DefState) {
	if def.Name != "self" {
		return
	}
	class := classOfScope(def.Path)
	if class == "" {
		return
	}
	allowed := map[string]struct{}{class: {}}
	for _, d := range s.desc.Descendants(class) {
		allowed[d] = struct{}{}
	}

	narrowed := map[string]struct{}{}
	for t := range state.AccessorTypes.Instance {
		if _, ok := allowed[t]; ok {
			narrowed[t] = struct{}{}
		}
	}
	for t := range state.AccessorTypes.Class {
		if _, ok := allowed[t]; ok {
			narrowed[t] = struct{}{}
		}
	}

	state.AccessorTypes = Planes{
		Class:    map[string]struct{}{},
		Instance: narrowed,
		Module:   map[string]struct{}{},
	}

	state.ProviderTypes = Planes{
		Class:    intersectSet(state.ProviderTypes.Class, allowed),
		Instance: intersectSet(state.ProviderTypes.Instance, allowed),
		Module:   map[string]struct{}{},
	}

	state.Constrained = true
}

func copySet(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func intersectSet(m, allowed map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for t := range m {
		if _, ok := allowed[t]; ok {
			out[t] = struct{}{}
		}
	}
	return out
}
