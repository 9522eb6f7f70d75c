// Package attrindex builds, for each of the class/instance/module
// planes, an inverted index from attribute name to the set of types
// whose layout provides it, and answers "which types provide at least
// this set of attributes" queries against it.
//
// Grounded on deducer.py's init_attr_type_indexes,
// _init_attr_type_index and _get_types_for_usage.
package attrindex

import "github.com/lichen-lang/lichen/internal/importer"

// Plane is one forward/inverted attribute-type index pair for a single
// plane (class, instance, or module).
type Plane struct {
	forward map[string]map[string]struct{} // type -> attrs it provides
	inverse map[string]map[string]struct{} // attr -> types providing it
	types   []string                       // universe of types on this plane, for the empty-usage case
}

func buildPlane(universe []string, attrsOf func(t string) map[string]struct{}) *Plane {
	p := &Plane{
		forward: map[string]map[string]struct{}{},
		inverse: map[string]map[string]struct{}{},
		types:   append([]string(nil), universe...),
	}
	for _, t := range universe {
		attrs := attrsOf(t)
		p.forward[t] = attrs
		for a := range attrs {
			bucket, ok := p.inverse[a]
			if !ok {
				bucket = map[string]struct{}{}
				p.inverse[a] = bucket
			}
			bucket[t] = struct{}{}
		}
	}
	return p
}

// TypesForUsage returns every type on this plane whose attribute set is
// a superset of attrnames. An empty attrnames list matches every type
// on the plane (§4.C: "Empty usage matches all types on that plane").
func (p *Plane) TypesForUsage(attrnames []string) []string {
	if len(attrnames) == 0 {
		return append([]string(nil), p.types...)
	}
	candidates := p.inverse[attrnames[0]]
	var result []string
	for t := range candidates {
		if p.provides(t, attrnames) {
			result = append(result, t)
		}
	}
	return result
}

func (p *Plane) provides(t string, attrnames []string) bool {
	attrs := p.forward[t]
	for _, a := range attrnames {
		if _, ok := attrs[a]; !ok {
			return false
		}
	}
	return true
}

// Provides reports whether type t's attribute set is a superset of
// attrnames on this plane.
func (p *Plane) Provides(t string, attrnames []string) bool {
	return p.provides(t, attrnames)
}

// Index holds the three planes built from a single Importer fact base.
type Index struct {
	Class    *Plane
	Instance *Plane
	Module   *Plane
}

// Build constructs the three inverted indexes from an Importer's
// all_class_attrs, all_combined_attrs, and all_module_attrs maps. It
// must run after descendant closure has injected the "#<Class>"
// identity markers, so those markers participate in the class plane.
func Build(imp importer.Importer) *Index {
	classes := imp.ClassNames()

	classPlane := buildPlane(classes, func(t string) map[string]struct{} {
		attrs := imp.AllClassAttrs(t)
		out := make(map[string]struct{}, len(attrs))
		for a := range attrs {
			out[a] = struct{}{}
		}
		return out
	})

	instancePlane := buildPlane(classes, func(t string) map[string]struct{} {
		return imp.AllCombinedAttrs(t)
	})

	var modules []string
	for name := range imp.Modules() {
		modules = append(modules, name)
	}
	modulePlane := buildPlane(modules, func(t string) map[string]struct{} {
		return imp.AllModuleAttrs(t)
	})

	return &Index{Class: classPlane, Instance: instancePlane, Module: modulePlane}
}
