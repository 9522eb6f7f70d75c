// Package layout implements the generator stage (§4.J): it consumes a
// completed deducer run's fact base and the Importer's static class,
// module, and function surface, and turns it into slot layouts and the
// C source artifacts described in §6.
//
// The original generator.py delegates the actual slot packing to a
// companion optimiser module that shares attribute positions across
// unrelated classes wherever their usage never conflicts. That module
// has no retrievable source in this port, so the Optimiser here makes
// a documented simplification instead: every object kind is given its
// own ordered, gapless slot list, and a single global numbering assigns
// `code(attr) == pos(attr)` for every attribute everywhere it appears.
// This preserves the functional invariant the rest of the pipeline
// depends on (table[i] names the attribute code at offset i of that
// object's attrs[]) while skipping the cross-type packing optimisation.
package layout

import (
	"sort"
	"strings"

	"github.com/lichen-lang/lichen/internal/config"
	"github.com/lichen-lang/lichen/internal/importer"
)

// Param is one parameter of a function, at the position the function's
// own parameter list assigns it (no cross-function slot sharing).
type Param struct {
	Name string
	Pos  int
}

// Optimiser holds the slot layout decisions the writer renders into C
// source: which attribute names exist program-wide, what dense code
// each is assigned, and the ordered slot list for every class, module,
// and function.
type Optimiser struct {
	Classes []string
	Modules []string

	// AllAttrNames is the sorted union of every attribute name that
	// appears in any class, module, or instance structure.
	AllAttrNames []string
	CodeOf       map[string]int

	// ClassStructures[class] is the ordered slot list for a class
	// object record: FnSlot, ArgsSlot, then the class's own sorted
	// attrnames (excluding reserved identity markers).
	ClassStructures map[string][]string

	// InstanceStructures[class] is the ordered slot list shared by
	// every instance of class: the sorted combined (class ∪ instance)
	// attrnames, with FnSlot/ArgsSlot prepended only for the builtin
	// function type.
	InstanceStructures map[string][]string

	// ModuleStructures[module] is the sorted attrname list for a
	// module object record.
	ModuleStructures map[string][]string

	// Parameters[path] is the ordered parameter list of the function
	// at path.
	Parameters map[string][]Param
	ArgMin     map[string]int
	ArgMax     map[string]int

	// InstantiatorArgMin/Max[class] are the instantiator's arity
	// bounds: the initialiser's bounds reduced by one, since the
	// instantiator injects the `self` slot itself.
	InstantiatorArgMin map[string]int
	InstantiatorArgMax map[string]int
}

// Build runs the optimiser over imp, computing every layout the writer
// needs to emit the §6 artifacts.
func Build(imp importer.Importer) *Optimiser {
	o := &Optimiser{
		Classes:             sortedCopy(imp.ClassNames()),
		Modules:             moduleNames(imp),
		CodeOf:              map[string]int{},
		ClassStructures:     map[string][]string{},
		InstanceStructures:  map[string][]string{},
		ModuleStructures:    map[string][]string{},
		Parameters:          map[string][]Param{},
		ArgMin:              map[string]int{},
		ArgMax:              map[string]int{},
		InstantiatorArgMin:  map[string]int{},
		InstantiatorArgMax:  map[string]int{},
	}

	attrSet := map[string]struct{}{}
	addAttr := func(a string) { attrSet[a] = struct{}{} }
	addAttr(config.FnSlot)
	addAttr(config.ArgsSlot)

	for _, class := range o.Classes {
		attrs := realAttrs(imp.AllClassAttrs(class))
		o.ClassStructures[class] = append([]string{config.FnSlot, config.ArgsSlot}, attrs...)
		for _, a := range attrs {
			addAttr(a)
		}

		combined := sortedSet(imp.AllCombinedAttrs(class))
		combined = filterMarkers(combined)
		structure := combined
		if class == config.FunctionType {
			structure = append([]string{config.FnSlot, config.ArgsSlot}, combined...)
		}
		o.InstanceStructures[class] = structure
		for _, a := range combined {
			addAttr(a)
		}
	}

	for _, module := range o.Modules {
		attrs := sortedSet(imp.AllModuleAttrs(module))
		o.ModuleStructures[module] = attrs
		for _, a := range attrs {
			addAttr(a)
		}
	}

	o.AllAttrNames = make([]string, 0, len(attrSet))
	for a := range attrSet {
		o.AllAttrNames = append(o.AllAttrNames, a)
	}
	sort.Strings(o.AllAttrNames)
	for i, a := range o.AllAttrNames {
		o.CodeOf[a] = i
	}

	for _, path := range imp.AllFunctionPaths() {
		names := imp.FunctionParameters(path)
		defaults := imp.FunctionDefaults(path)
		params := make([]Param, len(names))
		for i, n := range names {
			params[i] = Param{Name: n, Pos: i}
		}
		o.Parameters[path] = params
		argMax := len(names)
		argMin := argMax - len(defaults)
		o.ArgMin[path] = argMin
		o.ArgMax[path] = argMax

		if class, ok := strings.CutSuffix(path, ".__init__"); ok {
			o.InstantiatorArgMin[class] = argMin - 1
			o.InstantiatorArgMax[class] = argMax - 1
		}
	}

	return o
}

// realAttrs extracts the sorted attribute names from a class-attrs map,
// dropping reserved identity markers ("#<ClassName>").
func realAttrs(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for a := range m {
		if strings.HasPrefix(a, config.MarkerPrefix) {
			continue
		}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func filterMarkers(attrs []string) []string {
	out := attrs[:0:0]
	for _, a := range attrs {
		if strings.HasPrefix(a, config.MarkerPrefix) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func sortedSet(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// moduleNames returns a local, sorted enumeration of imp's module
// names. internal/deducer keeps an identical helper; it is duplicated
// here rather than imported to avoid a cross-package dependency
// between the deducer and generator stages.
func moduleNames(imp importer.Importer) []string {
	var out []string
	for name := range imp.Modules() {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
