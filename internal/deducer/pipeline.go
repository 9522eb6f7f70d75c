// Package deducer orchestrates the full analysis pipeline — descendant
// closure, attribute-type indexing, usage/access/alias indexing,
// mutation demotion, type solving, reference identification, and
// guard/test classification — in the fixed order the passes require,
// and writes the nine text artifacts §6 specifies.
//
// Grounded on deducer.py's Deducer.__init__ (the pass ordering) and its
// to_output/write_mutations/write_accessors/write_accesses methods
// (the artifact formats).
package deducer

import (
	"sort"

	"github.com/lichen-lang/lichen/internal/attrindex"
	"github.com/lichen-lang/lichen/internal/deduce"
	"github.com/lichen-lang/lichen/internal/descendants"
	"github.com/lichen-lang/lichen/internal/diagnostics"
	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/loc"
	"github.com/lichen-lang/lichen/internal/reference"
	"github.com/lichen-lang/lichen/internal/usageindex"
)

// Result is the complete, frozen output of one deducer run: everything
// the layout generator and the text writer need.
type Result struct {
	Descendants        *descendants.Closure
	AttrIndex          *attrindex.Index
	Indexes            *usageindex.Indexes
	DefStates          map[loc.Def]*deduce.DefState
	AccessStates       map[loc.Access]*deduce.AccessState
	ModifiedAttributes map[string]reference.Reference
	Diagnostics        *diagnostics.Diagnostics
}

// Run executes the fixed pipeline over imp:
//
//	descendants -> special attributes -> attribute-type index ->
//	usage/access/alias index -> type solver -> mutation pass ->
//	accessor classification -> access classification
//
// per the ordering guarantees in §5: descendants before the attribute
// index (so markers are present), the usage/access/alias indexes
// before the solver, the mutation pass before classification (which
// reads post-mutation class attributes through the same Importer), and
// the solver before classification.
func Run(imp importer.Importer) *Result {
	desc := descendants.New(imp)
	desc.InjectSpecialAttributes(imp.ClassNames())

	attrIdx := attrindex.Build(imp)
	idx := usageindex.Build(imp)

	solver := deduce.NewSolver(imp, idx, attrIdx, desc)
	defStates := solver.Solve()

	modified := deduce.ModifyMutatedAttributes(imp, idx, attrIdx, desc)

	allModules := ModuleNames(imp)
	diags := diagnostics.NewAccumulator()

	for def, state := range defStates {
		deduce.ClassifyAccessor(state, desc, allModules)
		if countAll(state.AccessorTypes) == 0 {
			diags.Addf(diagnostics.TypeWarning, def.String(), "deduced zero candidate types")
		}
	}

	accessStates := map[loc.Access]*deduce.AccessState{}
	for access, reachingDefs := range idx.Accessors {
		if len(reachingDefs) == 0 {
			diags.Addf(diagnostics.UnresolvedName, access.String(), "no reaching definition for %q", access.Name)
		}
		state := deduce.ClassifyAccess(access, reachingDefs, defStates, attrIdx, desc, allModules)
		attrName := lastAttr(access.Attrnames)
		classTypes, instanceTypes, moduleTypes := unionProviderTypes(reachingDefs, defStates)
		refs := deduce.IdentifyReferenceAttributes(imp, attrName, classTypes, instanceTypes, moduleTypes)
		for r := range refs {
			state.ReferencedAttrs[r] = struct{}{}
		}
		accessStates[access] = state
	}

	knownClasses := map[string]struct{}{}
	for _, c := range imp.ClassNames() {
		knownClasses[c] = struct{}{}
	}
	for _, class := range imp.ClassNames() {
		for _, base := range imp.Classes(class) {
			if base.Origin() == "" {
				continue
			}
			if _, known := knownClasses[base.Origin()]; !known {
				diags.Addf(diagnostics.BadClassBase, class, "base %q is not a known class", base.Origin())
			}
		}
	}

	return &Result{
		Descendants:        desc,
		AttrIndex:          attrIdx,
		Indexes:            idx,
		DefStates:          defStates,
		AccessStates:       accessStates,
		ModifiedAttributes: modified,
		Diagnostics:        diags,
	}
}

// ModuleNames returns every module name in the program, sorted; used
// by the accessor/access classifiers and by the writer for the
// general-module-type collapse check.
func ModuleNames(imp importer.Importer) []string {
	var out []string
	for name := range imp.Modules() {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func lastAttr(p loc.AttrPath) string {
	parts := p.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func unionProviderTypes(defs []loc.Def, defStates map[loc.Def]*deduce.DefState) (class, instance, module []string) {
	classSet, instanceSet, moduleSet := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	for _, def := range defs {
		ds, ok := defStates[def]
		if !ok {
			continue
		}
		for t := range ds.ProviderTypes.Class {
			classSet[t] = struct{}{}
		}
		for t := range ds.ProviderTypes.Instance {
			instanceSet[t] = struct{}{}
		}
		for t := range ds.ProviderTypes.Module {
			moduleSet[t] = struct{}{}
		}
	}
	return sortedSetKeys(classSet), sortedSetKeys(instanceSet), sortedSetKeys(moduleSet)
}

func sortedSetKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
