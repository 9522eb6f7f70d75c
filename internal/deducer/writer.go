package deducer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lichen-lang/lichen/internal/deduce"
	"github.com/lichen-lang/lichen/internal/descendants"
	"github.com/lichen-lang/lichen/internal/loc"
)

// Artifacts is the set of nine newline-delimited text files §6 names.
// Each field holds the file's full contents, records already sorted
// for reproducibility (testable property 6).
type Artifacts struct {
	Mutations         string
	Types             string
	TypeSummary       string
	TypeWarnings      string
	Guards            string
	Attributes        string
	AttributeSummary  string
	Tests             string
	AttributeWarnings string
}

func constrainedLabel(constrained bool) string {
	if constrained {
		return "constrained"
	}
	return "deduced"
}

// accessorPlaneKind picks the dominant plane a definition location's
// accessor types were drawn from, for the "<class|instance|module|>"
// field in the types/type_summary artifacts.
func accessorPlaneKind(planes deduce.Planes) string {
	switch {
	case len(planes.Class) > 0:
		return "class"
	case len(planes.Instance) > 0:
		return "instance"
	case len(planes.Module) > 0:
		return "module"
	default:
		return ""
	}
}

func countAll(planes deduce.Planes) int {
	return len(planes.Class) + len(planes.Instance) + len(planes.Module)
}

func generalTypesSorted(planes deduce.Planes, desc *descendants.Closure, allModules []string) []string {
	out := map[string]struct{}{}
	for t := range deduce.GeneralTypes(planes.Class, desc) {
		out[t] = struct{}{}
	}
	for t := range deduce.GeneralTypes(planes.Instance, desc) {
		out[t] = struct{}{}
	}
	for t := range deduce.GeneralModuleTypes(planes.Module, allModules) {
		out[t] = struct{}{}
	}
	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Write renders every artifact from a completed Result.
func Write(r *Result, allModules []string) Artifacts {
	defLocs := make([]loc.Def, 0, len(r.DefStates))
	for d := range r.DefStates {
		defLocs = append(defLocs, d)
	}
	sort.Slice(defLocs, func(i, j int) bool { return defLocs[i].String() < defLocs[j].String() })

	accessLocs := make([]loc.Access, 0, len(r.AccessStates))
	for a := range r.AccessStates {
		accessLocs = append(accessLocs, a)
	}
	sort.Slice(accessLocs, func(i, j int) bool { return accessLocs[i].String() < accessLocs[j].String() })

	var mutations, types, typeSummary, typeWarnings, guards []string
	var attributes, attributeSummary, tests, attributeWarnings []string

	modPaths := make([]string, 0, len(r.ModifiedAttributes))
	for p := range r.ModifiedAttributes {
		modPaths = append(modPaths, p)
	}
	sort.Strings(modPaths)
	for _, p := range modPaths {
		mutations = append(mutations, fmt.Sprintf("%s  %s", p, string(r.ModifiedAttributes[p].Kind())))
	}

	for _, def := range defLocs {
		state := r.DefStates[def]
		kind := accessorPlaneKind(state.AccessorTypes)
		general := generalTypesSorted(state.AccessorTypes, r.Descendants, allModules)
		nSpecific := countAll(state.AccessorTypes)
		defLoc := def.String()

		types = append(types, fmt.Sprintf("%s  %s  <%s>  %s  %d",
			defLoc, constrainedLabel(state.Constrained), kind, strings.Join(general, ";"), nSpecific))

		summaryKind := state.AccessorGuardTest
		if summaryKind == "" {
			summaryKind = "unguarded"
		}
		typeSummary = append(typeSummary, fmt.Sprintf("%s  %s  %s  %s  %d",
			defLoc, constrainedLabel(state.Constrained), summaryKind, strings.Join(general, ";"), nSpecific))

		if nSpecific == 0 {
			typeWarnings = append(typeWarnings, defLoc+"  ")
		}

		if state.AccessorGuardTest != "" {
			guardKind := guardKindOf(state.AccessorGuardTest)
			guards = append(guards, fmt.Sprintf("%s  %s  %s  %s",
				defLoc, state.AccessorGuardTest, guardKind, strings.Join(general, ";")))
		}
	}

	for _, access := range accessLocs {
		state := r.AccessStates[access]
		aloc := access.String()

		byKind := map[string][]string{}
		for ref := range state.ReferencedAttrs {
			byKind[ref.AttrType] = append(byKind[ref.AttrType], ref.Ref.String())
		}
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			refs := byKind[k]
			sort.Strings(refs)
			attributes = append(attributes, fmt.Sprintf("%s  %s  <%s>  %s",
				aloc, constrainedLabel(state.Constrained), k, strings.Join(refs, ";")))
		}

		attrs := access.Attrnames.Parts()
		sort.Strings(attrs)
		testLabel := state.TestType
		if testLabel == "" {
			testLabel = "untested"
		}
		attributeSummary = append(attributeSummary, fmt.Sprintf("%s  %s  %s  %s",
			aloc, constrainedLabel(state.Constrained), testLabel, strings.Join(attrs, ";")))

		// A tests line is written only for "validate", or for an active
		// (non-guarded) test type whose single provider got recorded —
		// guarded-* and untested ("") accesses emit no line at all, per
		// classify_accesses's own f_tests writing condition.
		if state.TestType == "validate" {
			tests = append(tests, aloc+"  validate")
		} else if state.TestType != "" && state.TestProviderType != "" {
			tests = append(tests, fmt.Sprintf("%s  %s  %s  %s",
				aloc, state.TestType, strings.Join(attrs, ";"), state.TestProviderType))
		}

		if len(state.ReferencedAttrs) == 0 {
			attributeWarnings = append(attributeWarnings, aloc)
		}
	}

	return Artifacts{
		Mutations:         joinLines(mutations),
		Types:             joinLines(types),
		TypeSummary:       joinLines(typeSummary),
		TypeWarnings:      joinLines(typeWarnings),
		Guards:            joinLines(guards),
		Attributes:        joinLines(attributes),
		AttributeSummary:  joinLines(attributeSummary),
		Tests:             joinLines(tests),
		AttributeWarnings: joinLines(attributeWarnings),
	}
}

// guardKindOf extracts the "<kind|object>" suffix from a guard/test
// atom such as "specific-class" or "guarded-common-object".
func guardKindOf(test string) string {
	i := strings.LastIndex(test, "-")
	if i < 0 {
		return test
	}
	return test[i+1:]
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
