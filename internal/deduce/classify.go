package deduce

import (
	"sort"

	"github.com/lichen-lang/lichen/internal/attrindex"
	"github.com/lichen-lang/lichen/internal/descendants"
	"github.com/lichen-lang/lichen/internal/loc"
)

// TaggedType names a candidate type together with the plane (kind) it
// was found on: a class name can appear both as "class" (the accessor
// is the class object itself) and "instance" (the accessor is an
// instance of it) simultaneously, which is by design — see §4.F's
// class-types-propagate-to-instance-plane rule.
type TaggedType struct {
	Kind string
	Name string
}

// GeneralTypes implements get_most_general_types: a class is removed
// from the set only when *every* one of its descendants is also
// present in the set, in which case the whole descendant subtree is
// dropped and the ancestor alone is retained.
func GeneralTypes(set map[string]struct{}, desc *descendants.Closure) map[string]struct{} {
	result := copySet(set)
	for ancestor := range set {
		ds := desc.Descendants(ancestor)
		if len(ds) == 0 {
			continue
		}
		allPresent := true
		for _, d := range ds {
			if _, ok := set[d]; !ok {
				allPresent = false
				break
			}
		}
		if allPresent {
			for _, d := range ds {
				delete(result, d)
			}
		}
	}
	return result
}

// GeneralModuleTypes implements get_most_general_module_types: the
// module set collapses to the single root type only when every
// module in the whole program is present.
func GeneralModuleTypes(set map[string]struct{}, allModules []string) map[string]struct{} {
	if len(set) == len(allModules) {
		all := true
		for _, m := range allModules {
			if _, ok := set[m]; !ok {
				all = false
				break
			}
		}
		if all && len(allModules) > 0 {
			return map[string]struct{}{"__builtins__.object": {}}
		}
	}
	return copySet(set)
}

func taggedUnion(planes Planes) map[TaggedType]struct{} {
	out := map[TaggedType]struct{}{}
	for t := range planes.Class {
		out[TaggedType{Kind: "class", Name: t}] = struct{}{}
	}
	for t := range planes.Instance {
		out[TaggedType{Kind: "instance", Name: t}] = struct{}{}
	}
	for t := range planes.Module {
		out[TaggedType{Kind: "module", Name: t}] = struct{}{}
	}
	return out
}

func generalPlanes(planes Planes, desc *descendants.Closure, allModules []string) Planes {
	return Planes{
		Class:    GeneralTypes(planes.Class, desc),
		Instance: GeneralTypes(planes.Instance, desc),
		Module:   GeneralModuleTypes(planes.Module, allModules),
	}
}

// allSubclassesOfOne reports whether every tagged type in types is the
// same class or a descendant of some single class among them.
func allSubclassesOfOne(types map[TaggedType]struct{}, desc *descendants.Closure) bool {
	if len(types) <= 1 {
		return len(types) == 1
	}
	for root := range types {
		allowed := map[string]struct{}{root.Name: {}}
		for _, d := range desc.Descendants(root.Name) {
			allowed[d] = struct{}{}
		}
		ok := true
		for t := range types {
			if _, in := allowed[t.Name]; !in {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func singleKind(types map[TaggedType]struct{}) (string, bool) {
	if len(types) != 1 {
		return "", false
	}
	for t := range types {
		return t.Kind, true
	}
	return "", false
}

// guardTest applies the §4.H guard-test table to a tagged-type set,
// given both the set itself (A) and its general closure (G).
func guardTest(a, g map[TaggedType]struct{}, desc *descendants.Closure) string {
	if kind, ok := singleKind(a); ok {
		return "specific-" + kind
	}
	if len(a) > 0 && allSubclassesOfOne(a, desc) {
		return "specific-object"
	}
	if kind, ok := singleKind(g); ok {
		return "common-" + kind
	}
	if len(g) > 0 && allSubclassesOfOne(g, desc) {
		return "common-object"
	}
	return ""
}

// ClassifyAccessor implements §4.H's accessor classification, run only
// for unconstrained definition locations.
func ClassifyAccessor(state *DefState, desc *descendants.Closure, allModules []string) string {
	if state.Constrained {
		return ""
	}
	a := taggedUnion(state.AccessorTypes)
	g := taggedUnion(generalPlanes(state.AccessorTypes, desc, allModules))
	test := guardTest(a, g, desc)
	state.AccessorGuardTest = test
	return test
}

// objectRootType is the root builtins class; a sole provider or
// guard-attribute type of exactly this class carries no useful
// narrowing information (deducer.py checks `provider !=
// '__builtins__.object'` before recording an active test type).
const objectRootType = "__builtins__.object"

// ClassifyAccess implements §4.H's access classification. The guard
// decision is made from the accessor types of every definition
// location reaching this access alone (deducer.py's all_accessor_types/
// all_accessor_general_types); the provider types are used separately,
// only to check whether a guard's types would still provide the
// attributes referenced here. Constrained accesses are left untested
// entirely, matching classify_accesses's "if not constrained:" guard
// around both the guarded and the active-test recording.
func ClassifyAccess(
	access loc.Access,
	reachingDefs []loc.Def,
	defStates map[loc.Def]*DefState,
	attrIdx *attrindex.Index,
	desc *descendants.Closure,
	allModules []string,
) *AccessState {
	state := newAccessState()

	accessorUnion := newPlanes()
	providerUnion := newPlanes()
	for _, def := range reachingDefs {
		ds, ok := defStates[def]
		if !ok {
			continue
		}
		accessorUnion.union(ds.AccessorTypes)
		providerUnion.union(ds.ProviderTypes)
		if ds.Constrained {
			state.Constrained = true
		}
	}

	if state.Constrained {
		return state
	}

	a := taggedUnion(accessorUnion)
	g := taggedUnion(generalPlanes(accessorUnion, desc, allModules))
	test := guardTest(a, g, desc)

	attrs := access.Attrnames.Parts()

	if test != "" && attrsProvidedBy(attrs, providerUnion, attrIdx) {
		state.TestType = "guarded-" + test
		return state
	}

	// Provide active test types, keyed by the providers themselves
	// rather than the accessor types: a single provider (or, failing
	// that, a single general provider) pins the test, with the kind
	// taken from the accessor types when they form a single tagged
	// type (a single general tagged type for the common-* branch) and
	// "object" otherwise. A provider of __builtins__.object is skipped,
	// since it distinguishes nothing; the location then falls through
	// both branches to "validate".
	if provider, ok := singleName(plainNames(taggedUnion(providerUnion))); ok && provider != objectRootType {
		if kind, ok := singleKind(a); ok {
			state.TestType = "specific-" + kind
		} else {
			state.TestType = "specific-object"
		}
		state.TestProviderType = provider
		return state
	}

	generalProviderUnion := generalPlanes(providerUnion, desc, allModules)
	if provider, ok := singleName(plainNames(taggedUnion(generalProviderUnion))); ok && provider != objectRootType {
		if kind, ok := singleKind(g); ok {
			state.TestType = "common-" + kind
		} else {
			state.TestType = "common-object"
		}
		state.TestProviderType = provider
		return state
	}

	state.TestType = "validate"
	return state
}

// plainNames collapses a tagged type set to its plain type names,
// since a name can carry more than one kind tag (a class providing
// both the class plane and the instance plane) while still counting
// as a single provider.
func plainNames(tagged map[TaggedType]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for t := range tagged {
		out[t.Name] = struct{}{}
	}
	return out
}

func singleName(names map[string]struct{}) (string, bool) {
	if len(names) != 1 {
		return "", false
	}
	for n := range names {
		return n, true
	}
	return "", false
}

// attrsProvidedBy reports whether every attribute name in attrs is
// provided by at least one type in union, per the §4.H guard-subset
// rule (testable property 5).
func attrsProvidedBy(attrs []string, union Planes, attrIdx *attrindex.Index) bool {
	if len(attrs) == 0 {
		return true
	}
	for _, attr := range attrs {
		found := false
		for t := range union.Class {
			if attrIdx.Class.Provides(t, []string{attr}) {
				found = true
				break
			}
		}
		if !found {
			for t := range union.Instance {
				if attrIdx.Instance.Provides(t, []string{attr}) {
					found = true
					break
				}
			}
		}
		if !found {
			for t := range union.Module {
				if attrIdx.Module.Provides(t, []string{attr}) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortedTagged(types map[TaggedType]struct{}) []TaggedType {
	out := make([]TaggedType, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
