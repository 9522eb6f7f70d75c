// Package usageindex merges the per-scope usage and access streams the
// Importer exposes into the location-keyed maps the solver consumes:
// which usage branches were observed at a definition location, which
// definition locations reach a given access, which usages correspond
// to an assignment, and how aliased names flatten to their ultimate
// non-alias sources.
//
// Grounded on deducer.py's init_usage_index/add_usage/add_usage_term,
// init_accessors/add_accessors/get_accessors_for_access, init_accesses,
// and init_aliases/update_aliases.
package usageindex

import (
	"sort"
	"strings"

	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/loc"
)

// Canonical builds the sorted-deduplicated usage key for one observed
// branch, per §3's "keys built by sorted deduplication".
func Canonical(branch importer.UsageBranch) loc.AttrPath {
	if len(branch) == 0 {
		return ""
	}
	seen := map[string]struct{}{}
	var uniq []string
	for _, a := range branch {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		uniq = append(uniq, a)
	}
	sort.Strings(uniq)
	return loc.NewAttrPath(uniq...)
}

// AssignedRef names one (path, name, attrnames) triple observed to be
// the target of an assignment.
type AssignedRef struct {
	Path      string
	Name      string
	Attrnames loc.AttrPath
}

// Indexes bundles the four location-keyed maps built from a single
// Importer fact base.
type Indexes struct {
	// Usage maps a definition location to the set of usage keys
	// observed on it across every branch and every scope version.
	Usage map[loc.Def]map[loc.AttrPath]struct{}

	// Accessors maps an access location to every definition location
	// whose name-version reaches it.
	Accessors map[loc.Access][]loc.Def

	// AssignedAttrs maps a usage key to every (path, name, attrnames)
	// triple reached by an assignment under that key.
	AssignedAttrs map[loc.AttrPath][]AssignedRef

	// AliasIndex maps a definition location to the access locations
	// whose resolved value defines it (pre-flattening).
	AliasIndex map[loc.Def][]loc.Access

	// FlattenedAliases maps a definition location to the terminal,
	// non-alias definition locations its alias chain ultimately
	// resolves to.
	FlattenedAliases map[loc.Def][]loc.Def
}

// Build runs every index-building pass over imp.
func Build(imp importer.Importer) *Indexes {
	idx := &Indexes{
		Usage:         map[loc.Def]map[loc.AttrPath]struct{}{},
		Accessors:     map[loc.Access][]loc.Def{},
		AssignedAttrs: map[loc.AttrPath][]AssignedRef{},
		AliasIndex:    map[loc.Def][]loc.Access{},
	}
	initUsageIndex(imp, idx)
	initAccessors(imp, idx)
	initAccesses(imp, idx)
	initAliases(imp, idx)
	idx.FlattenedAliases = flattenAliases(idx)
	return idx
}

func addUsage(idx *Indexes, def loc.Def, key loc.AttrPath) {
	bucket, ok := idx.Usage[def]
	if !ok {
		bucket = map[loc.AttrPath]struct{}{}
		idx.Usage[def] = bucket
	}
	bucket[key] = struct{}{}
}

// initUsageIndex stores, for every (scope, name) usage observation, one
// entry per version the name takes in that scope (drawn from the
// accessor versions and initialised-name versions recorded for it;
// absent any, version 0 is assumed). It also synthesises a probe
// location for anonymous top-level attribute-chain accesses, using the
// chain's last component as the usage key, per §4.E.
func initUsageIndex(imp importer.Importer, idx *Indexes) {
	for _, mod := range imp.Modules() {
		for _, scope := range mod.Scopes() {
			usage := mod.AttrUsage(scope)
			accessors := mod.AttrAccessors(scope)
			for name, branches := range usage {
				versions := versionsFor(imp, scope, name, accessors)
				for _, v := range versions {
					def := loc.Def{Path: scope, Name: name, Version: v}
					for _, branch := range branches {
						addUsage(idx, def, Canonical(branch))
					}
				}
			}

			for _, attrnames := range imp.AllAttrAccesses(scope) {
				parts := attrnames.Parts()
				if len(parts) == 0 {
					continue
				}
				probe := loc.Def{Path: scope, Name: "", Version: 0}
				addUsage(idx, probe, loc.NewAttrPath(parts[len(parts)-1]))
			}
		}
	}
}

func versionsFor(imp importer.Importer, scope, name string, accessors map[importer.AccessKey][]int) []int {
	seen := map[int]struct{}{}
	var out []int
	add := func(v int) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for key, versions := range accessors {
		if key.Name != name {
			continue
		}
		for _, v := range versions {
			add(v)
		}
	}
	for v := range imp.AllInitialisedNames(scope + "." + name) {
		add(v)
	}
	if len(out) == 0 {
		add(0)
	}
	sort.Ints(out)
	return out
}

// initAccessors records, for every (scope, name, attrnames,
// access_number) access, the definition locations whose name-version
// reaches it.
func initAccessors(imp importer.Importer, idx *Indexes) {
	for _, mod := range imp.Modules() {
		for _, scope := range mod.Scopes() {
			for key, versions := range mod.AttrAccessors(scope) {
				access := loc.Access{Path: scope, Name: key.Name, Attrnames: key.Attrnames, Number: key.Number}
				for _, v := range versions {
					idx.Accessors[access] = append(idx.Accessors[access], loc.Def{Path: scope, Name: key.Name, Version: v})
				}
			}
		}
	}
}

// initAccesses propagates assignment modifiers: wherever
// all_attr_access_modifiers marks an access as an assignment, the
// (path, name, attrnames) triple is recorded under the access's own
// attrnames as the usage key. The usage keys of the definition
// locations reaching that access are not consulted.
func initAccesses(imp importer.Importer, idx *Indexes) {
	for _, mod := range imp.Modules() {
		for _, scope := range mod.Scopes() {
			mods := imp.AllAttrAccessModifiers(scope)
			for key, flags := range mods {
				assigned := false
				for _, f := range flags {
					if f {
						assigned = true
						break
					}
				}
				if !assigned {
					continue
				}
				ref := AssignedRef{Path: scope, Name: key.Name, Attrnames: key.Attrnames}
				idx.AssignedAttrs[key.Attrnames] = append(idx.AssignedAttrs[key.Attrnames], ref)
			}
		}
	}
}

// initAliases builds alias_index[def_loc] = [access_loc ...] from
// all_aliased_names. A qualified name is split on its last "." into
// (path, name).
func initAliases(imp importer.Importer, idx *Indexes) {
	for _, qname := range imp.AliasedNameKeys() {
		path, name := splitQualified(qname)
		for version, target := range imp.AllAliasedNames(qname) {
			def := loc.Def{Path: path, Name: name, Version: version}
			access := loc.Access{Path: path, Name: target.OrigName, Attrnames: target.Attrnames, Number: target.Number}
			idx.AliasIndex[def] = append(idx.AliasIndex[def], access)
		}
	}
}

func splitQualified(qname string) (path, name string) {
	i := strings.LastIndex(qname, ".")
	if i < 0 {
		return "", qname
	}
	return qname[:i], qname[i+1:]
}

// flattenAliases walks each alias chain with an explicit stack and a
// visited set of access locations, terminating at non-alias
// definition locations. A revisited access location contributes
// nothing further, breaking cycles silently rather than erroring, per
// §4.E and §9.
func flattenAliases(idx *Indexes) map[loc.Def][]loc.Def {
	out := map[loc.Def][]loc.Def{}
	for def, initial := range idx.AliasIndex {
		visited := map[loc.Access]struct{}{}
		stack := append([]loc.Access(nil), initial...)
		var resolved []loc.Def

		for len(stack) > 0 {
			n := len(stack) - 1
			access := stack[n]
			stack = stack[:n]

			if _, seen := visited[access]; seen {
				continue
			}
			visited[access] = struct{}{}

			reaching := idx.Accessors[access]
			for _, d := range reaching {
				if next, isAlias := idx.AliasIndex[d]; isAlias && len(next) > 0 {
					for _, a := range next {
						if _, seen := visited[a]; !seen {
							stack = append(stack, a)
						}
					}
					continue
				}
				resolved = append(resolved, d)
			}
		}
		out[def] = resolved
	}
	return out
}
