package deduce

import (
	"github.com/lichen-lang/lichen/internal/attrindex"
	"github.com/lichen-lang/lichen/internal/descendants"
	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/reference"
	"github.com/lichen-lang/lichen/internal/usageindex"
)

// ModifyMutatedAttributes implements modify_mutated_attributes /
// mutate_attribute: for every usage-key assignment recorded in
// assigned_attrs, it unions the class/only-instance candidates (with
// self-narrowing when the assigned name is "self"), and for each
// candidate type whose attribute already has a class-level value,
// demotes that value to <var> in the Importer — because an instance
// may now override it — and records the original value in the
// returned modified_attributes map, keyed by "<type>.<attr>".
//
// This is the one pass permitted to write through the Importer
// (SetObject); it must complete before §4.G reference identification
// runs, since that pass otherwise reads the stale, pre-demotion class
// attribute value.
func ModifyMutatedAttributes(
	imp importer.Importer,
	idx *usageindex.Indexes,
	attrIdx *attrindex.Index,
	desc *descendants.Closure,
) map[string]reference.Reference {
	modified := map[string]reference.Reference{}

	for usageKey, refs := range idx.AssignedAttrs {
		attrs := usageKey.Parts()
		if len(attrs) == 0 {
			continue
		}
		attrName := attrs[len(attrs)-1]

		classTypes := attrIdx.Class.TypesForUsage(attrs)
		instanceTypes := attrIdx.Instance.TypesForUsage(attrs)
		classSet := map[string]struct{}{}
		for _, t := range classTypes {
			classSet[t] = struct{}{}
		}

		for _, ref := range refs {
			candidates := copySet(classSet)
			for _, t := range instanceTypes {
				candidates[t] = struct{}{}
			}

			if ref.Name == "self" {
				class := classOfScope(ref.Path)
				if class != "" {
					allowed := map[string]struct{}{class: {}}
					for _, d := range desc.Descendants(class) {
						allowed[d] = struct{}{}
					}
					narrowed := map[string]struct{}{}
					for t := range candidates {
						if _, ok := allowed[t]; ok {
							narrowed[t] = struct{}{}
						}
					}
					candidates = narrowed
				}
			}

			for t := range candidates {
				fullPath := t + "." + attrName
				original, ok := imp.GetObject(fullPath)
				if !ok {
					continue
				}
				modified[fullPath] = original
				imp.SetObject(fullPath, reference.MustNew(reference.Var, "", attrName))
			}
		}
	}

	return modified
}
