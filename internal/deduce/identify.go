package deduce

import "github.com/lichen-lang/lichen/internal/importer"

// IdentifyReferenceAttributes implements §4.G's
// _identify_reference_attribute: given an attribute name and the three
// candidate type planes, resolve every concrete attribute reference
// the access may resolve to.
func IdentifyReferenceAttributes(imp importer.Importer, attrname string, classTypes, instanceTypes, moduleTypes []string) map[AttrRef]struct{} {
	out := map[AttrRef]struct{}{}

	for _, t := range classTypes {
		if ref, ok := imp.GetClassAttribute(t, attrname); ok {
			out[AttrRef{AttrType: "class", ObjectType: t, Ref: ref}] = struct{}{}
		}
		for _, ref := range imp.GetInstanceAttributes(t, attrname) {
			out[AttrRef{AttrType: "instance", ObjectType: t, Ref: ref}] = struct{}{}
		}
	}

	for _, t := range instanceTypes {
		instRefs := imp.GetInstanceAttributes(t, attrname)
		if len(instRefs) > 0 {
			for _, ref := range instRefs {
				out[AttrRef{AttrType: "instance", ObjectType: t, Ref: ref}] = struct{}{}
			}
			continue
		}
		if ref, ok := imp.GetClassAttribute(t, attrname); ok {
			out[AttrRef{AttrType: "class", ObjectType: t, Ref: ref}] = struct{}{}
		}
	}

	for _, t := range moduleTypes {
		if ref, ok := imp.GetModuleAttribute(t, attrname); ok {
			out[AttrRef{AttrType: "module", ObjectType: t, Ref: ref}] = struct{}{}
		}
	}

	return out
}
