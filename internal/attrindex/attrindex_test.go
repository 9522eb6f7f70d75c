package attrindex

import (
	"sort"
	"testing"

	"github.com/lichen-lang/lichen/internal/importer"
)

func sorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

func buildFixture() *importer.FactBase {
	f := importer.NewFactBase()
	f.AllClasses = []string{"A", "B"}
	f.ClassAttrs["A"] = map[string]string{"f": "A.f"}
	f.ClassAttrs["B"] = map[string]string{"f": "B.f", "g": "B.g"}
	f.CombinedAttrs["A"] = map[string]struct{}{"f": {}, "x": {}}
	f.CombinedAttrs["B"] = map[string]struct{}{"f": {}, "g": {}}
	f.ModuleAttrs["m"] = map[string]struct{}{"y": {}}
	f.ModulesByName["m"] = importer.NewModule("m")
	return f
}

func TestTypesForUsageNarrowsOnClassPlane(t *testing.T) {
	idx := Build(buildFixture())

	got := sorted(idx.Class.TypesForUsage([]string{"f"}))
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("class types for {f} = %v, want [A B]", got)
	}

	got = idx.Class.TypesForUsage([]string{"g"})
	if len(got) != 1 || got[0] != "B" {
		t.Fatalf("class types for {g} = %v, want [B]", got)
	}
}

func TestTypesForUsageEmptyMatchesAll(t *testing.T) {
	idx := Build(buildFixture())
	got := sorted(idx.Class.TypesForUsage(nil))
	if len(got) != 2 {
		t.Fatalf("empty usage should match every type on the plane, got %v", got)
	}
}

func TestUsageMonotonicity(t *testing.T) {
	idx := Build(buildFixture())
	narrower := idx.Instance.TypesForUsage([]string{"f"})
	wider := idx.Instance.TypesForUsage([]string{"f", "g"})

	narrowSet := map[string]struct{}{}
	for _, t := range narrower {
		narrowSet[t] = struct{}{}
	}
	for _, typ := range wider {
		if _, ok := narrowSet[typ]; !ok {
			t.Fatalf("types_for_usage({f,g})=%v is not a subset of types_for_usage({f})=%v", wider, narrower)
		}
	}
}

func TestModulePlane(t *testing.T) {
	idx := Build(buildFixture())
	got := idx.Module.TypesForUsage([]string{"y"})
	if len(got) != 1 || got[0] != "m" {
		t.Fatalf("module types for {y} = %v, want [m]", got)
	}
}
