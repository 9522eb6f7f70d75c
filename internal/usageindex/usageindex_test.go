package usageindex

import (
	"testing"

	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/loc"
)

func TestCanonicalSortsAndDedups(t *testing.T) {
	got := Canonical(importer.UsageBranch{"b", "a", "b"})
	if got != loc.NewAttrPath("a", "b") {
		t.Fatalf("Canonical = %q, want a.b", got)
	}
	if Canonical(nil) != "" {
		t.Fatalf("Canonical(nil) should be the empty path")
	}
}

func TestBuildUsageIndex(t *testing.T) {
	f := importer.NewFactBase()
	m := importer.NewModule("m.f")
	m.AddUsage("m.f", "x", importer.UsageBranch{"a", "b"})
	key := importer.AccessKey{Name: "x", Attrnames: loc.NewAttrPath("a", "b"), Number: 0}
	m.AddAccessor("m.f", key, []int{0})
	f.ModulesByName["m.f"] = m

	idx := Build(f)
	def := loc.Def{Path: "m.f", Name: "x", Version: 0}
	usage, ok := idx.Usage[def]
	if !ok {
		t.Fatalf("expected usage recorded for %v", def)
	}
	if _, ok := usage[loc.NewAttrPath("a", "b")]; !ok {
		t.Fatalf("expected usage key a.b, got %v", usage)
	}
}

func TestAccessorsReachDefinitions(t *testing.T) {
	f := importer.NewFactBase()
	m := importer.NewModule("m.f")
	key := importer.AccessKey{Name: "x", Attrnames: loc.NewAttrPath("a"), Number: 0}
	m.AddAccessor("m.f", key, []int{0, 1})
	f.ModulesByName["m.f"] = m

	idx := Build(f)
	access := loc.Access{Path: "m.f", Name: "x", Attrnames: loc.NewAttrPath("a"), Number: 0}
	defs := idx.Accessors[access]
	if len(defs) != 2 {
		t.Fatalf("expected 2 reaching definitions, got %v", defs)
	}
}

func TestAssignedAttrsPropagation(t *testing.T) {
	f := importer.NewFactBase()
	m := importer.NewModule("m.f")
	f.ModulesByName["m.f"] = m
	key := importer.AccessKey{Name: "self", Attrnames: loc.NewAttrPath("f"), Number: 0}
	m.AddAccessor("m.f", key, []int{0})
	f.AttrAccessMods["m.f"] = map[importer.AccessKey][]bool{key: {true}}

	idx := Build(f)
	got := idx.AssignedAttrs[loc.NewAttrPath("f")]
	if len(got) != 1 || got[0].Name != "self" {
		t.Fatalf("expected one assigned ref for self.f, got %v", got)
	}
}

func TestFlattenAliasesBreaksCycles(t *testing.T) {
	f := importer.NewFactBase()
	// a aliases to access on b, b aliases to access on a: a cycle.
	f.AliasedNames["m.a"] = map[int]importer.AliasTarget{0: {OrigName: "b", Number: 0}}
	f.AliasedNames["m.b"] = map[int]importer.AliasTarget{0: {OrigName: "a", Number: 0}}

	idx := Build(f)
	defA := loc.Def{Path: "m", Name: "a", Version: 0}
	// No accessors were registered reaching the access locations, so
	// the flattened result is empty, but the crucial property is that
	// Build() terminates at all (proving the cycle guard works).
	if idx.FlattenedAliases[defA] != nil {
		t.Fatalf("expected no resolvable targets without accessor data, got %v", idx.FlattenedAliases[defA])
	}
}

func TestFlattenAliasesResolvesChain(t *testing.T) {
	f := importer.NewFactBase()
	m := importer.NewModule("m")
	// a is aliased from an access reading "b" (attrnames empty).
	f.AliasedNames["m.a"] = map[int]importer.AliasTarget{0: {OrigName: "b"}}
	// that access is reached by definition location (m, b, 0), which is
	// not itself an alias, so it is the terminal target.
	accessKey := importer.AccessKey{Name: "b"}
	m.AddAccessor("m", accessKey, []int{0})
	f.ModulesByName["m"] = m

	idx := Build(f)
	defA := loc.Def{Path: "m", Name: "a", Version: 0}
	want := loc.Def{Path: "m", Name: "b", Version: 0}
	got := idx.FlattenedAliases[defA]
	if len(got) != 1 || got[0] != want {
		t.Fatalf("FlattenedAliases[a] = %v, want [%v]", got, want)
	}
}
