package deducer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lichen-lang/lichen/internal/cache"
	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/loc"
	"github.com/lichen-lang/lichen/internal/reference"
)

// buildS1Fixture wires the S1 class hierarchy (A, B(A), C(A)) with one
// access so the full pipeline has something to classify.
func buildS1Fixture() *importer.FactBase {
	f := importer.NewFactBase()
	f.AllClasses = []string{"A", "B", "C"}
	f.SubclassesOf["A"] = []string{"B", "C"}
	f.ClassBases["B"] = []reference.Reference{reference.MustNew(reference.Class, "A", "")}
	f.ClassBases["C"] = []reference.Reference{reference.MustNew(reference.Class, "A", "")}
	f.ClassAttrs["A"] = map[string]string{"f": "A.f"}
	f.CombinedAttrs["A"] = map[string]struct{}{"f": {}}
	f.CombinedAttrs["B"] = map[string]struct{}{"f": {}}
	f.CombinedAttrs["C"] = map[string]struct{}{"f": {}}
	f.Objects["A.f"] = reference.MustNew(reference.Function, "A.f", "")

	mod := importer.NewModule("m")
	mod.AddUsage("m", "x", importer.UsageBranch{"f"})
	key := importer.AccessKey{Name: "x", Attrnames: loc.NewAttrPath("f"), Number: 0}
	mod.AddAccessor("m", key, []int{0})
	f.ModulesByName["m"] = mod

	return f
}

func TestRunProducesSpecialAttributeMarkers(t *testing.T) {
	f := buildS1Fixture()
	Run(f)
	if got := f.ClassAttrs["B"]["#A"]; got != "A" {
		t.Fatalf("expected the descendant-closure pass to have injected #A on B, got %q", got)
	}
}

func TestRunClassifiesTheSoleAccess(t *testing.T) {
	f := buildS1Fixture()
	r := Run(f)

	access := loc.Access{Path: "m", Name: "x", Attrnames: loc.NewAttrPath("f"), Number: 0}
	state, ok := r.AccessStates[access]
	if !ok {
		t.Fatalf("expected an AccessState for %v", access)
	}
	if state.TestType == "" {
		t.Fatalf("expected a non-empty test type")
	}
}

func TestWriteProducesSortedArtifacts(t *testing.T) {
	f := buildS1Fixture()
	r := Run(f)
	artifacts := Write(r, ModuleNames(f))

	if artifacts.Types == "" {
		t.Fatalf("expected a non-empty types artifact")
	}
	lines := strings.Split(strings.TrimRight(artifacts.Types, "\n"), "\n")
	sorted := append([]string(nil), lines...)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			t.Fatalf("types artifact is not sorted: %v", lines)
		}
	}
}

func TestRunRecordsBadClassBaseDiagnostic(t *testing.T) {
	f := importer.NewFactBase()
	f.AllClasses = []string{"B"}
	f.ClassBases["B"] = []reference.Reference{reference.MustNew(reference.Class, "Ghost", "")}
	mod := importer.NewModule("m")
	f.ModulesByName["m"] = mod

	r := Run(f)
	found := false
	for _, d := range r.Diagnostics.All() {
		if d.Location.Loc == "B" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a bad-class-base diagnostic for B, got %+v", r.Diagnostics.All())
	}
}

func TestRunCachedReusesStoredArtifacts(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer c.Close()

	f := buildS1Fixture()
	first, fromCache, err := RunCached(c, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Fatalf("expected the first run to be a cache miss")
	}

	second, fromCache, err := RunCached(c, buildS1Fixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Fatalf("expected the second run to be a cache hit")
	}
	if first.Types != second.Types {
		t.Fatalf("cached artifacts differ from the original run")
	}
}

func TestWriteReproducibility(t *testing.T) {
	f1 := buildS1Fixture()
	a1 := Write(Run(f1), ModuleNames(f1))

	f2 := buildS1Fixture()
	a2 := Write(Run(f2), ModuleNames(f2))

	if a1.Types != a2.Types || a1.TypeSummary != a2.TypeSummary || a1.Attributes != a2.Attributes {
		t.Fatalf("two runs over identical input produced different output")
	}
}
