package layout

import (
	"testing"

	"github.com/lichen-lang/lichen/internal/config"
	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/reference"
)

func TestBuildRecordsDuplicatesMethodsAsBoundAndUnbound(t *testing.T) {
	f := importer.NewFactBase()
	f.AllClasses = []string{"A"}
	f.Objects["A.m"] = reference.MustNew(reference.Function, "A.m", "")
	f.Parameters["A.m"] = []string{"self"}

	o := Build(f)
	recs := BuildRecords(f, o)

	names := map[string]functionRecord{}
	for _, r := range recs.Functions {
		names[r.Name] = r
	}

	unbound, ok := names["A.m"]
	if !ok {
		t.Fatalf("expected an unbound record for A.m, got %+v", recs.Functions)
	}
	if unbound.FnPointer != config.UnboundMethodMarker {
		t.Fatalf("unbound record FnPointer = %q, want %q", unbound.FnPointer, config.UnboundMethodMarker)
	}
	if unbound.BoundSide != "bound-A.m" {
		t.Fatalf("unbound record BoundSide = %q, want %q", unbound.BoundSide, "bound-A.m")
	}

	bound, ok := names["bound-A.m"]
	if !ok {
		t.Fatalf("expected a bound record for A.m, got %+v", recs.Functions)
	}
	if bound.FnPointer != "A_m" {
		t.Fatalf("bound record FnPointer = %q, want %q", bound.FnPointer, "A_m")
	}
}

func TestBuildRecordsPlainFunctionHasNoBoundSide(t *testing.T) {
	f := importer.NewFactBase()
	f.AllClasses = []string{}
	mod := importer.NewModule("m")
	f.ModulesByName["m"] = mod
	f.Objects["m.f"] = reference.MustNew(reference.Function, "m.f", "")
	f.Parameters["m.f"] = []string{"x"}

	o := Build(f)
	recs := BuildRecords(f, o)

	if len(recs.Functions) != 1 {
		t.Fatalf("expected exactly one record for a plain function, got %+v", recs.Functions)
	}
	if recs.Functions[0].BoundSide != "" {
		t.Fatalf("plain function record should carry no bound side, got %q", recs.Functions[0].BoundSide)
	}
}
