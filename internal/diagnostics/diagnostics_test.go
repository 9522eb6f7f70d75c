package diagnostics

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddDeduplicatesExactRepeats(t *testing.T) {
	ds := NewAccumulator()
	ds.Addf(UnresolvedName, "m.f", "no reaching definition for %s", "x")
	ds.Addf(UnresolvedName, "m.f", "no reaching definition for %s", "x")
	if len(ds.All()) != 1 {
		t.Fatalf("expected deduplication, got %d diagnostics", len(ds.All()))
	}
}

func TestErrorsAndWarningsPartition(t *testing.T) {
	ds := NewAccumulator()
	ds.Addf(UnresolvedName, "m.f", "unresolved")
	ds.Addf(TypeWarning, "C.m", "zero candidate types")

	if len(ds.Errors()) != 1 || ds.Errors()[0].Code != UnresolvedName {
		t.Fatalf("expected exactly one error of code %s, got %+v", UnresolvedName, ds.Errors())
	}
	if len(ds.Warnings()) != 1 || ds.Warnings()[0].Code != TypeWarning {
		t.Fatalf("expected exactly one warning of code %s, got %+v", TypeWarning, ds.Warnings())
	}
	if !ds.HasErrors() {
		t.Fatalf("expected HasErrors() to be true")
	}
}

func TestWriteUncoloredWithoutTTY(t *testing.T) {
	ds := NewAccumulator()
	ds.Addf(BadClassBase, "B", "base %q is not a known class", "Ghost")

	var buf bytes.Buffer
	Write(&buf, ds, nil)

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Fatalf("expected no ANSI codes when out is nil, got %q", out)
	}
	if !strings.Contains(out, "B: D003: base \"Ghost\" is not a known class") {
		t.Fatalf("unexpected output: %q", out)
	}
}
