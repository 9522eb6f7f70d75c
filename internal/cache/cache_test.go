package cache

import (
	"path/filepath"
	"testing"

	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/reference"
)

func TestPayloadRoundTrip(t *testing.T) {
	p := Payload{
		Mutations:         "A.f  <function>\n",
		Types:             "m.x:0  deduced  <class>  A;B  2\n",
		AttributeWarnings: "m.x f:0\n",
	}
	encoded := EncodePayload(p)
	decoded, err := DecodePayload(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != p {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", decoded, p)
	}
}

func TestFingerprintStableAcrossEquivalentFactBases(t *testing.T) {
	build := func() *importer.FactBase {
		f := importer.NewFactBase()
		f.AllClasses = []string{"A", "B"}
		f.ClassBases["B"] = []reference.Reference{reference.MustNew(reference.Class, "A", "")}
		mod := importer.NewModule("m")
		f.ModulesByName["m"] = mod
		return f
	}
	fp1 := Fingerprint(build())
	fp2 := Fingerprint(build())
	if fp1 != fp2 {
		t.Fatalf("expected identical fingerprints, got %s vs %s", fp1, fp2)
	}

	f3 := build()
	f3.AllClasses = append(f3.AllClasses, "C")
	if Fingerprint(f3) == fp1 {
		t.Fatalf("expected a different fingerprint after adding class C")
	}
}

func TestStoreAndLookupRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(db)
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer c.Close()

	fp := "deadbeef"
	payload := EncodePayload(Payload{Types: "m.x:0  deduced  <class>  A  1\n"})

	if _, found, err := c.Lookup(fp); err != nil {
		t.Fatalf("lookup: %v", err)
	} else if found {
		t.Fatalf("expected no cached row before Store")
	}

	if _, err := c.Store(fp, payload); err != nil {
		t.Fatalf("storing: %v", err)
	}

	got, found, err := c.Lookup(fp)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found {
		t.Fatalf("expected a cached row after Store")
	}
	if string(got) != string(payload) {
		t.Fatalf("lookup returned different bytes than stored")
	}
}
