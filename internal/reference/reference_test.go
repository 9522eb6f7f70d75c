package reference

import "testing"

func TestEqualityIgnoresAliasName(t *testing.T) {
	r1 := MustNew(Class, "mod.A", "x")
	r2 := MustNew(Class, "mod.A", "y")

	if !r1.Equal(r2) {
		t.Fatalf("expected references differing only by alias name to be equal")
	}
	if r1.Key() != r2.Key() {
		t.Fatalf("expected equal keys for hashing, got %v and %v", r1.Key(), r2.Key())
	}
}

func TestVarReferenceHasNoOrigin(t *testing.T) {
	r := MustNew(Var, "should-be-dropped", "n")
	if r.Origin() != "" {
		t.Fatalf("expected var reference to have no origin, got %q", r.Origin())
	}
}

func TestStatic(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{Class, true},
		{Module, true},
		{Function, true},
		{Var, false},
		{Instance, false},
	}
	for _, c := range cases {
		r := MustNew(c.kind, "x", "")
		if got := r.Static(); got != c.want {
			t.Errorf("Static() for kind %s = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestInstanceOf(t *testing.T) {
	cls := MustNew(Class, "mod.A", "")
	inst, ok := cls.InstanceOf()
	if !ok {
		t.Fatalf("expected InstanceOf to succeed for a class reference")
	}
	if inst.Kind() != Instance || inst.Origin() != "mod.A" {
		t.Fatalf("unexpected instance reference: %+v", inst)
	}

	if _, ok := MustNew(Module, "mod", "").InstanceOf(); ok {
		t.Fatalf("expected InstanceOf to fail for a non-class reference")
	}
}

func TestAsVarDiscardsOrigin(t *testing.T) {
	r := MustNew(Class, "mod.A", "n").AsVar()
	if r.Kind() != Var || r.Origin() != "" {
		t.Fatalf("AsVar should discard origin, got %+v", r)
	}
}

func TestAlias(t *testing.T) {
	r := MustNew(Class, "mod.A", "orig").Alias("renamed")
	if r.Name() != "renamed" || r.Kind() != Class || r.Origin() != "mod.A" {
		t.Fatalf("Alias should preserve kind/origin and replace name: %+v", r)
	}
}

func TestGetPath(t *testing.T) {
	r := MustNew(Class, "pkg.mod.Cls", "")
	got := r.GetPath()
	want := []string{"pkg", "mod", "Cls"}
	if len(got) != len(want) {
		t.Fatalf("GetPath() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GetPath() = %v, want %v", got, want)
		}
	}
}

func TestProvidedByModule(t *testing.T) {
	r := MustNew(Class, "pkg.mod.Cls", "")
	if !r.ProvidedByModule("pkg.mod") {
		t.Fatalf("expected ProvidedByModule to succeed for matching prefix")
	}
	if r.ProvidedByModule("other.mod") {
		t.Fatalf("expected ProvidedByModule to fail for non-matching prefix")
	}

	bare := MustNew(Var, "", "n")
	if !bare.ProvidedByModule("anything") {
		t.Fatalf("a var reference has no origin and is vacuously provided by any module")
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		s, name  string
		wantKind Kind
		wantOrig string
	}{
		{"", "n", Var, ""},
		{"<class>:mod.A", "n", Class, "mod.A"},
		{"<class>", "n", Class, "n"},
		{"somemodule", "n", Module, "somemodule"},
	}
	for _, c := range cases {
		r, err := Decode(c.s, c.name)
		if err != nil {
			t.Fatalf("Decode(%q, %q) error: %v", c.s, c.name, err)
		}
		if r.Kind() != c.wantKind || r.Origin() != c.wantOrig {
			t.Errorf("Decode(%q, %q) = %+v, want kind %s origin %q", c.s, c.name, r, c.wantKind, c.wantOrig)
		}
	}
}

func TestNewRejectsInvalidKind(t *testing.T) {
	if _, err := New(Kind("<bogus>"), "x", ""); err == nil {
		t.Fatalf("expected InvalidReferenceError for an unrecognised kind")
	} else if _, ok := err.(*InvalidReferenceError); !ok {
		t.Fatalf("expected *InvalidReferenceError, got %T", err)
	}
}

func TestString(t *testing.T) {
	if got := MustNew(Var, "", "n").String(); got != "<var>" {
		t.Errorf("String() for var = %q, want <var>", got)
	}
	if got := MustNew(Class, "mod.A", "").String(); got != "<class>:mod.A" {
		t.Errorf("String() for class = %q, want <class>:mod.A", got)
	}
}
