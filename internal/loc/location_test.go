package loc

import "testing"

func TestDefString(t *testing.T) {
	d := Def{Path: "m.f", Name: "x", Version: 2}
	if got, want := d.String(), "m.f.x:2"; got != want {
		t.Fatalf("Def.String() = %q, want %q", got, want)
	}
}

func TestAccessStringWithName(t *testing.T) {
	a := Access{Path: "m.f", Name: "x", Attrnames: NewAttrPath("a", "b"), Number: 0}
	if got, want := a.String(), "m.f.x a.b:0"; got != want {
		t.Fatalf("Access.String() = %q, want %q", got, want)
	}
}

func TestAccessStringAnonymous(t *testing.T) {
	a := Access{Path: "m.f", Attrnames: NewAttrPath("a", "b"), Number: 3}
	if got, want := a.String(), "m.f.#a.b a.b:3"; got != want {
		t.Fatalf("Access.String() = %q, want %q", got, want)
	}
}

func TestAttrPathParts(t *testing.T) {
	p := NewAttrPath("a", "b", "c")
	got := p.Parts()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Parts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Parts() = %v, want %v", got, want)
		}
	}
	if !AttrPath("").Empty() {
		t.Fatalf("expected empty AttrPath to report Empty()")
	}
}

func TestDefUsableAsMapKey(t *testing.T) {
	m := map[Def]int{}
	m[Def{Path: "m", Name: "x", Version: 0}] = 1
	if m[Def{Path: "m", Name: "x", Version: 0}] != 1 {
		t.Fatalf("Def did not behave as a comparable map key")
	}
}
