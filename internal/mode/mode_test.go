package mode

import "testing"

func TestAddCanonicalizesIdenticalRecords(t *testing.T) {
	t.Parallel()

	tbl := New()
	h1 := tbl.Pointer(Int)
	h2 := tbl.Pointer(Int)
	if h1 != h2 {
		t.Fatalf("Pointer(Int) handles differ: %d vs %d", h1, h2)
	}

	h3 := tbl.Pointer(Char)
	if h3 == h1 {
		t.Fatalf("Pointer(Char) and Pointer(Int) collapsed to the same handle %d", h1)
	}
}

func TestFunctionRoundTrip(t *testing.T) {
	t.Parallel()

	tbl := New()
	h := tbl.Function(Int, []Mode{Int})

	tag, payload := tbl.Get(h)
	if tag != TagFunction {
		t.Fatalf("tag = %v, want TagFunction", tag)
	}

	ret, params := Function(payload)
	if ret != Int {
		t.Fatalf("return mode = %v, want Int", ret)
	}
	if len(params) != 1 || params[0] != Int {
		t.Fatalf("params = %v, want [Int]", params)
	}
}

func TestStructFieldsPreserveOrderAndRepr(t *testing.T) {
	t.Parallel()

	tbl := New()
	fields := []StructField{
		{Mode: Int, Repr: 10},
		{Mode: Char, Repr: 11},
	}
	h := tbl.Struct(fields)

	_, payload := tbl.Get(h)
	got := Struct(payload)
	if len(got) != 2 {
		t.Fatalf("field count = %d, want 2", len(got))
	}
	if got[0] != fields[0] || got[1] != fields[1] {
		t.Fatalf("fields = %+v, want %+v", got, fields)
	}
}

func TestDistinctArityFunctionsAreNotCanonicalized(t *testing.T) {
	t.Parallel()

	tbl := New()
	h1 := tbl.Function(Int, []Mode{Int})
	h2 := tbl.Function(Int, []Mode{Int, Int})
	if h1 == h2 {
		t.Fatal("functions with different arity collapsed to the same handle")
	}
}

func TestPrimitivesNeedNoTableEntry(t *testing.T) {
	t.Parallel()

	for _, p := range []Mode{Void, Char, Bool, Short, Int, Long, Unsigned, Float, Double} {
		if !p.IsPrimitive() {
			t.Fatalf("%v.IsPrimitive() = false, want true", p)
		}
	}

	tbl := New()
	h := tbl.Pointer(Int)
	if h.IsPrimitive() {
		t.Fatalf("table handle %v reported as primitive", h)
	}
}
