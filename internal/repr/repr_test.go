package repr

import (
	"testing"
)

func TestInternInjectivity(t *testing.T) {
	t.Parallel()

	tbl := New()
	cases := []string{"x", "foo", "foo_bar", "café", "x1", "X"}

	handles := make(map[string]Handle)
	for _, s := range cases {
		h := tbl.Intern([]byte(s))
		handles[s] = h
	}

	for _, s := range cases {
		if got := tbl.Intern([]byte(s)); got != handles[s] {
			t.Fatalf("Intern(%q) = %d on second call, want %d", s, got, handles[s])
		}
	}

	for a, ha := range handles {
		for b, hb := range handles {
			if a == b {
				continue
			}
			if ha == hb {
				t.Fatalf("distinct spellings %q and %q collapsed to the same handle %d", a, b, ha)
			}
		}
	}
}

func TestInternRoundTripsSpelling(t *testing.T) {
	t.Parallel()

	tbl := New()
	h := tbl.Intern([]byte("identifier_1"))
	if got := string(tbl.Spelling(h)); got != "identifier_1" {
		t.Fatalf("Spelling() = %q, want %q", got, "identifier_1")
	}
}

func TestSetMeaningUpsertsAndReturnsPrevious(t *testing.T) {
	t.Parallel()

	tbl := New()
	h := tbl.Intern([]byte("x"))

	if got := tbl.CurrentMeaning(h); got != NoMeaning {
		t.Fatalf("CurrentMeaning() on fresh handle = %d, want NoMeaning", got)
	}

	prev := tbl.SetMeaning(h, 7)
	if prev != NoMeaning {
		t.Fatalf("first SetMeaning() returned %d, want NoMeaning", prev)
	}
	if got := tbl.CurrentMeaning(h); got != 7 {
		t.Fatalf("CurrentMeaning() = %d, want 7", got)
	}

	prev = tbl.SetMeaning(h, 12)
	if prev != 7 {
		t.Fatalf("second SetMeaning() returned %d, want 7", prev)
	}
	if got := tbl.CurrentMeaning(h); got != 12 {
		t.Fatalf("CurrentMeaning() = %d, want 12", got)
	}
}

func TestInternHandlesHashBucketCollisions(t *testing.T) {
	t.Parallel()

	tbl := New()
	// "ab" and "ba" share the same sum-of-code-points hash but differ
	// byte-for-byte; both must resolve to distinct, stable handles.
	hAB := tbl.Intern([]byte("ab"))
	hBA := tbl.Intern([]byte("ba"))
	if hAB == hBA {
		t.Fatalf("Intern(ab) and Intern(ba) collapsed to the same handle %d", hAB)
	}
	if got := tbl.Intern([]byte("ab")); got != hAB {
		t.Fatalf("re-Intern(ab) = %d, want %d", got, hAB)
	}
	if got := tbl.Intern([]byte("ba")); got != hBA {
		t.Fatalf("re-Intern(ba) = %d, want %d", got, hBA)
	}
}
