package vecbuf

import "testing"

func TestAppendReturnsOffsetAndPreservesOrder(t *testing.T) {
	t.Parallel()

	b := New()
	offA := b.Append(10)
	offB := b.Append(20)
	offC := b.AppendAll(30, 40, 50)

	if offA != 0 || offB != 1 || offC != 2 {
		t.Fatalf("offsets = %d,%d,%d, want 0,1,2", offA, offB, offC)
	}
	if b.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", b.Len())
	}

	want := []int{10, 20, 30, 40, 50}
	for i, w := range want {
		if got := b.Get(i); got != w {
			t.Fatalf("Get(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestSetPatchesInPlace(t *testing.T) {
	t.Parallel()

	b := New()
	off := b.Append(-1)
	b.Set(off, 99)
	if got := b.Get(off); got != 99 {
		t.Fatalf("Get(%d) = %d, want 99", off, got)
	}
}

func TestSliceReturnsIndependentCopy(t *testing.T) {
	t.Parallel()

	b := New()
	b.AppendAll(1, 2, 3, 4)

	s := b.Slice(1, 3)
	if len(s) != 2 || s[0] != 2 || s[1] != 3 {
		t.Fatalf("Slice(1,3) = %v, want [2 3]", s)
	}

	s[0] = 999
	if got := b.Get(1); got != 2 {
		t.Fatalf("mutating Slice() result leaked into buffer: Get(1) = %d, want 2", got)
	}
}

func TestGrowsPastInitialCapacity(t *testing.T) {
	t.Parallel()

	b := New()
	for i := 0; i < initialCapacity*4; i++ {
		if off := b.Append(i); off != i {
			t.Fatalf("Append(%d) offset = %d, want %d", i, off, i)
		}
	}
	if b.Len() != initialCapacity*4 {
		t.Fatalf("Len() = %d, want %d", b.Len(), initialCapacity*4)
	}
	for i := 0; i < b.Len(); i++ {
		if got := b.Get(i); got != i {
			t.Fatalf("Get(%d) = %d, want %d", i, got, i)
		}
	}
}
