// Package repr implements the interning map and representation table (C2,
// C3): identifier spellings are interned to small integer handles, and each
// handle tracks the identifier-table entry currently visible for it so
// scope management can restore shadowed meanings in O(1).
//
// The design mirrors the two-buffer layout of the reference interning map:
// a growable byte arena holds spellings, and a fixed bucket array chains
// colliding entries by sum-of-code-points hash, just as a hand-rolled C hash
// map would.
package repr

// Handle names a unique interned spelling.
type Handle int32

// NoHandle is the invalid/sentinel handle.
const NoHandle Handle = -1

// NoMeaning is the sentinel "current meaning" value for a repr that has no
// visible identifier-table entry (either never declared, or out of scope).
const NoMeaning = -1

const bucketCount = 256

type record struct {
	off, length int // spelling location in keys
	next        Handle
	meaning     int // current identifier-table handle, or NoMeaning
}

// Table is the interning map plus representation table.
type Table struct {
	buckets [bucketCount]Handle
	keys    []byte
	records []record
}

// New returns an empty table.
func New() *Table {
	t := &Table{}
	for i := range t.buckets {
		t.buckets[i] = NoHandle
	}
	return t
}

// Intern maps spelling to its handle, inserting it if not already present.
// Contract: Intern(a) == Intern(b) iff a and b are byte-equal.
func (t *Table) Intern(spelling []byte) Handle {
	hash := hashSpelling(spelling)
	for h := t.buckets[hash]; h != NoHandle; h = t.records[h].next {
		if t.spellingEquals(h, spelling) {
			return h
		}
	}
	return t.insert(hash, spelling)
}

// Spelling returns the interned bytes for h.
func (t *Table) Spelling(h Handle) []byte {
	rec := t.records[h]
	return t.keys[rec.off : rec.off+rec.length]
}

// CurrentMeaning returns the identifier-table handle currently visible for
// h, or NoMeaning if nothing is currently in scope for this spelling.
func (t *Table) CurrentMeaning(h Handle) int {
	return t.records[h].meaning
}

// SetMeaning upserts the current meaning for h and returns the previous
// value (or NoMeaning if there was none), so a scope exit can restore
// whatever meaning it displaced.
func (t *Table) SetMeaning(h Handle, meaning int) int {
	prev := t.records[h].meaning
	t.records[h].meaning = meaning
	return prev
}

func (t *Table) insert(hash int, spelling []byte) Handle {
	off := len(t.keys)
	t.keys = append(t.keys, spelling...)

	h := Handle(len(t.records))
	t.records = append(t.records, record{
		off:     off,
		length:  len(spelling),
		next:    t.buckets[hash],
		meaning: NoMeaning,
	})
	t.buckets[hash] = h
	return h
}

func (t *Table) spellingEquals(h Handle, spelling []byte) bool {
	rec := t.records[h]
	if rec.length != len(spelling) {
		return false
	}
	for i := 0; i < rec.length; i++ {
		if t.keys[rec.off+i] != spelling[i] {
			return false
		}
	}
	return true
}

// hashSpelling computes a sum-of-code-points hash over spelling, the same
// folding scheme a hand-rolled C identifier table would use.
func hashSpelling(spelling []byte) int {
	sum := 0
	for _, r := range string(spelling) {
		sum += int(r)
	}
	return sum % bucketCount
}
