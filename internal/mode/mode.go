// Package mode implements the mode (type) table (C4): structural type
// records for function, array, pointer and struct types, stored as
// length-prefixed tuples of integers in a single append-only buffer with
// canonicalising lookup, so that two mode handles are type-equal iff they
// are numerically equal.
package mode

import "github.com/bugdea1er/RuC/internal/vecbuf"

// Mode is either a primitive type code (a small negative integer, needing
// no table entry) or a non-negative handle into the mode table.
type Mode int

// Primitive type codes. Every value a Go-level type switch can dispatch on
// without ever consulting the table.
const (
	Void Mode = -(iota + 1)
	Char
	Bool
	Short
	Int
	Long
	Unsigned
	Float
	Double
)

// IsPrimitive reports whether m names a primitive type rather than a table
// handle.
func (m Mode) IsPrimitive() bool {
	return m < 0
}

// Tag identifies the structural shape of a mode-table record.
type Tag int

const (
	// TagFunction record payload: [returnMode, arity, param_1..param_arity].
	TagFunction Tag = iota
	// TagArray record payload: [elementMode].
	TagArray
	// TagPointer record payload: [pointeeMode].
	TagPointer
	// TagStruct record payload: [fieldCount, (fieldMode, fieldRepr)_1..fieldCount].
	TagStruct
)

// Table is the structural type table.
type Table struct {
	buf  *vecbuf.Buffer
	last Mode // handle of the most recently inserted record, or NoHandle
}

// NoHandle is the sentinel "no previous record" back-link value.
const NoHandle Mode = -1 << 30

// New returns an empty table.
func New() *Table {
	return &Table{buf: vecbuf.New(), last: NoHandle}
}

// record layout at handle h (h is the index of the tag word):
//
//	buf[h-1]             backlink to the previous record's handle, or NoHandle
//	buf[h]               tag
//	buf[h+1]             payload length
//	buf[h+2 : h+2+len]   payload words

// Add canonicalises and inserts a record, returning its handle. Reverse-scans
// previously inserted records via the backlink chain and returns an existing
// handle if an equal record is already present; otherwise appends.
func (t *Table) Add(tag Tag, payload ...int) Mode {
	for cur := t.last; cur != NoHandle; cur = Mode(t.buf.Get(int(cur)-1)) {
		if t.recordEquals(cur, tag, payload) {
			return cur
		}
	}

	t.buf.Append(int(t.last))
	h := Mode(t.buf.Len())
	t.buf.Append(int(tag))
	t.buf.Append(len(payload))
	for _, w := range payload {
		t.buf.Append(w)
	}
	t.last = h
	return h
}

// Get returns the tag and payload for a table handle. Get must not be
// called with a primitive mode.
func (t *Table) Get(h Mode) (Tag, []int) {
	length := t.buf.Get(int(h) + 1)
	return Tag(t.buf.Get(int(h))), t.buf.Slice(int(h)+2, int(h)+2+length)
}

func (t *Table) recordEquals(h Mode, tag Tag, payload []int) bool {
	if Tag(t.buf.Get(int(h))) != tag {
		return false
	}
	length := t.buf.Get(int(h) + 1)
	if length != len(payload) {
		return false
	}
	base := int(h) + 2
	for i, w := range payload {
		if t.buf.Get(base+i) != w {
			return false
		}
	}
	return true
}

// Function interns a function mode and returns its handle.
func (t *Table) Function(returnMode Mode, params []Mode) Mode {
	payload := make([]int, 0, 2+len(params))
	payload = append(payload, int(returnMode), len(params))
	for _, p := range params {
		payload = append(payload, int(p))
	}
	return t.Add(TagFunction, payload...)
}

// Array interns an array mode and returns its handle.
func (t *Table) Array(element Mode) Mode {
	return t.Add(TagArray, int(element))
}

// Pointer interns a pointer mode and returns its handle.
func (t *Table) Pointer(pointee Mode) Mode {
	return t.Add(TagPointer, int(pointee))
}

// StructField is one field of a struct mode record.
type StructField struct {
	Mode Mode
	Repr int // repr.Handle of the field name, kept untyped to avoid an import cycle
}

// Struct interns a struct mode and returns its handle.
func (t *Table) Struct(fields []StructField) Mode {
	payload := make([]int, 0, 1+2*len(fields))
	payload = append(payload, len(fields))
	for _, f := range fields {
		payload = append(payload, int(f.Mode), f.Repr)
	}
	return t.Add(TagStruct, payload...)
}

// Function decodes a function record's payload.
func Function(payload []int) (returnMode Mode, params []Mode) {
	returnMode = Mode(payload[0])
	arity := payload[1]
	params = make([]Mode, arity)
	for i := 0; i < arity; i++ {
		params[i] = Mode(payload[2+i])
	}
	return returnMode, params
}

// Array decodes an array record's payload.
func Array(payload []int) (element Mode) {
	return Mode(payload[0])
}

// Pointer decodes a pointer record's payload.
func Pointer(payload []int) (pointee Mode) {
	return Mode(payload[0])
}

// Struct decodes a struct record's payload.
func Struct(payload []int) []StructField {
	count := payload[0]
	fields := make([]StructField, count)
	for i := 0; i < count; i++ {
		fields[i] = StructField{Mode: Mode(payload[1+2*i]), Repr: payload[2+2*i]}
	}
	return fields
}
