package mif

import (
	"fmt"
	"strings"
)

// Kind identifies how a field's bytes are interpreted.
type Kind uint8

const (
	KindUint8 Kind = iota
	KindChar       // fixed-length byte string when repeated
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindEnum     // one byte, positional index into Field.Enum
	KindStruct   // nested sub-layout
	KindBaseData // dynamically sized HFA base data, always behind a pointer
)

var kindNames = map[Kind]string{
	KindUint8:      "uint8",
	KindChar:       "char",
	KindUint16:     "uint16",
	KindInt16:      "int16",
	KindUint32:     "uint32",
	KindInt32:      "int32",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindComplex64:  "complex64",
	KindComplex128: "complex128",
	KindEnum:       "enum",
	KindStruct:     "struct",
	KindBaseData:   "basedata",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// PointerSize is the inline width of a pointer field: a uint32 element
// count followed by a uint32 absolute file offset.
const PointerSize = 8

// Field is one entry of a compiled layout.
type Field struct {
	Name string
	Kind Kind

	// Size is the inline width of one element. For pointer fields it is
	// PointerSize regardless of the element kind.
	Size int

	// Count is the inline repeat count.
	Count int

	// Offset is the byte offset of the field within its enclosing layout.
	Offset int

	// Enum holds the symbolic names of an enum field, in index order.
	Enum []string

	// Sub is the nested layout of a struct or inline object field, or the
	// element layout of a pointer to a resolved object type.
	Sub *Layout

	// TypeName is the referenced type of an object field ("o"/"x" codes).
	TypeName string

	// Pointer marks a variable-length field whose elements live at an
	// absolute file offset.
	Pointer bool

	// ElemSize is the width of one pointed-to element.
	ElemSize int
}

// Width returns the number of inline bytes the field occupies.
func (f Field) Width() int {
	return f.Size * f.Count
}

// Layout is a compiled record description.
type Layout struct {
	Name   string
	Fields []Field
	Width  int
}

// HasPointers reports whether any field, at any nesting depth, stores its
// data out of line.
func (l *Layout) HasPointers() bool {
	for _, f := range l.Fields {
		if f.Pointer {
			return true
		}
		if f.Kind == KindStruct && f.Sub != nil && f.Sub.HasPointers() {
			return true
		}
	}
	return false
}

// Field returns the named top-level field.
func (l *Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Flatten expands nested structs into a single ordered field list with
// dotted names and offsets relative to the start of l.
func (l *Layout) Flatten() []Field {
	var out []Field
	l.flatten("", 0, &out)
	return out
}

func (l *Layout) flatten(prefix string, base int, out *[]Field) {
	for _, f := range l.Fields {
		name := prefix + f.Name
		if f.Kind != KindStruct || f.Pointer || f.Sub == nil {
			f.Name = name
			f.Offset += base
			*out = append(*out, f)
			continue
		}
		if f.Count == 1 {
			f.Sub.flatten(name+".", base+f.Offset, out)
			continue
		}
		for i := 0; i < f.Count; i++ {
			f.Sub.flatten(fmt.Sprintf("%s[%d].", name, i), base+f.Offset+i*f.Size, out)
		}
	}
}

// String renders the layout in a compact debugging form.
func (l *Layout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{", l.Name)
	for i, f := range l.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Pointer {
			b.WriteString("*")
		}
		fmt.Fprintf(&b, "%s %s", f.Name, f.Kind)
		if f.Count > 1 {
			fmt.Fprintf(&b, "[%d]", f.Count)
		}
	}
	fmt.Fprintf(&b, "}(%d)", l.Width)
	return b.String()
}
