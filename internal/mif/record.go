package mif

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
)

// Value is a decoded field value. Concrete types:
//
//	uint8, uint16, int16, uint32, int32, float32, float64,
//	complex64, complex128, string (char fields), Enum, Record, BaseData,
//	a typed slice of any of these for repeated fields, or nil for an
//	empty pointer.
type Value = any

// NamedValue pairs a field name with its decoded value.
type NamedValue struct {
	Name  string
	Value Value
}

// Record is a decoded instance of a layout, fields in layout order.
type Record struct {
	Type   string
	Fields []NamedValue
}

// Get returns the value of the named field.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Uint returns an unsigned integer field widened to uint64.
func (r Record) Uint(name string) (uint64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	}
	return 0, false
}

// Int returns a signed or unsigned integer field widened to int64.
func (r Record) Int(name string) (int64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	}
	u, ok := r.Uint(name)
	return int64(u), ok
}

// Float returns a floating point field widened to float64.
func (r Record) Float(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// String returns a character field.
func (r Record) String(name string) (string, bool) {
	v, ok := r.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Enum is a decoded enumeration byte.
type Enum struct {
	Index uint8
	Name  string
}

func (e Enum) String() string { return e.Name }

// BaseData is an HFA base data block: a typed 2D array.
type BaseData struct {
	Rows       int32
	Cols       int32
	DataType   int16
	ObjectType int16
	Data       []byte
}

// baseDataBits gives the bits per element of each base data type code.
var baseDataBits = []int{1, 2, 4, 8, 8, 16, 16, 32, 32, 32, 64, 64, 128}

// Decode reads one record at the reader's position, advancing it by exactly
// l.Width bytes. Pointer targets are read through independent cursors and
// do not move r. resolve supplies layouts for pointers to object types and
// may be nil when l has none.
func (l *Layout) Decode(r *binary.Reader, resolve Resolver) (Record, error) {
	return l.decode(r, resolve, 0)
}

// DecodeSized decodes a record whose on-disk size is declared separately,
// as HFA entries do. A layout without pointer fields must match size
// exactly; one with pointers may be followed by out-of-line data.
func (l *Layout) DecodeSized(r *binary.Reader, size int, resolve Resolver) (Record, error) {
	if size < l.Width || (size != l.Width && !l.HasPointers()) {
		return Record{}, &RecordSizeError{TypeName: l.Name, Offset: r.Pos(), Want: l.Width, Have: size}
	}
	return l.decode(r, resolve, 0)
}

// maxPointerDepth bounds how many pointer hops a single decode follows, so
// records whose pointers lead back to themselves terminate.
const maxPointerDepth = 32

func (l *Layout) decode(r *binary.Reader, resolve Resolver, depth int) (Record, error) {
	rec := Record{Type: l.Name, Fields: make([]NamedValue, 0, len(l.Fields))}
	for _, f := range l.Fields {
		var (
			v   Value
			err error
		)
		if f.Pointer {
			v, err = l.decodePointer(r, f, resolve, depth)
		} else {
			v, err = l.decodeInline(r, f, resolve, depth)
		}
		if err != nil {
			return Record{}, fmt.Errorf("%s.%s: %w", l.Name, f.Name, err)
		}
		rec.Fields = append(rec.Fields, NamedValue{Name: f.Name, Value: v})
	}
	return rec, nil
}

func (l *Layout) decodeInline(r *binary.Reader, f Field, resolve Resolver, depth int) (Value, error) {
	if f.Kind == KindStruct {
		if f.Count == 1 {
			return f.Sub.decode(r, resolve, depth)
		}
		return readN(f.Count, func() (Record, error) { return f.Sub.decode(r, resolve, depth) })
	}
	return l.decodeElements(r, f, f.Count)
}

// decodePointer reads the (count, offset) header and the elements it
// addresses.
func (l *Layout) decodePointer(r *binary.Reader, f Field, resolve Resolver, depth int) (Value, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offset, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if count == 0 || offset == 0 {
		return nil, nil
	}
	target := r.At(int64(offset))

	switch f.Kind {
	case KindBaseData:
		return readBaseData(target)
	case KindStruct:
		if resolve == nil {
			return nil, fmt.Errorf("no resolver for %s", f.TypeName)
		}
		if depth >= maxPointerDepth {
			return nil, fmt.Errorf("pointer chain deeper than %d at offset %d", maxPointerDepth, offset)
		}
		sub, err := resolve(f.TypeName)
		if err != nil {
			return nil, err
		}
		// Bound the allocation by what the source can hold.
		if int64(count)*int64(sub.Width) > target.Remaining() {
			return nil, &binary.TruncatedInputError{Offset: target.Pos(), Want: int64(count) * int64(sub.Width), Have: target.Remaining()}
		}
		if count == 1 {
			return sub.decode(target, resolve, depth+1)
		}
		return readN(int(count), func() (Record, error) { return sub.decode(target, resolve, depth+1) })
	}
	if int64(count)*int64(f.ElemSize) > target.Remaining() {
		return nil, &binary.TruncatedInputError{Offset: target.Pos(), Want: int64(count) * int64(f.ElemSize), Have: target.Remaining()}
	}
	return l.decodeElements(target, f, int(count))
}

// decodeElements reads n scalar elements of f's kind. A single element is
// returned bare, repeated elements as a typed slice; char fields always
// decode to a NUL-trimmed string.
func (l *Layout) decodeElements(r *binary.Reader, f Field, n int) (Value, error) {
	switch f.Kind {
	case KindChar:
		buf, err := r.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			buf = buf[:i]
		}
		return string(buf), nil
	case KindUint8:
		return scalarOrSlice(n, r.ReadUint8)
	case KindUint16:
		return scalarOrSlice(n, r.ReadUint16)
	case KindInt16:
		return scalarOrSlice(n, r.ReadInt16)
	case KindUint32:
		return scalarOrSlice(n, r.ReadUint32)
	case KindInt32:
		return scalarOrSlice(n, r.ReadInt32)
	case KindFloat32:
		return scalarOrSlice(n, r.ReadFloat32)
	case KindFloat64:
		return scalarOrSlice(n, r.ReadFloat64)
	case KindComplex64:
		return scalarOrSlice(n, func() (complex64, error) {
			re, err := r.ReadFloat32()
			if err != nil {
				return 0, err
			}
			im, err := r.ReadFloat32()
			return complex(re, im), err
		})
	case KindComplex128:
		return scalarOrSlice(n, func() (complex128, error) {
			re, err := r.ReadFloat64()
			if err != nil {
				return 0, err
			}
			im, err := r.ReadFloat64()
			return complex(re, im), err
		})
	case KindEnum:
		return scalarOrSlice(n, func() (Enum, error) {
			b, err := r.ReadUint8()
			if err != nil {
				return Enum{}, err
			}
			if int(b) >= len(f.Enum) {
				return Enum{}, &UnknownEnumValueError{TypeName: l.Name, Field: f.Name, Value: b, Count: len(f.Enum)}
			}
			return Enum{Index: b, Name: f.Enum[b]}, nil
		})
	}
	return nil, fmt.Errorf("cannot decode kind %s inline", f.Kind)
}

func readBaseData(r *binary.Reader) (BaseData, error) {
	var bd BaseData
	var err error
	if bd.Rows, err = r.ReadInt32(); err != nil {
		return bd, err
	}
	if bd.Cols, err = r.ReadInt32(); err != nil {
		return bd, err
	}
	if bd.DataType, err = r.ReadInt16(); err != nil {
		return bd, err
	}
	if bd.ObjectType, err = r.ReadInt16(); err != nil {
		return bd, err
	}
	if bd.DataType < 0 || int(bd.DataType) >= len(baseDataBits) {
		return bd, fmt.Errorf("unknown base data type %d", bd.DataType)
	}
	if bd.Rows < 0 || bd.Cols < 0 {
		return bd, fmt.Errorf("negative base data shape %dx%d", bd.Rows, bd.Cols)
	}
	bits := int64(bd.Rows) * int64(bd.Cols) * int64(baseDataBits[bd.DataType])
	size := (bits + 7) / 8
	if size > r.Remaining() {
		return bd, &binary.TruncatedInputError{Offset: r.Pos(), Want: size, Have: r.Remaining()}
	}
	bd.Data, err = r.ReadBytes(int(size))
	return bd, err
}

func scalarOrSlice[T any](n int, read func() (T, error)) (Value, error) {
	if n == 1 {
		return read()
	}
	return readN(n, read)
}

func readN[T any](n int, read func() (T, error)) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := read()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
