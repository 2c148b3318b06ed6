package mif

import "fmt"

// BadFormatStringError reports a grammar that could not be compiled.
type BadFormatStringError struct {
	TypeName string // type being compiled, if known
	Pos      int    // byte offset into the grammar text, -1 if unknown
	Token    string
	Reason   string
}

func (e *BadFormatStringError) Error() string {
	msg := "bad format string"
	if e.TypeName != "" {
		msg += " for " + e.TypeName
	}
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at %d", e.Pos)
	}
	if e.Token != "" {
		msg += fmt.Sprintf(" near %q", e.Token)
	}
	return msg + ": " + e.Reason
}

// UnknownEnumValueError reports an enum byte with no symbolic name.
type UnknownEnumValueError struct {
	TypeName string
	Field    string
	Value    uint8
	Count    int
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("%s.%s: enum value %d out of range (%d names)", e.TypeName, e.Field, e.Value, e.Count)
}

// RecordSizeError reports a record whose on-disk size disagrees with its
// compiled layout.
type RecordSizeError struct {
	TypeName string
	Offset   int64
	Want     int // layout width
	Have     int // declared on-disk size
}

func (e *RecordSizeError) Error() string {
	return fmt.Sprintf("%s record at offset %d: layout width %d, declared size %d", e.TypeName, e.Offset, e.Want, e.Have)
}
