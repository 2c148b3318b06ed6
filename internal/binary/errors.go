package binary

import "fmt"

// TruncatedInputError reports a read that needed more bytes than remained.
type TruncatedInputError struct {
	Offset int64 // position of the failed read
	Want   int64 // bytes requested
	Have   int64 // bytes available
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: want %d bytes, have %d", e.Offset, e.Want, e.Have)
}

// OutOfRangeError reports a seek past the extent of the source.
type OutOfRangeError struct {
	Offset int64
	Size   int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("offset %d out of range (size %d)", e.Offset, e.Size)
}
