// Package binary provides bounds-checked positional reads over a fixed-size
// byte source for the raster formats in this module.
package binary

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrInvalidSize is returned when an integer width other than 1, 2, 4, or 8
// is requested.
var ErrInvalidSize = errors.New("invalid integer size: must be 1, 2, 4, or 8")

// Reader is a cursor over an io.ReaderAt of known extent. Every read either
// consumes exactly the requested number of bytes or fails.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	size  int64
	pos   int64
}

// Config holds reader configuration.
type Config struct {
	// ByteOrder is binary.BigEndian for the Binary Grid family and
	// binary.LittleEndian for HFA/IMG.
	ByteOrder binary.ByteOrder

	// Size is the extent of the underlying source in bytes.
	Size int64
}

// BigEndian returns a configuration for Binary Grid files of the given size.
func BigEndian(size int64) Config {
	return Config{ByteOrder: binary.BigEndian, Size: size}
}

// LittleEndian returns a configuration for HFA files of the given size.
func LittleEndian(size int64) Config {
	return Config{ByteOrder: binary.LittleEndian, Size: size}
}

// NewReader creates a binary reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{
		r:     r,
		order: order,
		size:  cfg.Size,
	}
}

// FromBytes creates a reader over an in-memory buffer.
func FromBytes(data []byte, order binary.ByteOrder) *Reader {
	return NewReader(byteSource(data), Config{ByteOrder: order, Size: int64(len(data))})
}

type byteSource []byte

func (b byteSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		r:     r.r,
		order: r.order,
		size:  r.size,
		pos:   offset,
	}
}

// Seek moves the cursor to offset. Seeking to the extent itself is allowed;
// anything beyond it is an *OutOfRangeError.
func (r *Reader) Seek(offset int64) error {
	if offset < 0 || offset > r.size {
		return &OutOfRangeError{Offset: offset, Size: r.size}
	}
	r.pos = offset
	return nil
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Size returns the extent of the underlying source.
func (r *Reader) Size() int64 {
	return r.size
}

// Remaining returns the number of bytes between the cursor and the extent.
func (r *Reader) Remaining() int64 {
	if r.pos >= r.size {
		return 0
	}
	return r.size - r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// Peek reads n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if r.pos < 0 || r.pos > r.size {
		return nil, &OutOfRangeError{Offset: r.pos, Size: r.size}
	}
	if int64(n) > r.size-r.pos {
		return nil, &TruncatedInputError{Offset: r.pos, Want: int64(n), Have: r.size - r.pos}
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || err == io.EOF {
			return nil, &TruncatedInputError{Offset: r.pos, Want: int64(n), Have: int64(got)}
		}
		return nil, err
	}
	return buf, nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) error {
	return r.Seek(r.pos + n)
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(buf), nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadUintN reads an unsigned integer of n bytes (1, 2, 4, or 8).
func (r *Reader) ReadUintN(n int) (uint64, error) {
	if !validSize(n) {
		return 0, ErrInvalidSize
	}
	buf, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return r.decodeUint(buf), nil
}

// ReadIntN reads a signed integer of n bytes (1, 2, 4, or 8), sign-extending
// it to 64 bits.
func (r *Reader) ReadIntN(n int) (int64, error) {
	u, err := r.ReadUintN(n)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*n)
	return int64(u<<shift) >> shift, nil
}

// decodeUint decodes a 1, 2, 4, or 8 byte unsigned integer.
func (r *Reader) decodeUint(buf []byte) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(r.order.Uint16(buf))
	case 4:
		return uint64(r.order.Uint32(buf))
	default:
		return r.order.Uint64(buf)
	}
}

func validSize(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}
