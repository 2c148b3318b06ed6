package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// bytesReaderAt wraps a byte slice to implement io.ReaderAt.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

func newBE(data []byte) *Reader {
	return NewReader(bytesReaderAt(data), BigEndian(int64(len(data))))
}

func TestReaderReadUint8(t *testing.T) {
	r := newBE([]byte{0x42, 0xFF, 0x00})

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderByteOrder(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	be := newBE(data)
	v, err := be.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x01020304 {
		t.Errorf("big-endian: expected 0x01020304, got 0x%08x", v)
	}

	le := NewReader(bytesReaderAt(data), LittleEndian(4))
	v, err = le.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x04030201 {
		t.Errorf("little-endian: expected 0x04030201, got 0x%08x", v)
	}
}

func TestReaderFloats(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, float64(12.5))
	binary.Write(&buf, binary.BigEndian, float32(-0.25))

	r := newBE(buf.Bytes())
	d, err := r.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 failed: %v", err)
	}
	if d != 12.5 {
		t.Errorf("expected 12.5, got %v", d)
	}
	f, err := r.ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f != -0.25 {
		t.Errorf("expected -0.25, got %v", f)
	}
}

func TestReaderReadIntN(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected int64
	}{
		{"2-byte negative", []byte{0xFF, 0xFE}, -2},
		{"2-byte positive", []byte{0x01, 0x00}, 256},
		{"4-byte negative", []byte{0xFF, 0xFF, 0xFF, 0xF9}, -7},
		{"8-byte", []byte{0, 0, 0, 0, 0, 0, 0x01, 0x02}, 0x0102},
		{"1-byte", []byte{0x80}, -128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBE(tt.data)
			v, err := r.ReadIntN(len(tt.data))
			if err != nil {
				t.Fatalf("ReadIntN failed: %v", err)
			}
			if v != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, v)
			}
		})
	}

	if _, err := newBE([]byte{1, 2, 3}).ReadIntN(3); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := newBE([]byte{0x00, 0x01, 0x02})
	r.Skip(1)

	_, err := r.ReadUint32()
	var te *TruncatedInputError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedInputError, got %v", err)
	}
	if te.Offset != 1 || te.Want != 4 || te.Have != 2 {
		t.Errorf("unexpected error context: %+v", te)
	}
	if r.Pos() != 1 {
		t.Errorf("failed read must not advance, pos=%d", r.Pos())
	}
}

func TestReaderShortSource(t *testing.T) {
	// Declared size larger than what the source actually yields.
	r := NewReader(bytesReaderAt{0x01}, BigEndian(4))

	_, err := r.ReadUint16()
	var te *TruncatedInputError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedInputError, got %v", err)
	}
	if te.Have != 1 {
		t.Errorf("expected Have=1, got %d", te.Have)
	}
}

func TestReaderSeek(t *testing.T) {
	r := newBE([]byte{0x00, 0x01, 0x02, 0x03})

	if err := r.Seek(4); err != nil {
		t.Fatalf("seek to extent should succeed: %v", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", r.Remaining())
	}

	err := r.Seek(5)
	var oe *OutOfRangeError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if oe.Offset != 5 || oe.Size != 4 {
		t.Errorf("unexpected error context: %+v", oe)
	}
}

func TestReaderAt(t *testing.T) {
	r := newBE([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})

	// Read from offset 3
	r2 := r.At(3)
	v, err := r2.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x03 {
		t.Errorf("expected 0x03, got 0x%02x", v)
	}

	// The parent reader is unaffected
	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x00 {
		t.Errorf("expected 0x00, got 0x%02x", v)
	}
}

func TestReaderPeek(t *testing.T) {
	r := newBE([]byte{0x00, 0x01, 0x02, 0x03})

	// Peek should not advance position
	peeked, err := r.Peek(2)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !bytes.Equal(peeked, []byte{0x00, 0x01}) {
		t.Errorf("expected [0x00, 0x01], got %v", peeked)
	}
	if r.Pos() != 0 {
		t.Errorf("Peek should not advance position, got %d", r.Pos())
	}

	read, err := r.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(read, peeked) {
		t.Errorf("Read after Peek mismatch: %v vs %v", read, peeked)
	}
}

func TestFromBytes(t *testing.T) {
	r := FromBytes([]byte{0x34, 0x12}, binary.LittleEndian)
	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x1234 {
		t.Errorf("expected 0x1234, got 0x%x", v)
	}
	if _, err := r.ReadUint8(); err == nil {
		t.Error("expected error reading past end")
	}
}
