package grid

import (
	"bytes"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
)

/*
Preamble Layout (w001001.adf and w001001x.adf, big-endian):
Offset  Size  Description
0       8     Magic
8       16    Reserved, zero
24      4     File size in 16-bit units
28      72    Reserved, zero
*/

// PreambleSize is the length of the preamble shared by the tile index and
// tile data files.
const PreambleSize = 100

// Magics are the two known preamble signatures.
var Magics = [][]byte{
	{0x00, 0x00, 0x27, 0x0A, 0xFF, 0xFF, 0xFC, 0x14},
	{0x00, 0x00, 0x27, 0x0A, 0xFF, 0xFF, 0xFB, 0xF8},
}

// Preamble is the validated 100-byte file preamble.
type Preamble struct {
	Magic    []byte
	FileSize int32 // in 16-bit units
}

// Bytes returns the declared file size in bytes.
func (p *Preamble) Bytes() int64 {
	return int64(p.FileSize) * 2
}

// ReadPreamble validates the preamble at offset 0 and leaves r positioned
// just after it.
func ReadPreamble(r *binary.Reader) (*Preamble, error) {
	if err := r.Seek(0); err != nil {
		return nil, err
	}
	buf, err := r.ReadBytes(PreambleSize)
	if err != nil {
		return nil, err
	}

	p := &Preamble{Magic: buf[0:8]}
	if !knownMagic(p.Magic) {
		return nil, &BadMagicError{Offset: 0, Got: p.Magic}
	}
	if err := checkZero(buf, 8, 24); err != nil {
		return nil, err
	}

	size, err := r.At(24).ReadInt32()
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, &CorruptHeaderError{Offset: 24, Reason: "file size must be positive"}
	}
	p.FileSize = size

	if err := checkZero(buf, 28, PreambleSize); err != nil {
		return nil, err
	}
	return p, nil
}

func knownMagic(b []byte) bool {
	for _, m := range Magics {
		if bytes.Equal(b, m) {
			return true
		}
	}
	return false
}

func checkZero(buf []byte, from, to int) error {
	for i := from; i < to; i++ {
		if buf[i] != 0 {
			return &CorruptHeaderError{Offset: int64(i), Reason: "reserved byte is not zero"}
		}
	}
	return nil
}
