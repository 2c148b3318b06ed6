package tile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// decodeFunc fills out, whose length is the tile's cell count, from body.
type decodeFunc func(d *Decoder, t Type, body []byte, rmin int32, out []int32) error

// decoders maps each tile type to its body decoder.
var decoders = map[Type]decodeFunc{
	ConstantBlock:   decodeConstant,
	Raw1Bit:         decodeRawBits(1),
	Raw4Bit:         decodeRawBits(4),
	Raw8Bit:         decodeRawBits(8),
	Raw16Bit:        decodeRaw16,
	Raw32Bit:        decodeRaw32,
	Literal16Runs:   decodeLiteralRuns(2),
	Literal8Runs:    decodeLiteralRuns(1),
	RMinRuns:        decodeLiteralRuns(0),
	RunLength32:     decodeRunLength(4),
	RunLength16:     decodeRunLength(2),
	RunLength8:      decodeRunLength(1),
	RunLength8Small: decodeRunLength(1),
	CCITTRLE:        decodeFax,
}

// Decode expands a tile body of type t into exactly Width*Height cells.
// rmin must fit in an int32.
func (d *Decoder) Decode(t Type, rmin int64, body []byte) ([]int32, error) {
	fn, ok := decoders[t]
	if !ok {
		return nil, &UnknownTileTypeError{Tag: uint8(t), Offset: -1}
	}
	if rmin < math.MinInt32 || rmin > math.MaxInt32 {
		return nil, &RMinRangeError{RMin: rmin, Offset: -1}
	}
	out := make([]int32, d.Cells())
	if err := fn(d, t, body, int32(rmin), out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeConstant(_ *Decoder, _ Type, _ []byte, rmin int32, out []int32) error {
	for i := range out {
		out[i] = rmin
	}
	return nil
}

// decodeRawBits unpacks a bitstream of 1, 4 or 8 bits per cell, most
// significant bits first.
func decodeRawBits(bits int) decodeFunc {
	perByte := 8 / bits
	mask := byte(0xFF >> (8 - bits))
	return func(_ *Decoder, t Type, body []byte, rmin int32, out []int32) error {
		if have := len(body) * perByte; have < len(out) {
			return &TileDecodeLengthError{Type: t, Want: len(out), Got: have}
		}
		for i := range out {
			b := body[i/perByte]
			shift := 8 - bits*(i%perByte+1)
			out[i] = int32((b>>shift)&mask) + rmin
		}
		return nil
	}
}

func decodeRaw16(_ *Decoder, t Type, body []byte, rmin int32, out []int32) error {
	if have := len(body) / 2; have < len(out) {
		return &TileDecodeLengthError{Type: t, Want: len(out), Got: have}
	}
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint16(body[i*2:])) + rmin
	}
	return nil
}

func decodeRaw32(_ *Decoder, t Type, body []byte, rmin int32, out []int32) error {
	if have := len(body) / 4; have < len(out) {
		return &TileDecodeLengthError{Type: t, Want: len(out), Got: have}
	}
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(body[i*4:])) + rmin
	}
	return nil
}

// decodeLiteralRuns handles the marker-driven encodings. A marker below 128
// is followed by that many literal cells of width bytes each (RMin itself
// when width is 0); a marker above 127 stands for 256-marker no-data cells.
func decodeLiteralRuns(width int) decodeFunc {
	return func(_ *Decoder, t Type, body []byte, rmin int32, out []int32) error {
		pos, n := 0, 0
		for n < len(out) {
			if pos >= len(body) {
				return &TileDecodeLengthError{Type: t, Want: len(out), Got: n}
			}
			marker := int(body[pos])
			pos++

			if marker > 127 {
				run := 256 - marker
				if n+run > len(out) {
					return &TileDecodeLengthError{Type: t, Want: len(out), Got: n + run}
				}
				for i := 0; i < run; i++ {
					out[n] = NoData
					n++
				}
				continue
			}

			if n+marker > len(out) {
				return &TileDecodeLengthError{Type: t, Want: len(out), Got: n + marker}
			}
			if pos+marker*width > len(body) {
				return &TileDecodeLengthError{Type: t, Want: len(out), Got: n + (len(body)-pos)/max(width, 1)}
			}
			for i := 0; i < marker; i++ {
				var v int32
				switch width {
				case 1:
					v = int32(body[pos])
				case 2:
					v = int32(binary.BigEndian.Uint16(body[pos:]))
				}
				pos += width
				out[n] = v + rmin
				n++
			}
		}
		return nil
	}
}

// decodeRunLength handles count/value pairs with a big-endian value of
// width bytes. 16 and 32-bit values are signed.
func decodeRunLength(width int) decodeFunc {
	return func(_ *Decoder, t Type, body []byte, rmin int32, out []int32) error {
		pos, n := 0, 0
		for n < len(out) {
			if pos+1+width > len(body) {
				return &TileDecodeLengthError{Type: t, Want: len(out), Got: n}
			}
			count := int(body[pos])
			pos++

			var v int32
			switch width {
			case 1:
				v = int32(body[pos])
			case 2:
				v = int32(int16(binary.BigEndian.Uint16(body[pos:])))
			case 4:
				v = int32(binary.BigEndian.Uint32(body[pos:]))
			}
			pos += width

			if n+count > len(out) {
				return &TileDecodeLengthError{Type: t, Want: len(out), Got: n + count}
			}
			for i := 0; i < count; i++ {
				out[n] = v + rmin
				n++
			}
		}
		return nil
	}
}

func decodeFax(d *Decoder, t Type, body []byte, rmin int32, out []int32) error {
	fax := d.Fax
	if fax == nil {
		fax = DefaultFax
	}
	bits, err := fax.Decode(body, d.Width, d.Height)
	if err != nil {
		return fmt.Errorf("%s tile: %w", t, err)
	}
	if len(bits) != len(out) {
		return &TileDecodeLengthError{Type: t, Want: len(out), Got: len(bits)}
	}
	for i, b := range bits {
		out[i] = int32(b) + rmin
	}
	return nil
}
