package tile

import (
	"errors"
	"fmt"
)

// FaxDecoder expands a CCITT RLE compressed 1-bit tile body into one 0 or 1
// value per cell, row-major.
type FaxDecoder interface {
	Decode(body []byte, width, height int) ([]uint8, error)
}

// DefaultFax is used when a Decoder has no FaxDecoder of its own.
var DefaultFax FaxDecoder = CCITTDecoder{}

var (
	// ErrFaxCode reports a bit sequence that is no Modified Huffman code.
	ErrFaxCode = errors.New("invalid modified huffman code")
	// ErrFaxRun reports a row whose runs overshoot the tile width.
	ErrFaxRun = errors.New("fax run past end of row")
)

// CCITTDecoder decodes Modified Huffman (CCITT Group 3 1D) data without EOL
// codes and with byte-aligned rows, the TIFF "CCITT RLE" variant. Every row
// starts with a white run. Black pixels decode to 1.
type CCITTDecoder struct{}

// Decode implements FaxDecoder.
func (CCITTDecoder) Decode(body []byte, width, height int) ([]uint8, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid fax dimensions %dx%d", width, height)
	}
	br := &faxBits{data: body}
	out := make([]uint8, width*height)
	for y := range height {
		if err := br.row(out[y*width:(y+1)*width], y); err != nil {
			return nil, err
		}
		br.align()
	}
	return out, nil
}

// faxBits reads a bitstream most significant bit first.
type faxBits struct {
	data []byte
	pos  int // bit position
}

func (b *faxBits) bit() (uint16, bool) {
	if b.pos >= len(b.data)*8 {
		return 0, false
	}
	v := uint16(b.data[b.pos/8]>>(7-b.pos%8)) & 1
	b.pos++
	return v, true
}

func (b *faxBits) align() {
	b.pos = (b.pos + 7) &^ 7
}

// row decodes alternating white and black runs until row is full.
func (b *faxBits) row(row []uint8, y int) error {
	x, black := 0, false
	for x < len(row) {
		run, err := b.run(black)
		if err != nil {
			return fmt.Errorf("row %d at bit %d: %w", y, b.pos, err)
		}
		if x+run > len(row) {
			return fmt.Errorf("row %d: %w (%d > %d)", y, ErrFaxRun, x+run, len(row))
		}
		if black {
			for i := x; i < x+run; i++ {
				row[i] = 1
			}
		}
		x += run
		black = !black
	}
	return nil
}

// run reads make-up codes up to and including one terminating code.
func (b *faxBits) run(black bool) (int, error) {
	codes := whiteCodes
	if black {
		codes = blackCodes
	}
	total := 0
	for {
		n, err := b.code(codes)
		if err != nil {
			return 0, err
		}
		total += n
		if n < 64 {
			return total, nil
		}
	}
}

func (b *faxBits) code(codes map[faxCode]int) (int, error) {
	var c faxCode
	for c.len < maxFaxCodeLen {
		v, ok := b.bit()
		if !ok {
			return 0, fmt.Errorf("%w: body ends mid-code", ErrFaxCode)
		}
		c.bits = c.bits<<1 | v
		c.len++
		if n, ok := codes[c]; ok {
			return n, nil
		}
	}
	return 0, ErrFaxCode
}

// faxCode is a code word of len bits, right-aligned in bits.
type faxCode struct {
	bits uint16
	len  uint8
}

const maxFaxCodeLen = 13

var whiteCodes, blackCodes = faxTable(whiteCodeWords), faxTable(blackCodeWords)

func faxTable(words []string) map[faxCode]int {
	m := make(map[faxCode]int, len(words)+len(extendedMakeup))
	add := func(run int, w string) {
		var c faxCode
		for _, ch := range w {
			c.bits = c.bits<<1 | uint16(ch-'0')
			c.len++
		}
		m[c] = run
	}
	for i, w := range words {
		run := i
		if i >= 64 {
			run = (i - 63) * 64
		}
		add(run, w)
	}
	for i, w := range extendedMakeup {
		add(1792+i*64, w)
	}
	return m
}

// Terminating codes for runs 0-63, then make-up codes for 64-1728 (ITU-T
// T.4 tables 2 and 3).
var whiteCodeWords = []string{
	"00110101", "000111", "0111", "1000", "1011", "1100", "1110", "1111",
	"10011", "10100", "00111", "01000", "001000", "000011", "110100", "110101",
	"101010", "101011", "0100111", "0001100", "0001000", "0010111", "0000011", "0000100",
	"0101000", "0101011", "0010011", "0100100", "0011000", "00000010", "00000011", "00011010",
	"00011011", "00010010", "00010011", "00010100", "00010101", "00010110", "00010111", "00101000",
	"00101001", "00101010", "00101011", "00101100", "00101101", "00000100", "00000101", "00001010",
	"00001011", "01010010", "01010011", "01010100", "01010101", "00100100", "00100101", "01011000",
	"01011001", "01011010", "01011011", "01001010", "01001011", "00110010", "00110011", "00110100",

	"11011", "10010", "010111", "0110111", "00110110", "00110111", "01100100", "01100101",
	"01101000", "01100111", "011001100", "011001101", "011010010", "011010011", "011010100", "011010101",
	"011010110", "011010111", "011011000", "011011001", "011011010", "011011011", "010011000", "010011001",
	"010011010", "011000", "010011011",
}

var blackCodeWords = []string{
	"0000110111", "010", "11", "10", "011", "0011", "0010", "00011",
	"000101", "000100", "0000100", "0000101", "0000111", "00000100", "00000111", "000011000",
	"0000010111", "0000011000", "0000001000", "00001100111", "00001101000", "00001101100", "00000110111", "00000101000",
	"00000010111", "00000011000", "000011001010", "000011001011", "000011001100", "000011001101", "000001101000", "000001101001",
	"000001101010", "000001101011", "000011010010", "000011010011", "000011010100", "000011010101", "000011010110", "000011010111",
	"000001101100", "000001101101", "000011011010", "000011011011", "000001010100", "000001010101", "000001010110", "000001010111",
	"000001100100", "000001100101", "000001010010", "000001010011", "000000100100", "000000110111", "000000111000", "000000100111",
	"000000101000", "000001011000", "000001011001", "000000101011", "000000101100", "000001011010", "000001100110", "000001100111",

	"0000001111", "000011001000", "000011001001", "000001011011", "000000110011", "000000110100", "000000110101", "0000001101100",
	"0000001101101", "0000001001010", "0000001001011", "0000001001100", "0000001001101", "0000001110010", "0000001110011", "0000001110100",
	"0000001110101", "0000001110110", "0000001110111", "0000001010010", "0000001010011", "0000001010100", "0000001010101", "0000001011010",
	"0000001011011", "0000001100100", "0000001100101",
}

// Make-up codes for 1792-2560, shared by both colours.
var extendedMakeup = []string{
	"00000001000", "00000001100", "00000001101", "000000010010", "000000010011", "000000010100", "000000010101",
	"000000010110", "000000010111", "000000011100", "000000011101", "000000011110", "000000011111",
}
