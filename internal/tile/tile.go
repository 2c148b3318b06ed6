package tile

import (
	"math"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
)

// NoData is the integer no-data cell value.
const NoData int32 = -2147483647

// FloatNoData is the floating point no-data cell value.
const FloatNoData float32 = -math.MaxFloat32

// Tile is one decoded tile. Exactly one of Cells and Floats is set.
type Tile struct {
	Index  int   // positional tile number, row-major over the tile grid
	Offset int64 // byte offset of the size prefix in the data file
	Type   Type
	RMin   int64
	Absent bool // zero-size tile, all cells no-data

	Cells  []int32
	Floats []float32
}

// Decoder reads tiles of a fixed cell geometry.
type Decoder struct {
	Width  int // cells per tile row
	Height int // cell rows per tile

	// Fax decodes CCITTRLE tiles. Nil selects DefaultFax.
	Fax FaxDecoder
}

// Cells returns the number of cells in one tile.
func (d *Decoder) Cells() int {
	return d.Width * d.Height
}

// Read decodes a compressed integer tile at r's position.
//
// Layout (big-endian):
//
//	0   size prefix in 16-bit units (uint16), must equal indexSize
//	2   tile type tag
//	3   RMin width n (2, 4 or 8)
//	4   RMin, signed, n bytes
//	4+n body, size*2 - 3 - n bytes
//
// A zero indexSize yields an absent tile without touching r.
func (d *Decoder) Read(r *binary.Reader, indexSize int32) (*Tile, error) {
	t := &Tile{Offset: r.Pos()}
	if indexSize == 0 {
		t.Absent = true
		t.Cells = d.noData()
		return t, nil
	}
	if err := d.readPrefix(r, indexSize); err != nil {
		return nil, err
	}

	tagOffset := r.Pos()
	tag, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if t.Type, err = ParseType(tag); err != nil {
		return nil, &UnknownTileTypeError{Tag: tag, Offset: tagOffset}
	}

	minOffset := r.Pos()
	minSize, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if minSize != 2 && minSize != 4 && minSize != 8 {
		return nil, &InvalidMinSizeError{Size: minSize, Offset: minOffset}
	}
	if t.RMin, err = r.ReadIntN(int(minSize)); err != nil {
		return nil, err
	}
	if t.RMin < math.MinInt32 || t.RMin > math.MaxInt32 {
		return nil, &RMinRangeError{RMin: t.RMin, Offset: minOffset}
	}

	bodyLen := int64(indexSize)*2 - 3 - int64(minSize)
	if bodyLen < 0 {
		return nil, &binary.TruncatedInputError{Offset: r.Pos(), Want: 3 + int64(minSize), Have: int64(indexSize) * 2}
	}
	body, err := r.ReadBytes(int(bodyLen))
	if err != nil {
		return nil, err
	}
	if t.Cells, err = d.Decode(t.Type, t.RMin, body); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadFloat decodes a floating point tile: the size prefix followed by
// big-endian float32 cells.
func (d *Decoder) ReadFloat(r *binary.Reader, indexSize int32) (*Tile, error) {
	t := &Tile{Offset: r.Pos()}
	if indexSize == 0 {
		t.Absent = true
		t.Floats = make([]float32, d.Cells())
		for i := range t.Floats {
			t.Floats[i] = FloatNoData
		}
		return t, nil
	}
	if err := d.readPrefix(r, indexSize); err != nil {
		return nil, err
	}
	if err := d.checkBody(indexSize, 4); err != nil {
		return nil, err
	}
	t.Floats = make([]float32, d.Cells())
	for i := range t.Floats {
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		t.Floats[i] = v
	}
	return t, nil
}

// ReadRaw32 decodes an uncompressed integer tile: the size prefix followed
// by big-endian int32 cells.
func (d *Decoder) ReadRaw32(r *binary.Reader, indexSize int32) (*Tile, error) {
	t := &Tile{Offset: r.Pos(), Type: Raw32Bit}
	if indexSize == 0 {
		t.Absent = true
		t.Cells = d.noData()
		return t, nil
	}
	if err := d.readPrefix(r, indexSize); err != nil {
		return nil, err
	}
	if err := d.checkBody(indexSize, 4); err != nil {
		return nil, err
	}
	t.Cells = make([]int32, d.Cells())
	for i := range t.Cells {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		t.Cells[i] = v
	}
	return t, nil
}

func (d *Decoder) readPrefix(r *binary.Reader, indexSize int32) error {
	offset := r.Pos()
	size, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if int32(size) != indexSize {
		return &TileSizeMismatchError{Offset: offset, Index: indexSize, Prefix: int32(size)}
	}
	return nil
}

// checkBody verifies that a fixed-width tile declares room for every cell.
func (d *Decoder) checkBody(indexSize int32, cellSize int) error {
	if have := int(indexSize) * 2 / cellSize; have < d.Cells() {
		return &TileDecodeLengthError{Type: Raw32Bit, Want: d.Cells(), Got: have}
	}
	return nil
}

func (d *Decoder) noData() []int32 {
	cells := make([]int32, d.Cells())
	for i := range cells {
		cells[i] = NoData
	}
	return cells
}
