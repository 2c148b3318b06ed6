package tile

import "fmt"

// UnknownTileTypeError reports a tile type tag outside the known set.
type UnknownTileTypeError struct {
	Tag    uint8
	Offset int64
}

func (e *UnknownTileTypeError) Error() string {
	return fmt.Sprintf("unknown tile type 0x%02X at offset %d", e.Tag, e.Offset)
}

// InvalidMinSizeError reports an RMin width other than 2, 4 or 8 bytes.
type InvalidMinSizeError struct {
	Size   uint8
	Offset int64
}

func (e *InvalidMinSizeError) Error() string {
	return fmt.Sprintf("invalid RMin size %d at offset %d (want 2, 4 or 8)", e.Size, e.Offset)
}

// TileDecodeLengthError reports a body that decodes to more or fewer cells
// than the tile holds.
type TileDecodeLengthError struct {
	Type Type
	Want int // cells in the tile
	Got  int // cells produced before the body ran out or overran
}

func (e *TileDecodeLengthError) Error() string {
	return fmt.Sprintf("%s tile decoded %d cells, want %d", e.Type, e.Got, e.Want)
}

// TileSizeMismatchError reports a tile whose in-place size prefix disagrees
// with its index entry.
type TileSizeMismatchError struct {
	Offset int64
	Index  int32 // size in 16-bit units from the tile index
	Prefix int32 // size in 16-bit units stored before the tile
}

func (e *TileSizeMismatchError) Error() string {
	return fmt.Sprintf("tile at offset %d: index size %d, stored size %d", e.Offset, e.Index, e.Prefix)
}

// RMinRangeError reports an RMin that does not fit the 32-bit cell type.
type RMinRangeError struct {
	RMin   int64
	Offset int64 // offset of the RMin width byte, or -1
}

func (e *RMinRangeError) Error() string {
	return fmt.Sprintf("RMin %d at offset %d overflows a 32-bit cell", e.RMin, e.Offset)
}
