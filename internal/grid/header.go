package grid

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
)

/*
hdr.adf Layout (big-endian):
Offset  Size  Description
0       8     "GRID1.2\0"
16      4     Cell type (1 integer, 2 float)
20      4     Compression flag (0 compressed, 1 uncompressed)
256     8     Pixel size X
264     8     Pixel size Y
272     8     Reference X
280     8     Reference Y
288     4     Tiles per row
292     4     Tiles per column
296     4     Tile width in cells
304     4     Tile height in cells
*/

// HeaderSize is the number of bytes of hdr.adf that are read.
const HeaderSize = 308

// Literal is the tag hdr.adf starts with.
var Literal = []byte("GRID1.2\x00")

// CellType distinguishes integer from floating point grids.
type CellType int32

const (
	IntCover   CellType = 1
	FloatCover CellType = 2
)

// ParseCellType converts a raw tag to a CellType.
func ParseCellType(v int32) (CellType, error) {
	switch CellType(v) {
	case IntCover, FloatCover:
		return CellType(v), nil
	}
	return 0, &UnknownCellTypeError{Value: v}
}

func (c CellType) String() string {
	switch c {
	case IntCover:
		return "int"
	case FloatCover:
		return "float"
	}
	return fmt.Sprintf("CellType(%d)", int32(c))
}

// Compression is the tile compression flag.
type Compression int32

const (
	Compressed   Compression = 0
	Uncompressed Compression = 1
)

// ParseCompression converts a raw flag to a Compression.
func ParseCompression(v int32) (Compression, error) {
	switch Compression(v) {
	case Compressed, Uncompressed:
		return Compression(v), nil
	}
	return 0, &UnknownCompressionFlagError{Value: v}
}

func (c Compression) String() string {
	switch c {
	case Compressed:
		return "compressed"
	case Uncompressed:
		return "uncompressed"
	}
	return fmt.Sprintf("Compression(%d)", int32(c))
}

// Header is the grid description from hdr.adf.
type Header struct {
	CellType       CellType
	Compression    Compression
	PixelSizeX     float64
	PixelSizeY     float64
	XRef           float64
	YRef           float64
	TilesPerRow    int32
	TilesPerColumn int32
	TileXSize      int32
	TileYSize      int32
}

// ReadHeader parses hdr.adf.
func ReadHeader(r *binary.Reader) (*Header, error) {
	lit, err := r.At(0).ReadBytes(len(Literal))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(lit, Literal) {
		return nil, &BadMagicError{Offset: 0, Got: lit}
	}

	h := &Header{}
	cell, err := r.At(16).ReadInt32()
	if err != nil {
		return nil, err
	}
	if h.CellType, err = ParseCellType(cell); err != nil {
		return nil, err
	}
	comp, err := r.At(20).ReadInt32()
	if err != nil {
		return nil, err
	}
	if h.Compression, err = ParseCompression(comp); err != nil {
		return nil, err
	}

	c := r.At(256)
	for _, dst := range []*float64{&h.PixelSizeX, &h.PixelSizeY, &h.XRef, &h.YRef} {
		if *dst, err = c.ReadFloat64(); err != nil {
			return nil, err
		}
	}
	for _, dst := range []*int32{&h.TilesPerRow, &h.TilesPerColumn, &h.TileXSize} {
		if *dst, err = c.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if h.TileYSize, err = r.At(304).ReadInt32(); err != nil {
		return nil, err
	}

	if h.TileXSize <= 0 || h.TileYSize <= 0 {
		return nil, &CorruptHeaderError{Offset: 296, Reason: fmt.Sprintf("tile size %dx%d", h.TileXSize, h.TileYSize)}
	}
	if h.PixelSizeX <= 0 || h.PixelSizeY <= 0 {
		return nil, &CorruptHeaderError{Offset: 256, Reason: fmt.Sprintf("pixel size %gx%g", h.PixelSizeX, h.PixelSizeY)}
	}
	return h, nil
}

// Bounds is the georeferenced extent from dblbnd.adf.
type Bounds struct {
	LLX, LLY, URX, URY float64
}

// ReadBounds parses dblbnd.adf.
func ReadBounds(r *binary.Reader) (Bounds, error) {
	var b Bounds
	vals, err := readDoubles(r, 4)
	if err != nil {
		return b, err
	}
	b = Bounds{LLX: vals[0], LLY: vals[1], URX: vals[2], URY: vals[3]}
	if b.URX < b.LLX || b.URY < b.LLY {
		return b, &CorruptHeaderError{Offset: 0, Reason: fmt.Sprintf("inverted bounds %v", b)}
	}
	return b, nil
}

// Stats is the raster summary from sta.adf.
type Stats struct {
	Min, Max, Mean, StdDev float64
}

// ReadStats parses sta.adf.
func ReadStats(r *binary.Reader) (Stats, error) {
	vals, err := readDoubles(r, 4)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Min: vals[0], Max: vals[1], Mean: vals[2], StdDev: vals[3]}, nil
}

func readDoubles(r *binary.Reader, n int) ([]float64, error) {
	c := r.At(0)
	out := make([]float64, n)
	for i := range out {
		v, err := c.ReadFloat64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
