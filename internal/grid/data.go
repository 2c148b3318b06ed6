package grid

import (
	"fmt"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
	"github.com/robert-malhotra/go-gisraster/internal/tile"
)

// TileReader reads tiles from w001001.adf by index position.
type TileReader struct {
	r      *binary.Reader
	header *Header
	index  []IndexEntry
	dec    *tile.Decoder
}

// NewTileReader validates the data file preamble and returns a reader for
// the tiles the index describes. fax may be nil.
func NewTileReader(r *binary.Reader, h *Header, index []IndexEntry, fax tile.FaxDecoder) (*TileReader, error) {
	if _, err := ReadPreamble(r); err != nil {
		return nil, fmt.Errorf("tile data: %w", err)
	}
	return &TileReader{
		r:      r,
		header: h,
		index:  index,
		dec:    &tile.Decoder{Width: int(h.TileXSize), Height: int(h.TileYSize), Fax: fax},
	}, nil
}

// Len returns the number of tiles in the index.
func (tr *TileReader) Len() int {
	return len(tr.index)
}

// Tile decodes tile n. Float grids and uncompressed integer grids use their
// fixed-width layouts; everything else goes through the compressed tile
// decoders.
func (tr *TileReader) Tile(n int) (*tile.Tile, error) {
	if n < 0 || n >= len(tr.index) {
		return nil, fmt.Errorf("tile %d out of range [0, %d)", n, len(tr.index))
	}
	e := tr.index[n]
	if e.Size > 0 && e.Offset+2 > tr.r.Size() {
		return nil, fmt.Errorf("tile %d: %w", n, &binary.OutOfRangeError{Offset: e.Offset, Size: tr.r.Size()})
	}
	c := tr.r.At(e.Offset)

	var (
		t   *tile.Tile
		err error
	)
	switch {
	case tr.header.CellType == FloatCover:
		t, err = tr.dec.ReadFloat(c, e.Size)
	case tr.header.Compression == Uncompressed:
		t, err = tr.dec.ReadRaw32(c, e.Size)
	default:
		t, err = tr.dec.Read(c, e.Size)
	}
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", n, err)
	}
	t.Index = n
	return t, nil
}
