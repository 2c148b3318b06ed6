package grid

import (
	"fmt"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
)

// IndexEntry locates one tile in w001001.adf. The stored offset counts
// 16-bit units, as GDAL reads it, and is converted to bytes here. Readers
// that seek to the preamble size plus the raw value treat it as a byte count
// and disagree on every tile past the first.
type IndexEntry struct {
	Offset int64 // byte offset of the tile's size prefix
	Size   int32 // tile size in 16-bit units, 0 for an absent tile
}

// IndexEntrySize is the on-disk size of one index entry: two int32 values,
// offset and size, both in 16-bit units.
const IndexEntrySize = 8

// ReadIndex parses w001001x.adf. The nth entry is the nth tile in row-major
// tile order.
func ReadIndex(r *binary.Reader) ([]IndexEntry, error) {
	p, err := ReadPreamble(r)
	if err != nil {
		return nil, err
	}

	n := (p.Bytes() - PreambleSize) / IndexEntrySize
	if n < 0 {
		return nil, &CorruptHeaderError{Offset: 24, Reason: fmt.Sprintf("file size %d shorts is smaller than the preamble", p.FileSize)}
	}
	declared := PreambleSize + n*IndexEntrySize
	if r.Size() > declared {
		return nil, &TrailingDataError{Declared: declared, Actual: r.Size()}
	}
	if r.Size() < declared {
		return nil, &binary.TruncatedInputError{Offset: PreambleSize, Want: n * IndexEntrySize, Have: r.Size() - PreambleSize}
	}

	entries := make([]IndexEntry, n)
	for i := range entries {
		off, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		size, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		if off < 0 || size < 0 {
			return nil, &CorruptHeaderError{Offset: r.Pos() - IndexEntrySize, Reason: fmt.Sprintf("index entry %d has offset %d size %d", i, off, size)}
		}
		entries[i] = IndexEntry{Offset: int64(off) * 2, Size: size}
	}
	return entries, nil
}
