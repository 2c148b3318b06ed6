package grid

import "fmt"

// BadMagicError reports a file that does not start with a known signature.
type BadMagicError struct {
	Offset int64
	Got    []byte
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("bad magic % X at offset %d", e.Got, e.Offset)
}

// CorruptHeaderError reports a violated preamble invariant, usually a
// non-zero byte in a reserved region.
type CorruptHeaderError struct {
	Offset int64
	Reason string
}

func (e *CorruptHeaderError) Error() string {
	return fmt.Sprintf("corrupt header at offset %d: %s", e.Offset, e.Reason)
}

// UnknownCellTypeError reports a cell type tag other than 1 or 2.
type UnknownCellTypeError struct {
	Value int32
}

func (e *UnknownCellTypeError) Error() string {
	return fmt.Sprintf("unknown cell type %d", e.Value)
}

// UnknownCompressionFlagError reports a compression flag other than 0 or 1.
type UnknownCompressionFlagError struct {
	Value int32
}

func (e *UnknownCompressionFlagError) Error() string {
	return fmt.Sprintf("unknown compression flag %d", e.Value)
}

// TrailingDataError reports an index file longer than its declared size.
type TrailingDataError struct {
	Declared int64 // bytes implied by the preamble file size
	Actual   int64 // bytes in the source
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("tile index declares %d bytes but holds %d", e.Declared, e.Actual)
}

// RasterSizeError reports bounds and pixel sizes that describe an unusable
// or oversized raster.
type RasterSizeError struct {
	Width, Height float64 // cells implied by the bounds
	Bounds        Bounds
}

func (e *RasterSizeError) Error() string {
	return fmt.Sprintf("raster of %gx%g cells for bounds %v exceeds %d cells", e.Width, e.Height, e.Bounds, MaxRasterCells)
}
