package bil

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
)

// Raster is a decoded pixel file. Samples are kept as the file's bytes
// and converted on access.
type Raster struct {
	Header *Header
	data   []byte
}

// Size returns the number of pixel bytes a file with header h holds after
// its skip bytes.
func (h *Header) Size() int64 {
	switch h.Layout {
	case BSQ:
		return int64(h.Bands) * int64(h.Rows) * h.BandRowBytes
	}
	return int64(h.Rows) * h.TotalRowBytes
}

// Read loads the pixel data described by h from r. Trailing bytes past the
// described extent are ignored.
func Read(r *binary.Reader, h *Header) (*Raster, error) {
	c := r.At(h.SkipBytes)
	size := h.Size()
	if size > c.Remaining() {
		return nil, &binary.TruncatedInputError{Offset: h.SkipBytes, Want: size, Have: c.Remaining()}
	}
	data, err := c.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	return &Raster{Header: h, data: data}, nil
}

// offset returns the byte offset of a sample within the pixel data.
func (r *Raster) offset(row, col, band int) int64 {
	h := r.Header
	sample := int64(h.PixelType.Size())
	switch h.Layout {
	case BIP:
		return int64(row)*h.TotalRowBytes + (int64(col)*int64(h.Bands)+int64(band))*sample
	case BSQ:
		return (int64(band)*int64(h.Rows)+int64(row))*h.BandRowBytes + int64(col)*sample
	}
	return int64(row)*h.TotalRowBytes + int64(band)*h.BandRowBytes + int64(col)*sample
}

// At returns the sample at (row, col, band), rows counted from the top. It
// panics if any index is out of range.
func (r *Raster) At(row, col, band int) float64 {
	h := r.Header
	if row < 0 || row >= h.Rows || col < 0 || col >= h.Cols || band < 0 || band >= h.Bands {
		panic(fmt.Sprintf("bil: sample (%d, %d, %d) out of range %dx%dx%d", row, col, band, h.Rows, h.Cols, h.Bands))
	}
	b := r.data[r.offset(row, col, band):]
	switch h.PixelType {
	case Uint8:
		return float64(b[0])
	case Int8:
		return float64(int8(b[0]))
	case Uint16:
		return float64(h.Order.Uint16(b))
	case Int16:
		return float64(int16(h.Order.Uint16(b)))
	case Uint32:
		return float64(h.Order.Uint32(b))
	case Int32:
		return float64(int32(h.Order.Uint32(b)))
	}
	return float64(math.Float32frombits(h.Order.Uint32(b)))
}

// IsNoData reports whether v equals the header's NODATA value.
func (r *Raster) IsNoData(v float64) bool {
	return r.Header.HasNoData && v == r.Header.NoData
}

// Band returns one band as a row-major slice.
func (r *Raster) Band(band int) []float64 {
	h := r.Header
	out := make([]float64, 0, h.Rows*h.Cols)
	for row := range h.Rows {
		for col := range h.Cols {
			out = append(out, r.At(row, col, band))
		}
	}
	return out
}

// Pixel returns every band of one pixel.
func (r *Raster) Pixel(row, col int) []float64 {
	out := make([]float64, r.Header.Bands)
	for b := range out {
		out[b] = r.At(row, col, b)
	}
	return out
}
