package grid

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-gisraster/internal/tile"
)

// Geometry places tiles over the raster described by a header and bounds.
type Geometry struct {
	Width, Height         int // raster size in cells
	TileWidth, TileHeight int // tile size in cells
	TilesAcross           int // tiles per tile row
	TilesDown             int // tile rows
	PixelSizeX            float64
	PixelSizeY            float64
	Bounds                Bounds
}

// MaxRasterCells bounds Width*Height so that corrupt bounds cannot demand an
// unbounded raster allocation.
const MaxRasterCells = 1 << 28

// NewGeometry derives the raster geometry. The tile grid is sized to cover
// the bounds; tile n sits at tile column n % TilesAcross, tile row
// n / TilesAcross, counted from the upper left corner. A raster of more than
// MaxRasterCells cells is a *RasterSizeError.
func NewGeometry(h *Header, b Bounds) (Geometry, error) {
	w := math.Round((b.URX - b.LLX) / h.PixelSizeX)
	ht := math.Round((b.URY - b.LLY) / h.PixelSizeY)
	if !(math.Abs(w) <= MaxRasterCells && math.Abs(ht) <= MaxRasterCells && math.Abs(w*ht) <= MaxRasterCells) {
		return Geometry{}, &RasterSizeError{Width: w, Height: ht, Bounds: b}
	}
	g := Geometry{
		Width:      int(w),
		Height:     int(ht),
		TileWidth:  int(h.TileXSize),
		TileHeight: int(h.TileYSize),
		PixelSizeX: h.PixelSizeX,
		PixelSizeY: h.PixelSizeY,
		Bounds:     b,
	}
	if g.Width <= 0 || g.Height <= 0 {
		return g, fmt.Errorf("empty raster %dx%d for bounds %v", g.Width, g.Height, b)
	}
	g.TilesAcross = (g.Width + g.TileWidth - 1) / g.TileWidth
	g.TilesDown = (g.Height + g.TileHeight - 1) / g.TileHeight
	return g, nil
}

// NumTiles returns the number of tile positions covering the raster.
func (g Geometry) NumTiles() int {
	return g.TilesAcross * g.TilesDown
}

// TileOrigin returns the cell column and row of tile n's upper left cell.
func (g Geometry) TileOrigin(n int) (col, row int) {
	return (n % g.TilesAcross) * g.TileWidth, (n / g.TilesAcross) * g.TileHeight
}

// TileBounds returns the georeferenced extent of tile n, which may extend
// past the raster bounds on the right and bottom edges.
func (g Geometry) TileBounds(n int) Bounds {
	col, row := g.TileOrigin(n)
	llx := g.Bounds.LLX + float64(col)*g.PixelSizeX
	ury := g.Bounds.URY - float64(row)*g.PixelSizeY
	return Bounds{
		LLX: llx,
		LLY: ury - float64(g.TileHeight)*g.PixelSizeY,
		URX: llx + float64(g.TileWidth)*g.PixelSizeX,
		URY: ury,
	}
}

// Raster is a row-major cell array for the whole grid. Exactly one of
// Cells and Floats is set.
type Raster struct {
	Width, Height int
	Cells         []int32
	Floats        []float32
}

// NewRaster returns a raster filled with no-data.
func NewRaster(g Geometry, ct CellType) *Raster {
	r := &Raster{Width: g.Width, Height: g.Height}
	n := g.Width * g.Height
	if ct == FloatCover {
		r.Floats = make([]float32, n)
		for i := range r.Floats {
			r.Floats[i] = tile.FloatNoData
		}
		return r
	}
	r.Cells = make([]int32, n)
	for i := range r.Cells {
		r.Cells[i] = tile.NoData
	}
	return r
}

// Place copies a decoded tile into the raster, clipping cells that fall
// outside it.
func (r *Raster) Place(g Geometry, t *tile.Tile) {
	if t.Index < 0 || t.Index >= g.NumTiles() {
		return
	}
	col0, row0 := g.TileOrigin(t.Index)
	for y := 0; y < g.TileHeight; y++ {
		row := row0 + y
		if row >= r.Height {
			break
		}
		for x := 0; x < g.TileWidth; x++ {
			col := col0 + x
			if col >= r.Width {
				break
			}
			src, dst := y*g.TileWidth+x, row*r.Width+col
			switch {
			case t.Floats != nil && r.Floats != nil:
				r.Floats[dst] = t.Floats[src]
			case t.Cells != nil && r.Cells != nil:
				r.Cells[dst] = t.Cells[src]
			}
		}
	}
}

// At returns the cell at column x, row y as a float64, with no-data mapped
// to NaN.
func (r *Raster) At(x, y int) float64 {
	i := y*r.Width + x
	if r.Floats != nil {
		if v := r.Floats[i]; v != tile.FloatNoData {
			return float64(v)
		}
		return math.NaN()
	}
	if v := r.Cells[i]; v != tile.NoData {
		return float64(v)
	}
	return math.NaN()
}
