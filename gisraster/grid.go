package gisraster

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
	"github.com/robert-malhotra/go-gisraster/internal/grid"
)

// Files of an ArcInfo binary grid coverage.
const (
	GridHeaderFile = "hdr.adf"
	GridBoundsFile = "dblbnd.adf"
	GridStatsFile  = "sta.adf"
	GridIndexFile  = "w001001x.adf"
	GridDataFile   = "w001001.adf"
)

// minExtent keeps degenerate rectangles valid for the R-tree.
const minExtent = 1e-9

// Grid is an open ArcInfo binary grid.
type Grid struct {
	header *grid.Header
	bounds grid.Bounds
	stats  *grid.Stats
	geom   grid.Geometry

	data   Source
	tiles  *grid.TileReader
	rtree  *rtreego.Rtree
	logger *slog.Logger
	closed bool
}

// OpenGrid opens the grid coverage in store. The header, bounds and tile
// index are read up front; tiles are decoded on demand from the data file,
// which stays open until Close. sta.adf is optional.
func OpenGrid(store Store, opts ...Option) (*Grid, error) {
	o := applyOptions(opts)
	g := &Grid{logger: o.logger}

	err := readFile(store, GridHeaderFile, func(r *binary.Reader) (err error) {
		g.header, err = grid.ReadHeader(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = readFile(store, GridBoundsFile, func(r *binary.Reader) (err error) {
		g.bounds, err = grid.ReadBounds(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = readFile(store, GridStatsFile, func(r *binary.Reader) error {
		s, err := grid.ReadStats(r)
		g.stats = &s
		return err
	})
	switch {
	case errors.Is(err, ErrNotFound):
		g.stats = nil
	case err != nil:
		return nil, err
	}

	var index []grid.IndexEntry
	err = readFile(store, GridIndexFile, func(r *binary.Reader) (err error) {
		index, err = grid.ReadIndex(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	if g.geom, err = grid.NewGeometry(g.header, g.bounds); err != nil {
		return nil, fmt.Errorf("%s: %w", GridBoundsFile, err)
	}

	if g.data, err = store.Open(GridDataFile); err != nil {
		return nil, err
	}
	r := binary.NewReader(g.data, binary.BigEndian(g.data.Size()))
	if g.tiles, err = grid.NewTileReader(r, g.header, index, o.fax); err != nil {
		g.data.Close()
		return nil, fmt.Errorf("%s: %w", GridDataFile, err)
	}
	if len(index) != g.geom.NumTiles() {
		g.logger.Warn("tile index does not match raster geometry",
			"indexed", len(index), "positions", g.geom.NumTiles())
	}
	g.buildIndex()

	g.logger.Debug("opened grid",
		"cellType", g.header.CellType,
		"compression", g.header.Compression,
		"width", g.geom.Width,
		"height", g.geom.Height,
		"tiles", g.tiles.Len())
	return g, nil
}

// readFile opens name, hands a big-endian reader over it to fn and closes
// it again.
func readFile(store Store, name string, fn func(*binary.Reader) error) error {
	src, err := store.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()
	if err := fn(binary.NewReader(src, binary.BigEndian(src.Size()))); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Header returns the grid header.
func (g *Grid) Header() *GridHeader {
	return g.header
}

// Bounds returns the georeferenced extent.
func (g *Grid) Bounds() Bounds {
	return g.bounds
}

// Stats returns the raster statistics, or nil when sta.adf is absent.
func (g *Grid) Stats() *Stats {
	return g.stats
}

// Geometry returns the raster and tile dimensions.
func (g *Grid) Geometry() Geometry {
	return g.geom
}

// NumTiles returns the number of tiles in the index.
func (g *Grid) NumTiles() int {
	return g.tiles.Len()
}

// Tile decodes tile n, numbered row-major over the tile grid.
func (g *Grid) Tile(n int) (*Tile, error) {
	if g.closed {
		return nil, ErrClosed
	}
	t, err := g.tiles.Tile(n)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("decoded tile", "tile", n, "offset", t.Offset, "type", t.Type, "absent", t.Absent)
	return t, nil
}

// Tiles yields every tile in index order. Iteration stops after the first
// error.
func (g *Grid) Tiles() iter.Seq2[*Tile, error] {
	return func(yield func(*Tile, error) bool) {
		for n := range g.NumTiles() {
			t, err := g.Tile(n)
			if !yield(t, err) || err != nil {
				return
			}
		}
	}
}

// ReadRaster decodes every tile into one row-major raster clipped to the
// grid bounds. Cells no tile covers are no-data.
func (g *Grid) ReadRaster() (*Raster, error) {
	r := grid.NewRaster(g.geom, g.header.CellType)
	for t, err := range g.Tiles() {
		if err != nil {
			return nil, err
		}
		r.Place(g.geom, t)
	}
	return r, nil
}

// TilesIn returns the numbers of the tiles whose extent intersects b, in
// ascending order.
func (g *Grid) TilesIn(b Bounds) []int {
	var out []int
	for _, s := range g.rtree.SearchIntersect(rect(b)) {
		out = append(out, s.(tileExtent).index)
	}
	slices.Sort(out)
	return out
}

// Close releases the data file. It is safe to call more than once.
func (g *Grid) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	return g.data.Close()
}

// tileExtent is a tile position stored in the R-tree.
type tileExtent struct {
	index  int
	extent grid.Bounds
}

func (t tileExtent) Bounds() rtreego.Rect {
	return rect(t.extent)
}

func (g *Grid) buildIndex() {
	g.rtree = rtreego.NewTree(2, 25, 50)
	n := min(g.tiles.Len(), g.geom.NumTiles())
	for i := range n {
		g.rtree.Insert(tileExtent{index: i, extent: g.geom.TileBounds(i)})
	}
}

func rect(b grid.Bounds) rtreego.Rect {
	w := max(b.URX-b.LLX, minExtent)
	h := max(b.URY-b.LLY, minExtent)
	r, _ := rtreego.NewRect(rtreego.Point{b.LLX, b.LLY}, []float64{w, h})
	return r
}
