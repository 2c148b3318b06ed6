package gisraster

import (
	"io"

	"github.com/robert-malhotra/go-gisraster/internal/grid"
	"github.com/robert-malhotra/go-gisraster/internal/hfa"
	"github.com/robert-malhotra/go-gisraster/internal/mif"
	"github.com/robert-malhotra/go-gisraster/internal/tile"
)

// Grid types.
type (
	GridHeader  = grid.Header
	Bounds      = grid.Bounds
	Stats       = grid.Stats
	Geometry    = grid.Geometry
	Raster      = grid.Raster
	CellType    = grid.CellType
	Compression = grid.Compression
	Tile        = tile.Tile
	TileType    = tile.Type
	FaxDecoder  = tile.FaxDecoder
)

const (
	IntCover   = grid.IntCover
	FloatCover = grid.FloatCover

	// NoData and FloatNoData mark cells outside the coverage.
	NoData      = tile.NoData
	FloatNoData = tile.FloatNoData
)

// Image types.
type (
	Entry      = hfa.Entry
	Opaque     = hfa.Opaque
	FileHeader = hfa.FileHeader
	Record     = mif.Record
	NamedValue = mif.NamedValue
	Enum       = mif.Enum
	BaseData   = mif.BaseData
	Layout     = mif.Layout
	Cache      = mif.Cache
)

// NewCache returns an empty compiled layout cache for WithCompileCache.
func NewCache() *Cache {
	return mif.NewCache()
}

// LoadDefinitions reads a JSON object mapping type names to MIF
// definitions, for WithDefinitions.
func LoadDefinitions(r io.Reader) (map[string]string, error) {
	return mif.LoadDefinitions(r)
}

// CompileLayout compiles a single MIF definition. Object fields resolve
// against defs.
func CompileLayout(text string, defs map[string]string) (*Layout, error) {
	reg := hfa.NewRegistry(defs, nil)
	return mif.Compile(text, reg.Layout)
}
