package gisraster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/robert-malhotra/go-gisraster/internal/grid"
	"github.com/robert-malhotra/go-gisraster/internal/tile"
)

func preamble(fileBytes int) []byte {
	buf := make([]byte, grid.PreambleSize)
	copy(buf, grid.Magics[0])
	binary.BigEndian.PutUint32(buf[24:], uint32(fileBytes/2))
	return buf
}

// constTile is a constant block tile: size prefix 3, tag, 2-byte RMin and
// one body byte, padded to a 16-bit boundary.
func constTile(v int16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint16(3))
	buf.WriteByte(uint8(tile.ConstantBlock))
	buf.WriteByte(2)
	binary.Write(&buf, binary.BigEndian, v)
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

func doubles(vals ...float64) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, vals)
	return buf.Bytes()
}

// gridStore builds a 4x2 cell integer grid of 2x2 tiles over bounds
// (0,0)-(4,2). A nil tile is absent from the data file.
func gridStore(tiles ...[]byte) MemStore {
	hdr := make([]byte, grid.HeaderSize)
	copy(hdr, grid.Literal)
	be := binary.BigEndian
	be.PutUint32(hdr[16:], uint32(grid.IntCover))
	be.PutUint32(hdr[20:], uint32(grid.Compressed))
	be.PutUint64(hdr[256:], math.Float64bits(1))
	be.PutUint64(hdr[264:], math.Float64bits(1))
	be.PutUint32(hdr[288:], 2)
	be.PutUint32(hdr[292:], 1)
	be.PutUint32(hdr[296:], 2)
	be.PutUint32(hdr[304:], 2)

	var data, index bytes.Buffer
	data.Write(preamble(0))
	for _, tl := range tiles {
		if tl == nil {
			binary.Write(&index, be, [2]int32{0, 0})
			continue
		}
		binary.Write(&index, be, [2]int32{int32(data.Len() / 2), int32(be.Uint16(tl))})
		data.Write(tl)
	}
	dataFile := data.Bytes()
	be.PutUint32(dataFile[24:], uint32(len(dataFile)/2))
	indexFile := append(preamble(grid.PreambleSize+index.Len()), index.Bytes()...)

	return MemStore{
		GridHeaderFile: hdr,
		GridBoundsFile: doubles(0, 0, 4, 2),
		GridStatsFile:  doubles(-1, 3, 1, 2),
		GridIndexFile:  indexFile,
		GridDataFile:   dataFile,
	}
}

func openGrid(t *testing.T, store Store) *Grid {
	t.Helper()
	g, err := OpenGrid(store)
	if err != nil {
		t.Fatalf("OpenGrid: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestOpenGrid(t *testing.T) {
	g := openGrid(t, gridStore(constTile(3), constTile(-1)))

	if g.Header().CellType != IntCover {
		t.Errorf("CellType = %v", g.Header().CellType)
	}
	if g.Bounds() != (Bounds{LLX: 0, LLY: 0, URX: 4, URY: 2}) {
		t.Errorf("Bounds = %+v", g.Bounds())
	}
	if s := g.Stats(); s == nil || s.Min != -1 || s.Max != 3 {
		t.Errorf("Stats = %+v", s)
	}
	geom := g.Geometry()
	if geom.Width != 4 || geom.Height != 2 || geom.TilesAcross != 2 || geom.TilesDown != 1 {
		t.Errorf("Geometry = %+v", geom)
	}
	if g.NumTiles() != 2 {
		t.Errorf("NumTiles = %d", g.NumTiles())
	}
}

func TestOpenGridWithoutStats(t *testing.T) {
	store := gridStore(constTile(3), constTile(-1))
	delete(store, GridStatsFile)
	g := openGrid(t, store)
	if g.Stats() != nil {
		t.Errorf("Stats = %+v, want nil", g.Stats())
	}
}

func TestOpenGridErrors(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		store := gridStore(constTile(3), constTile(-1))
		delete(store, GridHeaderFile)
		if _, err := OpenGrid(store); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
	t.Run("bad data magic", func(t *testing.T) {
		store := gridStore(constTile(3), constTile(-1))
		store[GridDataFile][0] = 0xFF
		var bad *BadMagicError
		_, err := OpenGrid(store)
		if !errors.As(err, &bad) {
			t.Fatalf("err = %v, want *BadMagicError", err)
		}
		if !strings.Contains(err.Error(), GridDataFile) {
			t.Errorf("error %q does not name the file", err)
		}
	})
	t.Run("trailing index", func(t *testing.T) {
		store := gridStore(constTile(3), constTile(-1))
		store[GridIndexFile] = append(store[GridIndexFile], 0, 0)
		var trailing *TrailingDataError
		if _, err := OpenGrid(store); !errors.As(err, &trailing) {
			t.Errorf("err = %v, want *TrailingDataError", err)
		}
	})
	t.Run("oversized bounds", func(t *testing.T) {
		store := gridStore(constTile(3), constTile(-1))
		store[GridBoundsFile] = doubles(0, 0, 1e9, 1e9)
		var size *RasterSizeError
		if _, err := OpenGrid(store); !errors.As(err, &size) {
			t.Errorf("err = %v, want *RasterSizeError", err)
		}
	})
	t.Run("unknown cell type", func(t *testing.T) {
		store := gridStore(constTile(3), constTile(-1))
		binary.BigEndian.PutUint32(store[GridHeaderFile][16:], 7)
		var ct *UnknownCellTypeError
		if _, err := OpenGrid(store); !errors.As(err, &ct) {
			t.Errorf("err = %v, want *UnknownCellTypeError", err)
		}
	})
}

func TestGridTiles(t *testing.T) {
	g := openGrid(t, gridStore(constTile(3), nil))

	var got []*Tile
	for tl, err := range g.Tiles() {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, tl)
	}
	if len(got) != 2 {
		t.Fatalf("yielded %d tiles", len(got))
	}
	if got[0].Index != 0 || !slices.Equal(got[0].Cells, []int32{3, 3, 3, 3}) {
		t.Errorf("tile 0 = %+v", got[0])
	}
	if !got[1].Absent || got[1].Cells[0] != NoData {
		t.Errorf("tile 1 = %+v", got[1])
	}
}

func TestGridTilesStopsOnError(t *testing.T) {
	bad := constTile(3)
	bad[2] = 0x42 // unknown type tag
	g := openGrid(t, gridStore(bad, constTile(1)))

	calls := 0
	for _, err := range g.Tiles() {
		calls++
		var unknown *UnknownTileTypeError
		if !errors.As(err, &unknown) {
			t.Errorf("err = %v, want *UnknownTileTypeError", err)
		}
	}
	if calls != 1 {
		t.Errorf("yielded %d times, want 1", calls)
	}
}

func TestGridReadRaster(t *testing.T) {
	g := openGrid(t, gridStore(constTile(3), constTile(-1)))
	r, err := g.ReadRaster()
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{3, 3, -1, -1, 3, 3, -1, -1}
	if !slices.Equal(r.Cells, want) {
		t.Errorf("Cells = %v, want %v", r.Cells, want)
	}
	if r.At(2, 1) != -1 {
		t.Errorf("At(2, 1) = %g", r.At(2, 1))
	}
}

func TestGridTilesIn(t *testing.T) {
	g := openGrid(t, gridStore(constTile(3), constTile(-1)))
	tests := []struct {
		name string
		b    Bounds
		want []int
	}{
		{"left", Bounds{LLX: 0.5, LLY: 0.5, URX: 1.5, URY: 1.5}, []int{0}},
		{"right", Bounds{LLX: 2.5, LLY: 0.5, URX: 3.5, URY: 1.5}, []int{1}},
		{"both", Bounds{LLX: 1.5, LLY: 0.5, URX: 2.5, URY: 1.5}, []int{0, 1}},
		{"point", Bounds{LLX: 3, LLY: 1, URX: 3, URY: 1}, []int{1}},
		{"outside", Bounds{LLX: 10, LLY: 10, URX: 11, URY: 11}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.TilesIn(tt.b); !slices.Equal(got, tt.want) {
				t.Errorf("TilesIn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGridClose(t *testing.T) {
	g, err := OpenGrid(gridStore(constTile(3), constTile(-1)))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := g.Tile(0); !errors.Is(err, ErrClosed) {
		t.Errorf("Tile after Close: %v", err)
	}
}

func TestDirStoreUpperCase(t *testing.T) {
	dir := t.TempDir()
	for name, data := range gridStore(constTile(5), constTile(6)) {
		if err := os.WriteFile(filepath.Join(dir, strings.ToUpper(name)), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	g := openGrid(t, DirStore(dir))
	tl, err := g.Tile(1)
	if err != nil {
		t.Fatal(err)
	}
	if tl.Cells[0] != 6 {
		t.Errorf("cell = %d", tl.Cells[0])
	}

	if _, err := DirStore(dir).Open("missing.adf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := DirStore(dir).Open("sub"); err == nil {
		t.Error("opening a directory succeeded")
	}
}
