package gisraster

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robert-malhotra/go-gisraster/internal/bil"
	binpkg "github.com/robert-malhotra/go-gisraster/internal/binary"
)

// BIL types.
type (
	BILHeader = bil.Header
	BILRaster = bil.Raster
)

// OpenBIL reads the band-interleaved raster base+".hdr" and its pixel
// file. The pixel file is base+".bil", or base+".bip" / base+".bsq" when
// one exists to match the header's LAYOUT.
func OpenBIL(store Store, base string, opts ...Option) (*BILRaster, error) {
	o := applyOptions(opts)

	hdrName := base + ".hdr"
	src, err := store.Open(hdrName)
	if err != nil {
		return nil, err
	}
	h, err := bil.ParseHeader(io.NewSectionReader(src, 0, src.Size()))
	src.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", hdrName, err)
	}

	src, name, err := openPixels(store, base, h.Layout)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r := binpkg.NewReader(src, binpkg.Config{ByteOrder: h.Order, Size: src.Size()})
	raster, err := bil.Read(r, h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	o.logger.Debug("opened bil", "file", name,
		"rows", h.Rows, "cols", h.Cols, "bands", h.Bands,
		"pixelType", h.PixelType, "layout", h.Layout)
	return raster, nil
}

func openPixels(store Store, base string, layout bil.Layout) (Source, string, error) {
	names := []string{base + ".bil"}
	if layout != bil.BIL {
		names = append([]string{base + "." + strings.ToLower(string(layout))}, names...)
	}
	var err error
	for _, name := range names {
		var src Source
		if src, err = store.Open(name); err == nil {
			return src, name, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, name, err
		}
	}
	return nil, "", err
}
