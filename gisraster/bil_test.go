package gisraster

import (
	"errors"
	"testing"
)

func TestOpenBIL(t *testing.T) {
	store := MemStore{
		"dem.hdr": []byte("BYTEORDER I\nNROWS 2\nNCOLS 3\nNBITS 16\nNODATA -9999\n"),
		"dem.bil": {1, 0, 2, 0, 3, 0, 0xF1, 0xD8, 5, 0, 6, 0},
	}
	r, err := OpenBIL(store, "dem")
	if err != nil {
		t.Fatal(err)
	}
	if r.At(0, 2, 0) != 3 || r.At(1, 0, 0) != -9999 {
		t.Errorf("samples = %v", r.Band(0))
	}
	if !r.IsNoData(r.At(1, 0, 0)) {
		t.Error("nodata not detected")
	}
}

func TestOpenBILLayoutExtension(t *testing.T) {
	store := MemStore{
		"rgb.hdr": []byte("NROWS 1\nNCOLS 2\nNBANDS 2\nLAYOUT BSQ\n"),
		"rgb.bsq": {1, 2, 3, 4},
	}
	r, err := OpenBIL(store, "rgb")
	if err != nil {
		t.Fatal(err)
	}
	if r.At(0, 1, 0) != 2 || r.At(0, 0, 1) != 3 {
		t.Errorf("pixels = %v %v", r.Pixel(0, 0), r.Pixel(0, 1))
	}
}

func TestOpenBILErrors(t *testing.T) {
	if _, err := OpenBIL(MemStore{"x.bil": {0}}, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing header: %v", err)
	}
	if _, err := OpenBIL(MemStore{"x.hdr": []byte("NROWS 1\nNCOLS 1\n")}, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing pixels: %v", err)
	}

	var he *HeaderError
	if _, err := OpenBIL(MemStore{"x.hdr": []byte("NCOLS 1\n"), "x.bil": {0}}, "x"); !errors.As(err, &he) {
		t.Errorf("bad header: %v", err)
	}

	var trunc *TruncatedInputError
	store := MemStore{"x.hdr": []byte("NROWS 2\nNCOLS 2\n"), "x.bil": {1, 2, 3}}
	if _, err := OpenBIL(store, "x"); !errors.As(err, &trunc) {
		t.Errorf("short pixels: %v", err)
	}
}
