package gisraster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is one open file of a dataset.
type Source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// Store opens the files that make up a dataset by name. An ArcInfo grid is
// a directory of .adf files; an HFA image or a BIL raster is one or two
// files next to each other.
type Store interface {
	Open(name string) (Source, error)
}

// DirStore opens files from a directory on disk. Names that do not exist
// as given are retried upper-cased, since ArcInfo coverages copied from
// older systems often use HDR.ADF style names.
type DirStore string

// Open implements Store.
func (d DirStore) Open(name string) (Source, error) {
	f, err := os.Open(filepath.Join(string(d), name))
	if errors.Is(err, fs.ErrNotExist) {
		f, err = os.Open(filepath.Join(string(d), strings.ToUpper(name)))
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", name)
	}
	return &fileSource{File: f, size: info.Size()}, nil
}

type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 { return f.size }

// MemStore serves files from memory, keyed by name.
type MemStore map[string][]byte

// Open implements Store.
func (m MemStore) Open(name string) (Source, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return memSource{bytes.NewReader(data)}, nil
}

type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }
