package gisraster

import (
	"fmt"
	"log/slog"

	binpkg "github.com/robert-malhotra/go-gisraster/internal/binary"
	"github.com/robert-malhotra/go-gisraster/internal/hfa"
)

// Image is the decoded entry tree of an ERDAS HFA file (.img or .aux).
type Image struct {
	name       string
	header     *hfa.FileHeader
	tree       *hfa.Tree
	reg        *hfa.Registry
	dictionary string
	logger     *slog.Logger
	closed     bool
}

// OpenImage reads the HFA file name from store and decodes its entire
// entry tree. The file is not held open afterwards.
func OpenImage(store Store, name string, opts ...Option) (*Image, error) {
	o := applyOptions(opts)
	src, err := store.Open(name)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r := binpkg.NewReader(src, binpkg.LittleEndian(src.Size()))
	img := &Image{
		name:   name,
		reg:    hfa.NewRegistry(o.definitions, o.cache),
		logger: o.logger.With("file", name),
	}

	if img.header, err = hfa.ReadFileHeader(r, img.reg); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := img.loadDictionary(r, o.fileDictionary); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	w, err := hfa.NewWalker(r, img.reg, img.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if img.tree, err = w.Walk(img.header.RootEntryPtr); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	img.logger.Debug("opened image", "entries", img.tree.Len(), "types", len(img.reg.Names()))
	return img, nil
}

// loadDictionary reads the file's type dictionary. Its definitions join
// the registry only when requested; otherwise a bad dictionary is logged
// and ignored.
func (img *Image) loadDictionary(r *binpkg.Reader, use bool) error {
	if img.header.DictionaryPtr == 0 {
		return nil
	}
	dict, err := hfa.ReadDictionary(r, img.header.DictionaryPtr)
	if err != nil {
		if use {
			return fmt.Errorf("dictionary: %w", err)
		}
		img.logger.Warn("unreadable dictionary", "offset", img.header.DictionaryPtr, "error", err)
		return nil
	}
	img.dictionary = dict
	if !use {
		return nil
	}
	added, err := img.reg.AddDictionary(dict)
	if err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}
	img.logger.Debug("loaded dictionary", "types", added)
	return nil
}

// Close releases the entry tree. Methods returning an error fail with
// ErrClosed afterwards; the other accessors report an empty tree. It is
// safe to call more than once.
func (img *Image) Close() error {
	img.closed = true
	img.tree = nil
	return nil
}

// Name returns the file name the image was opened from.
func (img *Image) Name() string {
	return img.name
}

// Header returns the file header.
func (img *Image) Header() *FileHeader {
	return img.header
}

// Dictionary returns the file's raw type dictionary, empty if it has none.
func (img *Image) Dictionary() string {
	return img.dictionary
}

// Layout returns the compiled layout used for a type name.
func (img *Image) Layout(typeName string) (*Layout, error) {
	if img.closed {
		return nil, ErrClosed
	}
	return img.reg.Layout(typeName)
}

// Len returns the number of entries in the tree.
func (img *Image) Len() int {
	if img.closed {
		return 0
	}
	return img.tree.Len()
}

// Root returns the root entry.
func (img *Image) Root() *Entry {
	if img.closed {
		return nil
	}
	return img.tree.Root()
}

// Entry returns the entry at a file offset.
func (img *Image) Entry(offset uint32) (*Entry, bool) {
	if img.closed {
		return nil, false
	}
	return img.tree.Entry(offset)
}

// Entries returns every entry in the order it was found.
func (img *Image) Entries() []*Entry {
	if img.closed {
		return nil
	}
	return img.tree.Entries()
}

// Children returns the children of e in sibling order.
func (img *Image) Children(e *Entry) []*Entry {
	if img.closed {
		return nil
	}
	return img.tree.Children(e)
}

// Parent returns the parent of e, or nil for the root.
func (img *Image) Parent(e *Entry) *Entry {
	if img.closed {
		return nil
	}
	return img.tree.Parent(e)
}

// Lookup finds an entry by a slash-separated path of entry names below
// the root, such as "Layer_1/Statistics". "/" and "" name the root.
func (img *Image) Lookup(path string) (*Entry, error) {
	if img.closed {
		return nil, ErrClosed
	}
	e := img.Root()
	for _, name := range SplitPath(path) {
		var next *Entry
		for _, c := range img.Children(e) {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%s: %w", CleanPath(path), ErrNotFound)
		}
		e = next
	}
	return e, nil
}

// Layers returns the raster layer entries (type Eimg_Layer).
func (img *Image) Layers() []*Entry {
	var out []*Entry
	for _, e := range img.Entries() {
		if e.Type == "Eimg_Layer" {
			out = append(out, e)
		}
	}
	return out
}
