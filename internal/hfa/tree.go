package hfa

import (
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
	"github.com/robert-malhotra/go-gisraster/internal/mif"
)

// Opaque is the raw payload of an entry whose type has no definition.
type Opaque []byte

// Entry is one node of the HFA tree. Links are absolute file offsets
// resolved through the owning Tree; 0 means none.
type Entry struct {
	Offset     uint32
	Name       string
	Type       string
	Next       uint32
	Prev       uint32
	Parent     uint32
	Child      uint32
	DataOffset uint32
	DataSize   int32
	ModTime    uint32

	// Payload is nil when DataOffset is 0, a mif.Record for a defined type,
	// or Opaque bytes otherwise.
	Payload any
}

// Tree is an arena of entries keyed by file offset.
type Tree struct {
	RootOffset uint32
	entries    []Entry
	index      map[uint32]int
}

// Len returns the number of distinct entries.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Root returns the root entry.
func (t *Tree) Root() *Entry {
	e, _ := t.Entry(t.RootOffset)
	return e
}

// Entry returns the entry at a file offset.
func (t *Tree) Entry(offset uint32) (*Entry, bool) {
	i, ok := t.index[offset]
	if !ok {
		return nil, false
	}
	return &t.entries[i], true
}

// Entries returns every entry in discovery order.
func (t *Tree) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	for i := range t.entries {
		out[i] = &t.entries[i]
	}
	return out
}

// Parent returns e's parent, or nil for the root.
func (t *Tree) Parent(e *Entry) *Entry {
	if e.Parent == 0 {
		return nil
	}
	p, _ := t.Entry(e.Parent)
	return p
}

// Children returns e's children: its child and that child's chain of next
// siblings, stopping at the first repeated offset.
func (t *Tree) Children(e *Entry) []*Entry {
	var out []*Entry
	seen := make(map[uint32]bool)
	for off := e.Child; off != 0 && !seen[off]; {
		seen[off] = true
		c, ok := t.Entry(off)
		if !ok {
			break
		}
		out = append(out, c)
		off = c.Next
	}
	return out
}

type slotKind uint8

const (
	slotChild slotKind = iota
	slotNext
	slotPrev
)

// slot is a pending link: the entry at dest refers to target through kind.
type slot struct {
	dest   uint32 // 0 for the synthetic holder of the root
	kind   slotKind
	target uint32
}

// Walker materializes the entry graph of one file.
type Walker struct {
	r      *binary.Reader
	reg    *Registry
	entry  *mif.Layout
	logger *slog.Logger
}

// NewWalker compiles the Ehfa_Entry layout from reg.
func NewWalker(r *binary.Reader, reg *Registry, logger *slog.Logger) (*Walker, error) {
	entry, err := reg.Layout("Ehfa_Entry")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Walker{r: r, reg: reg, entry: entry, logger: logger}, nil
}

// Walk traverses the graph breadth-first from root. Every offset is decoded
// at most once, so cyclic next/prev/child links terminate.
func (w *Walker) Walk(root uint32) (*Tree, error) {
	if root == 0 {
		return nil, fmt.Errorf("root entry pointer is zero")
	}
	t := &Tree{RootOffset: root, index: make(map[uint32]int)}
	queue := []slot{{dest: 0, kind: slotChild, target: root}}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		i, seen := t.index[s.target]
		if !seen {
			e, err := w.readEntry(s.target)
			if err != nil {
				return nil, err
			}
			// Inherit the parent of the referring sibling; a child link
			// below overrides it.
			if s.dest != 0 && s.kind != slotChild {
				if d, ok := t.Entry(s.dest); ok {
					e.Parent = d.Parent
				}
			}
			i = len(t.entries)
			t.entries = append(t.entries, e)
			t.index[s.target] = i

			for _, next := range []slot{
				{dest: s.target, kind: slotNext, target: e.Next},
				{dest: s.target, kind: slotPrev, target: e.Prev},
				{dest: s.target, kind: slotChild, target: e.Child},
			} {
				if next.target != 0 {
					queue = append(queue, next)
				}
			}
		}
		if s.kind == slotChild {
			t.entries[i].Parent = s.dest
		}
	}
	t.entries[t.index[root]].Parent = 0

	w.logger.Debug("walked entry tree", "root", root, "entries", len(t.entries))
	return t, nil
}

// readEntry decodes the entry header at offset and its payload.
func (w *Walker) readEntry(offset uint32) (Entry, error) {
	rec, err := w.entry.Decode(w.r.At(int64(offset)), nil)
	if err != nil {
		return Entry{}, fmt.Errorf("entry at %d: %w", offset, err)
	}
	e := Entry{
		Offset:     offset,
		Next:       uint32(field(rec, "next")),
		Prev:       uint32(field(rec, "prev")),
		Child:      uint32(field(rec, "child")),
		DataOffset: uint32(field(rec, "data")),
		DataSize:   int32(field(rec, "dataSize")),
		ModTime:    uint32(field(rec, "modTime")),
	}
	e.Name, _ = rec.String("name")
	e.Type, _ = rec.String("type")

	if e.Payload, err = w.readPayload(&e); err != nil {
		return Entry{}, fmt.Errorf("entry %q (%s) at %d: %w", e.Name, e.Type, offset, err)
	}
	return e, nil
}

func (w *Walker) readPayload(e *Entry) (any, error) {
	if e.DataOffset == 0 {
		return nil, nil
	}
	if e.DataSize < 0 {
		return nil, fmt.Errorf("negative data size %d", e.DataSize)
	}
	c := w.r.At(int64(e.DataOffset))
	if !w.reg.Has(e.Type) {
		raw, err := c.ReadBytes(int(e.DataSize))
		if err != nil {
			return nil, err
		}
		return Opaque(raw), nil
	}
	l, err := w.reg.Layout(e.Type)
	if err != nil {
		return nil, err
	}
	return l.DecodeSized(c, int(e.DataSize), w.reg.Layout)
}
