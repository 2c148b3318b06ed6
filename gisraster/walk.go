package gisraster

import "errors"

// WalkFunc is called for each entry during traversal.
// path is the slash-separated path of entry names, "/" for the root.
// Return nil to continue, ErrStopWalk to stop quietly, or any other error
// to stop and return it.
type WalkFunc func(path string, e *Entry) error

// Walk visits the entry tree depth first, parents before children and
// children in sibling order. Each entry is visited once even when links
// form a cycle.
//
// Example:
//
//	img.Walk(func(path string, e *gisraster.Entry) error {
//	    fmt.Println(path, e.Type)
//	    return nil
//	})
func (img *Image) Walk(fn WalkFunc) error {
	if img.closed {
		return ErrClosed
	}
	seen := make(map[uint32]bool, img.Len())
	err := img.walkEntry("/", img.Root(), seen, fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func (img *Image) walkEntry(path string, e *Entry, seen map[uint32]bool, fn WalkFunc) error {
	seen[e.Offset] = true
	if err := fn(path, e); err != nil {
		return err
	}
	for _, c := range img.Children(e) {
		if seen[c.Offset] {
			continue
		}
		if err := img.walkEntry(JoinPath(path, c.Name), c, seen, fn); err != nil {
			return err
		}
	}
	return nil
}
