package bil

import "fmt"

// HeaderError reports a malformed or inconsistent .hdr file. Line is 0 for
// problems not tied to one line.
type HeaderError struct {
	Line   int
	Key    string
	Reason string
}

func (e *HeaderError) Error() string {
	switch {
	case e.Line > 0 && e.Key != "":
		return fmt.Sprintf("bil header line %d: %s: %s", e.Line, e.Key, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("bil header line %d: %s", e.Line, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("bil header: %s: %s", e.Key, e.Reason)
	}
	return "bil header: " + e.Reason
}

// UnsupportedLayoutError reports a valid header this reader cannot decode.
type UnsupportedLayoutError struct {
	Key   string
	Value string
}

func (e *UnsupportedLayoutError) Error() string {
	return fmt.Sprintf("unsupported bil layout: %s %s", e.Key, e.Value)
}
