package bil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// hdrFile is the parse tree of a .hdr file: one "KEY value" pair per line.
type hdrFile struct {
	Lines []*hdrLine `( @@ | EOL )*`
}

type hdrLine struct {
	Pos   lexer.Position
	Key   string `@Word`
	Value string `@Word`
}

var hdrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var hdrParser = participle.MustBuild[hdrFile](
	participle.Lexer(hdrLexer),
	participle.Elide("Comment", "Whitespace"),
)

// Value is a header value: int64 when it parses as an integer, float64
// when it parses as a float, otherwise the raw string.
type Value = any

func parseValue(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Layout is the band interleaving of the pixel file.
type Layout string

const (
	BIL Layout = "BIL" // rows of bands of columns
	BIP Layout = "BIP" // rows of columns of bands
	BSQ Layout = "BSQ" // bands of rows of columns
)

// PixelType is the interpretation of one sample.
type PixelType uint8

const (
	Uint8 PixelType = iota
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Float32
)

var pixelTypeNames = [...]string{"uint8", "int8", "uint16", "int16", "uint32", "int32", "float32"}

func (t PixelType) String() string {
	if int(t) < len(pixelTypeNames) {
		return pixelTypeNames[t]
	}
	return fmt.Sprintf("PixelType(%d)", uint8(t))
}

// Size returns the bytes per sample.
func (t PixelType) Size() int {
	switch t {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	}
	return 4
}

// Header is a parsed .hdr file with ESRI defaults applied.
type Header struct {
	Rows  int
	Cols  int
	Bands int
	Bits  int

	Order     binary.ByteOrder
	Layout    Layout
	PixelType PixelType

	SkipBytes     int64
	BandRowBytes  int64
	TotalRowBytes int64
	BandGapBytes  int64

	NoData    float64
	HasNoData bool

	// Map coordinates of the center of the upper-left pixel, and pixel size.
	ULXMap float64
	ULYMap float64
	XDim   float64
	YDim   float64

	// Props holds every key as written, upper-cased.
	Props map[string]Value
}

// ParseHeader parses and validates a .hdr file.
func ParseHeader(r io.Reader) (*Header, error) {
	tree, err := hdrParser.Parse("", r)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &HeaderError{Line: perr.Position().Line, Reason: perr.Message()}
		}
		return nil, &HeaderError{Reason: err.Error()}
	}

	props := make(map[string]Value, len(tree.Lines))
	for _, l := range tree.Lines {
		key := strings.ToUpper(l.Key)
		if _, dup := props[key]; dup {
			return nil, &HeaderError{Line: l.Pos.Line, Key: key, Reason: "duplicate key"}
		}
		props[key] = parseValue(l.Value)
	}
	return newHeader(props)
}

func newHeader(props map[string]Value) (*Header, error) {
	h := &Header{Props: props, Bands: 1, Bits: 8, Order: binary.LittleEndian, Layout: BIL}
	var err error

	if h.Rows, err = intProp(props, "NROWS", true, 0); err != nil {
		return nil, err
	}
	if h.Cols, err = intProp(props, "NCOLS", true, 0); err != nil {
		return nil, err
	}
	if h.Bands, err = intProp(props, "NBANDS", false, 1); err != nil {
		return nil, err
	}
	if h.Bits, err = intProp(props, "NBITS", false, 8); err != nil {
		return nil, err
	}
	for key, v := range map[string]int{"NROWS": h.Rows, "NCOLS": h.Cols, "NBANDS": h.Bands} {
		if v <= 0 {
			return nil, &HeaderError{Key: key, Reason: fmt.Sprintf("must be positive, got %d", v)}
		}
	}

	if v, ok := props["BYTEORDER"]; ok {
		switch strings.ToUpper(fmt.Sprint(v)) {
		case "I":
			h.Order = binary.LittleEndian
		case "M":
			h.Order = binary.BigEndian
		default:
			return nil, &HeaderError{Key: "BYTEORDER", Reason: fmt.Sprintf("want I or M, got %v", v)}
		}
	}
	if v, ok := props["LAYOUT"]; ok {
		h.Layout = Layout(strings.ToUpper(fmt.Sprint(v)))
	}
	switch h.Layout {
	case BIL, BIP, BSQ:
	default:
		return nil, &UnsupportedLayoutError{Key: "LAYOUT", Value: string(h.Layout)}
	}

	if h.PixelType, err = pixelType(h.Bits, props["PIXELTYPE"]); err != nil {
		return nil, err
	}

	if err := h.sizes(); err != nil {
		return nil, err
	}

	if v, ok := props["NODATA"]; ok {
		if h.NoData, ok = number(v); !ok {
			return nil, &HeaderError{Key: "NODATA", Reason: fmt.Sprintf("not a number: %v", v)}
		}
		h.HasNoData = true
	}
	h.XDim, h.YDim = 1, 1
	h.ULYMap = float64(h.Rows - 1)
	for key, dst := range map[string]*float64{"ULXMAP": &h.ULXMap, "ULYMAP": &h.ULYMap, "XDIM": &h.XDim, "YDIM": &h.YDim} {
		v, ok := props[key]
		if !ok {
			continue
		}
		if *dst, ok = number(v); !ok {
			return nil, &HeaderError{Key: key, Reason: fmt.Sprintf("not a number: %v", v)}
		}
	}
	return h, nil
}

// sizes applies the row-size defaults and checks declared values against
// the pixel geometry. Declared sizes may include padding.
func (h *Header) sizes() error {
	var err error
	if h.SkipBytes, err = int64Prop(h.Props, "SKIPBYTES", 0); err != nil {
		return err
	}
	if h.BandGapBytes, err = int64Prop(h.Props, "BANDGAPBYTES", 0); err != nil {
		return err
	}
	if h.BandGapBytes != 0 {
		return &UnsupportedLayoutError{Key: "BANDGAPBYTES", Value: strconv.FormatInt(h.BandGapBytes, 10)}
	}

	sample := int64(h.PixelType.Size())
	bandRow := int64(h.Cols) * sample
	if h.BandRowBytes, err = int64Prop(h.Props, "BANDROWBYTES", bandRow); err != nil {
		return err
	}
	if h.BandRowBytes < bandRow {
		return &HeaderError{Key: "BANDROWBYTES", Reason: fmt.Sprintf("%d is less than %d columns of %d bytes", h.BandRowBytes, h.Cols, sample)}
	}

	totalRow := int64(h.Bands) * h.BandRowBytes
	if h.Layout == BIP {
		totalRow = int64(h.Cols) * int64(h.Bands) * sample
	}
	if h.TotalRowBytes, err = int64Prop(h.Props, "TOTALROWBYTES", totalRow); err != nil {
		return err
	}
	if h.TotalRowBytes < totalRow {
		return &HeaderError{Key: "TOTALROWBYTES", Reason: fmt.Sprintf("%d is less than the %d bytes a row needs", h.TotalRowBytes, totalRow)}
	}
	if h.SkipBytes < 0 {
		return &HeaderError{Key: "SKIPBYTES", Reason: "negative"}
	}
	return nil
}

func pixelType(bits int, kind Value) (PixelType, error) {
	k := ""
	if kind != nil {
		k = strings.ToUpper(fmt.Sprint(kind))
	}
	switch {
	case k == "FLOAT" && bits == 32:
		return Float32, nil
	case k == "FLOAT":
		return 0, &UnsupportedLayoutError{Key: "PIXELTYPE", Value: fmt.Sprintf("FLOAT with NBITS %d", bits)}
	case k != "" && k != "SIGNEDINT" && k != "UNSIGNEDINT":
		return 0, &UnsupportedLayoutError{Key: "PIXELTYPE", Value: k}
	}
	switch bits {
	case 8:
		if k == "SIGNEDINT" {
			return Int8, nil
		}
		return Uint8, nil
	case 16:
		if k == "UNSIGNEDINT" {
			return Uint16, nil
		}
		return Int16, nil
	case 32:
		if k == "UNSIGNEDINT" {
			return Uint32, nil
		}
		return Int32, nil
	}
	return 0, &UnsupportedLayoutError{Key: "NBITS", Value: strconv.Itoa(bits)}
}

func number(v Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func int64Prop(props map[string]Value, key string, def int64) (int64, error) {
	v, ok := props[key]
	if !ok {
		return def, nil
	}
	i, ok := v.(int64)
	if !ok {
		return 0, &HeaderError{Key: key, Reason: fmt.Sprintf("not an integer: %v", v)}
	}
	return i, nil
}

func intProp(props map[string]Value, key string, required bool, def int) (int, error) {
	if _, ok := props[key]; !ok && required {
		return 0, &HeaderError{Key: key, Reason: "missing"}
	}
	i, err := int64Prop(props, key, int64(def))
	return int(i), err
}
