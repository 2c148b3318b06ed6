package tile

import "fmt"

// Type is the one-byte tag selecting a tile's encoding.
type Type uint8

// Tile types.
const (
	ConstantBlock   Type = 0x00 // every cell is RMin
	Raw1Bit         Type = 0x01
	Raw4Bit         Type = 0x04 // high nibble first
	Raw8Bit         Type = 0x08
	Raw16Bit        Type = 0x10
	Raw32Bit        Type = 0x20
	Literal16Runs   Type = 0xCF // 16-bit literal runs and no-data runs
	Literal8Runs    Type = 0xD7 // 8-bit literal runs and no-data runs
	RMinRuns        Type = 0xDF // RMin runs and no-data runs
	RunLength32     Type = 0xE0
	RunLength16     Type = 0xF0
	RunLength8      Type = 0xF8
	RunLength8Small Type = 0xFC
	CCITTRLE        Type = 0xFF // 1-bit CCITT RLE plus RMin
)

var typeNames = map[Type]string{
	ConstantBlock:   "constant",
	Raw1Bit:         "raw1",
	Raw4Bit:         "raw4",
	Raw8Bit:         "raw8",
	Raw16Bit:        "raw16",
	Raw32Bit:        "raw32",
	Literal16Runs:   "literal16",
	Literal8Runs:    "literal8",
	RMinRuns:        "rmin-runs",
	RunLength32:     "rle32",
	RunLength16:     "rle16",
	RunLength8:      "rle8",
	RunLength8Small: "rle8-small",
	CCITTRLE:        "ccitt",
}

// ParseType converts a raw tag to a Type.
func ParseType(tag uint8) (Type, error) {
	t := Type(tag)
	if _, ok := typeNames[t]; !ok {
		return 0, &UnknownTileTypeError{Tag: tag, Offset: -1}
	}
	return t, nil
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(0x%02X)", uint8(t))
}
