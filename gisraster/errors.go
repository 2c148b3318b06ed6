// Package gisraster reads ESRI ArcInfo binary grids, ERDAS HFA images and
// ESRI BIL rasters.
package gisraster

import (
	"errors"

	"github.com/robert-malhotra/go-gisraster/internal/bil"
	"github.com/robert-malhotra/go-gisraster/internal/binary"
	"github.com/robert-malhotra/go-gisraster/internal/grid"
	"github.com/robert-malhotra/go-gisraster/internal/hfa"
	"github.com/robert-malhotra/go-gisraster/internal/mif"
	"github.com/robert-malhotra/go-gisraster/internal/tile"
)

// Common errors
var (
	ErrClosed   = errors.New("dataset is closed")
	ErrNotFound = errors.New("not found")
	ErrNotHFA   = hfa.ErrNotHFA
	ErrStopWalk = errors.New("walk stopped")

	// ErrUnknownType is returned when an entry type has no definition.
	ErrUnknownType = hfa.ErrUnknownType
)

// Format errors, matched with errors.As.
type (
	TruncatedInputError = binary.TruncatedInputError
	OutOfRangeError     = binary.OutOfRangeError

	BadMagicError               = grid.BadMagicError
	CorruptHeaderError          = grid.CorruptHeaderError
	UnknownCellTypeError        = grid.UnknownCellTypeError
	UnknownCompressionFlagError = grid.UnknownCompressionFlagError
	TrailingDataError           = grid.TrailingDataError
	RasterSizeError             = grid.RasterSizeError

	UnknownTileTypeError  = tile.UnknownTileTypeError
	InvalidMinSizeError   = tile.InvalidMinSizeError
	TileDecodeLengthError = tile.TileDecodeLengthError
	TileSizeMismatchError = tile.TileSizeMismatchError
	RMinRangeError        = tile.RMinRangeError

	BadFormatStringError    = mif.BadFormatStringError
	UnknownEnumValueError   = mif.UnknownEnumValueError
	RecordSizeError         = mif.RecordSizeError
	UnsupportedVersionError = hfa.UnsupportedVersionError

	HeaderError            = bil.HeaderError
	UnsupportedLayoutError = bil.UnsupportedLayoutError
)
