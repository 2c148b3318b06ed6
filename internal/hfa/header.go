package hfa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-gisraster/internal/binary"
	"github.com/robert-malhotra/go-gisraster/internal/mif"
)

/*
File Start Layout (little-endian):
Offset  Size  Description
0       16    Label "EHFA_HEADER_TAG", NUL padded
16      4     Header pointer

Header (at header pointer):
0       4     Version, must be 1
4       4     Free list pointer
8       4     Root entry pointer
12      2     Entry header length
14      4     Dictionary pointer
*/

// Label is the signature at the start of every HFA file.
const Label = "EHFA_HEADER_TAG"

// ErrNotHFA is returned when a file does not start with Label.
var ErrNotHFA = errors.New("not an HFA file: label not found")

// UnsupportedVersionError reports an Ehfa_File version other than 1.
type UnsupportedVersionError struct {
	Version int64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported HFA version %d", e.Version)
}

// FileHeader combines the label record and the file header it points to.
type FileHeader struct {
	Label             string
	HeaderPtr         uint32
	Version           int32
	FreeList          uint32
	RootEntryPtr      uint32
	EntryHeaderLength int16
	DictionaryPtr     uint32
}

// ReadFileHeader decodes the label and file header records.
func ReadFileHeader(r *binary.Reader, reg *Registry) (*FileHeader, error) {
	tag, err := decodeNamed(r.At(0), reg, "Ehfa_HeaderTag")
	if err != nil {
		return nil, err
	}
	h := &FileHeader{}
	h.Label, _ = tag.String("label")
	if !strings.HasPrefix(h.Label, Label) {
		return nil, ErrNotHFA
	}
	h.HeaderPtr = uint32(field(tag, "headerPtr"))

	file, err := decodeNamed(r.At(int64(h.HeaderPtr)), reg, "Ehfa_File")
	if err != nil {
		return nil, fmt.Errorf("file header at %d: %w", h.HeaderPtr, err)
	}
	if v := field(file, "version"); v != 1 {
		return nil, &UnsupportedVersionError{Version: v}
	}
	h.Version = 1
	h.FreeList = uint32(field(file, "freeList"))
	h.RootEntryPtr = uint32(field(file, "rootEntryPtr"))
	h.EntryHeaderLength = int16(field(file, "entryHeaderLength"))
	h.DictionaryPtr = uint32(field(file, "dictionaryPtr"))
	return h, nil
}

// ReadDictionary reads the NUL-terminated dictionary string at ptr.
func ReadDictionary(r *binary.Reader, ptr uint32) (string, error) {
	c := r.At(int64(ptr))
	var b strings.Builder
	const chunk = 4096
	for {
		n := int(min(c.Remaining(), chunk))
		if n == 0 {
			return "", &binary.TruncatedInputError{Offset: c.Pos(), Want: 1, Have: 0}
		}
		buf, err := c.ReadBytes(n)
		if err != nil {
			return "", err
		}
		if i := strings.IndexByte(string(buf), 0); i >= 0 {
			b.Write(buf[:i])
			return b.String(), nil
		}
		b.Write(buf)
	}
}

func decodeNamed(r *binary.Reader, reg *Registry, name string) (mif.Record, error) {
	l, err := reg.Layout(name)
	if err != nil {
		return mif.Record{}, err
	}
	return l.Decode(r, reg.Layout)
}

// field returns an integer field of a fixed-layout record, 0 if absent.
func field(rec mif.Record, name string) int64 {
	v, _ := rec.Int(name)
	return v
}
