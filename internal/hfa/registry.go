package hfa

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/robert-malhotra/go-gisraster/internal/mif"
)

// ErrUnknownType is returned when no definition exists for a type name.
var ErrUnknownType = errors.New("unknown type")

// DefaultDefinitions are the record types needed to walk any HFA file, plus
// the most common payload types.
var DefaultDefinitions = map[string]string{
	"Ehfa_HeaderTag":  `{16:clabel,1:LheaderPtr,}Ehfa_HeaderTag,`,
	"Ehfa_File":       `{1:lversion,1:LfreeList,1:LrootEntryPtr,1:sentryHeaderLength,1:LdictionaryPtr,}Ehfa_File,`,
	"Ehfa_Entry":      `{1:Lnext,1:Lprev,1:Lparent,1:Lchild,1:Ldata,1:ldataSize,64:cname,32:ctype,1:tmodTime,}Ehfa_Entry,`,
	"Eimg_Layer":      `{1:lwidth,1:lheight,1:e3:thematic,athematic,fft of real-valued data,layerType,1:e13:u1,u2,u4,u8,s8,u16,s16,u32,s32,f32,f64,c64,c128,pixelType,1:lblockWidth,1:lblockHeight,}Eimg_Layer,`,
	"Esta_Statistics": `{1:dminimum,1:dmaximum,1:dmean,1:dmedian,1:dmode,1:dstddev,}Esta_Statistics,`,
}

// Registry maps type names to compiled layouts. Configured definitions take
// precedence over those added from a file dictionary. A Registry is not
// safe for concurrent use; its Cache may be shared.
type Registry struct {
	defs      map[string]string
	cache     *mif.Cache
	resolving map[string]bool
}

// NewRegistry returns a registry over DefaultDefinitions overlaid with defs.
// A nil cache gets a private one.
func NewRegistry(defs map[string]string, cache *mif.Cache) *Registry {
	if cache == nil {
		cache = mif.NewCache()
	}
	all := maps.Clone(DefaultDefinitions)
	maps.Copy(all, defs)
	return &Registry{defs: all, cache: cache, resolving: make(map[string]bool)}
}

// AddDictionary adds the definitions of an HFA dictionary string for every
// type not already defined and returns how many were added.
func (r *Registry) AddDictionary(dict string) (int, error) {
	defs, err := mif.SplitDictionary(dict)
	if err != nil {
		return 0, err
	}
	added := 0
	for name, g := range defs {
		if _, ok := r.defs[name]; ok {
			continue
		}
		r.defs[name] = g
		added++
	}
	return added, nil
}

// Has reports whether name has a definition.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Names returns the defined type names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.defs))
}

// Layout returns the compiled layout for name. Inline object fields are
// resolved through the registry; a type that contains itself inline is a
// *mif.BadFormatStringError.
func (r *Registry) Layout(name string) (*mif.Layout, error) {
	text, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	if r.resolving[name] {
		return nil, &mif.BadFormatStringError{TypeName: name, Pos: -1, Reason: "type contains itself"}
	}
	r.resolving[name] = true
	defer delete(r.resolving, name)

	l, err := r.cache.Compile(text, r.Layout)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	return l, nil
}
