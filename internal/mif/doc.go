// Package mif compiles and decodes MIF (Mapped Information Field) record
// descriptions, the struct-description language embedded in ERDAS HFA/IMG
// files.
//
// # Grammar
//
// A definition is a brace-delimited list of comma-terminated fields followed
// by the type name:
//
//	{1:lversion,1:LfreeList,1:LrootEntryPtr,1:sentryHeaderLength,1:LdictionaryPtr,}Ehfa_File,
//
// Each field is count:code followed by the field name. Supported forms:
//
//   - scalar: 1:lwidth, with codes 1 2 4 C c S s L l t i f d m M
//   - enumeration: 1:e3:thematic,athematic,fft of real-valued data,layerType,
//   - nested block: {1:lx,1:ly,}origin,
//   - object: 1:oEmif_String,name, (inline) or 0:poEdsc_Column,columns,
//   - pointer: a count of 0, a "*" or a "p" prefix, stored inline as a
//     uint32 element count and a uint32 absolute offset
//   - base data: 0:bdata, always out of line
//
// Enumerations occupy one byte holding the index of the symbolic name.
//
// # Key Types
//
//   - [Layout]: a compiled record with fields and total inline width
//   - [Record]: a decoded instance of a layout
//   - [Cache]: memoizes compilation by grammar text
package mif
