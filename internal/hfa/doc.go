// Package hfa walks the entry tree of ERDAS HFA (.img, .aux) files.
//
// An HFA file is a little-endian container of named, typed entries linked
// by absolute file offsets. Each entry has next and prev sibling links, a
// parent link and a first-child link, plus an optional data block whose
// layout is described in the MIF language by the file's dictionary.
//
// [Walker] decodes every reachable entry exactly once into a [Tree], an
// arena keyed by offset, so cyclic links are harmless. Payloads of defined
// types decode to [mif.Record]; others are kept as [Opaque] bytes.
package hfa
