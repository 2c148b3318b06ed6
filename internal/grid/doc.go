// Package grid reads the fixed-layout files of an ArcInfo Binary Grid
// coverage directory.
//
// A coverage holds:
//
//   - hdr.adf: cell type, compression flag, pixel size and tile shape
//   - dblbnd.adf: the georeferenced bounds
//   - sta.adf: optional min, max, mean and standard deviation
//   - w001001x.adf: the tile index
//   - w001001.adf: the tile data
//
// All multi-byte values are big-endian. The index and data files share a
// 100-byte preamble whose reserved regions must be zero; that is the only
// integrity check the format offers.
package grid
