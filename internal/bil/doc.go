// Package bil reads ESRI band-interleaved rasters: a plain-text .hdr file of
// KEY value lines describing an uncompressed pixel file.
//
// BIL, BIP and BSQ interleaving are supported at 8, 16 and 32 bits per
// sample. The header parser follows the ESRI defaults for omitted keys.
package bil
