// Package tile decodes ArcInfo Binary Grid tiles.
//
// Each tile in w001001.adf is a 16-bit size prefix followed by a record
// whose encoding is chosen by a one-byte type tag. Compressed integer tiles
// carry a baseline value, RMin, that is added to every decoded cell. Every
// decoder yields exactly Width*Height cells; a body that runs out early or
// describes too many cells is a [TileDecodeLengthError].
//
// CCITT RLE tiles are delegated to a [FaxDecoder]. The default,
// [CCITTDecoder], reads Modified Huffman rows without EOL codes.
package tile
