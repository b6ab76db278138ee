// Package framehdr encodes and decodes the compact header that tags audio
// and video sample payloads with codec, rate, channel, and timing metadata.
//
// # Wire Format
//
// Every header begins with a 4-byte big-endian word (bit 31 is the most
// significant):
//
//	[31:26] magic (0x2A)
//	[25:24] sample rate code (0=44100, 1=48000, 2=88200, 3=96000)
//	[23:22] bits per sample code (0=16, 1=24, 2=32)
//	[21]    pts present
//	[20]    id present
//	[19:17] encoding code (0-5)
//	[16]    endianness (0=little, 1=big)
//	[15:12] channel count minus one
//	[11:0]  sample count
//
// When the id bit is set, an 8-byte big-endian stream id follows the word.
// When the pts bit is set, an 8-byte big-endian presentation timestamp
// follows the id, or the word itself when no id is present. An encoded
// header is therefore exactly 4, 12, or 20 bytes, and the payload begins
// immediately after.
//
// # Usage
//
// New and Decode are the only ways to obtain a Header, and every Header
// they return satisfies the field constraints, so Encode cannot emit a
// malformed buffer from one. Readers that only need a single field use the
// Extract functions, which touch just the bytes that field occupies.
// Writers that need to adjust an already-encoded buffer use the Patch
// functions, which rewrite the field in place and leave every other byte
// untouched; on any error the buffer is unmodified.
package framehdr
