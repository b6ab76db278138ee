package corpus

import "github.com/avpack/framehdr"

// The mutations below damage an encoded header at the byte level, one
// failure mode per vector. Offsets follow the big-endian header word:
// byte 0 carries the magic in its top six bits, byte 1 carries the bit
// depth code in its top two bits and the encoding code in bits 3..1.
type mutation struct {
	name   string
	expect Expect
	apply  func(data []byte) []byte
}

var mutations = []mutation{
	{
		name:   "magic_cleared",
		expect: ExpectMagic,
		apply: func(data []byte) []byte {
			data[0] &^= 0xFC
			return data
		},
	},
	{
		name:   "magic_plus_one",
		expect: ExpectMagic,
		apply: func(data []byte) []byte {
			data[0] = data[0]&0x03 | 0xAC
			return data
		},
	},
	{
		name:   "magic_shifted",
		expect: ExpectMagic,
		apply: func(data []byte) []byte {
			data[0] = data[0]&0x03 | 0x54
			return data
		},
	},
	{
		name:   "bits_code_reserved",
		expect: ExpectCode,
		apply: func(data []byte) []byte {
			data[1] |= 0xC0
			return data
		},
	},
	{
		name:   "encoding_code_six",
		expect: ExpectCode,
		apply: func(data []byte) []byte {
			data[1] = data[1]&^0x0E | 0x0C
			return data
		},
	},
	{
		name:   "encoding_code_seven",
		expect: ExpectCode,
		apply: func(data []byte) []byte {
			data[1] |= 0x0E
			return data
		},
	},
	{
		name:   "word_truncated",
		expect: ExpectShort,
		apply: func(data []byte) []byte {
			return data[:3]
		},
	},
	{
		name:   "empty",
		expect: ExpectShort,
		apply: func(data []byte) []byte {
			return data[:0]
		},
	},
	{
		name:   "trailing_byte",
		expect: ExpectLength,
		apply: func(data []byte) []byte {
			return append(data, 0x00)
		},
	},
}

// mutate derives the malformed vectors for one base from its encoded
// bytes. Bases that carry optional fields additionally get a vector
// with the last trailing byte cut off.
func mutate(base string, enc []byte) []Vector {
	out := make([]Vector, 0, len(mutations)+1)
	for _, m := range mutations {
		data := m.apply(append([]byte(nil), enc...))
		out = append(out, newVector(base+"_"+m.name, m.expect, data))
	}
	if len(enc) > framehdr.WordSize {
		data := append([]byte(nil), enc[:len(enc)-1]...)
		out = append(out, newVector(base+"_fields_truncated", ExpectShort, data))
	}
	return out
}
