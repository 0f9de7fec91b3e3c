package mlp

// huffmanTables holds the three fixed Huffman code tables used to entropy
// code quotient values (spec.md §4.5). Each row holds (code, length) pairs
// indexed by the raw, uncentered table index 0..17; calculateSignHuff's
// sign_huff_offset (index - 7, scaled) recenters the decoded index around
// zero, matching mlpdec.c's init_vlc/read_huff split.
var huffmanTables = [3][18][2]uint8{
	{ // table 0, -7 - +10
		{0x01, 9}, {0x01, 8}, {0x01, 7}, {0x01, 6}, {0x01, 5}, {0x01, 4}, {0x01, 3},
		{0x04, 3}, {0x05, 3}, {0x06, 3}, {0x07, 3},
		{0x03, 3}, {0x05, 4}, {0x09, 5}, {0x11, 6}, {0x21, 7}, {0x41, 8}, {0x81, 9},
	},
	{ // table 1, -7 - +8
		{0x01, 9}, {0x01, 8}, {0x01, 7}, {0x01, 6}, {0x01, 5}, {0x01, 4}, {0x01, 3},
		{0x02, 2}, {0x03, 2},
		{0x03, 3}, {0x05, 4}, {0x09, 5}, {0x11, 6}, {0x21, 7}, {0x41, 8}, {0x81, 9},
	},
	{ // table 2, -7 - +7
		{0x01, 9}, {0x01, 8}, {0x01, 7}, {0x01, 6}, {0x01, 5}, {0x01, 4}, {0x01, 3},
		{0x01, 1},
		{0x03, 3}, {0x05, 4}, {0x09, 5}, {0x11, 6}, {0x21, 7}, {0x41, 8}, {0x81, 9},
	},
}

// huffmanSymbolCount is the number of valid entries in each row of
// huffmanTables; the remainder of each 18-wide row is unused padding.
var huffmanSymbolCount = [3]int{18, 16, 15}

const vlcBits = 9

// vlcTable is a flattened most-significant-bits-first decode table: looking
// up the next vlcBits bits of the stream in sym/length gives both the
// decoded symbol and the number of bits it actually occupied.
type vlcTable struct {
	sym    [1 << vlcBits]int16
	length [1 << vlcBits]uint8
}

// huffVLC holds the three prebuilt decode tables, one per huffmanTables row.
var huffVLC [3]vlcTable

func init() {
	for t := 0; t < 3; t++ {
		buildVLC(&huffVLC[t], &huffmanTables[t], huffmanSymbolCount[t])
	}
}

// buildVLC expands a canonical (code, length) Huffman table into a flat
// vlcBits-wide lookup: every entry whose top `length` bits match `code` maps
// to that symbol, regardless of the remaining low-order bits.
func buildVLC(table *vlcTable, entries *[18][2]uint8, n int) {
	for i := 0; i < n; i++ {
		code, length := entries[i][0], entries[i][1]
		if length == 0 {
			continue
		}
		fillBits := uint(vlcBits) - uint(length)
		base := uint32(code) << fillBits
		for suffix := uint32(0); suffix < uint32(1)<<fillBits; suffix++ {
			idx := base | suffix
			table.sym[idx] = int16(i)
			table.length[idx] = length
		}
	}
}

// noiseTable is the fixed 256-entry pseudo-random noise lookup used by
// generateNoise2 (spec.md §4.7).
var noiseTable = [256]int8{
	30, 51, 22, 54, 3, 7, -4, 38, 14, 55, 46, 81, 22, 58, -3, 2,
	52, 31, -7, 51, 15, 44, 74, 30, 85, -17, 10, 33, 18, 80, 28, 62,
	10, 32, 23, 69, 72, 26, 35, 17, 73, 60, 8, 56, 2, 6, -2, -5,
	51, 4, 11, 50, 66, 76, 21, 44, 33, 47, 1, 26, 64, 48, 57, 40,
	38, 16, -10, -28, 92, 22, -18, 29, -10, 5, -13, 49, 19, 24, 70, 34,
	61, 48, 30, 14, -6, 25, 58, 33, 42, 60, 67, 17, 54, 17, 22, 30,
	67, 44, -9, 50, -11, 43, 40, 32, 59, 82, 13, 49, -14, 55, 60, 36,
	48, 49, 31, 47, 15, 12, 4, 65, 1, 23, 29, 39, 45, -2, 84, 69,
	0, 72, 37, 57, 27, 41, -15, -16, 35, 31, 14, 61, 24, 0, 27, 24,
	16, 41, 55, 34, 53, 9, 56, 12, 25, 29, 53, 5, 20, -20, -8, 20,
	13, 28, -3, 78, 38, 16, 11, 62, 46, 29, 21, 24, 46, 65, 43, -23,
	89, 18, 74, 21, 38, -12, 19, 12, -19, 8, 15, 33, 4, 57, 9, -8,
	36, 35, 26, 28, 7, 83, 63, 79, 75, 11, 3, 87, 37, 47, 34, 40,
	39, 19, 20, 42, 27, 34, 39, 77, 13, 42, 59, 64, 45, -1, 32, 37,
	45, -5, 53, -6, 7, 36, 50, 23, 6, 32, 9, -21, 18, 71, 27, 52,
	-25, 31, 35, 42, -1, 68, 63, 52, 26, 43, 66, 37, 41, 25, 40, 70,
}
