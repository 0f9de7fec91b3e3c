package mlp

// MLP's checksums are ordinary table-driven CRC8 variants, but with a fixed
// seed, a final byte XORed in rather than fed through the CRC, and a
// bit-level tail for non-byte-aligned spans (spec.md §6.1): the easiest way
// to reproduce those quirks is a
// direct implementation rather than bending a conventional CRC library to
// fit, which is why this file builds its own crc8 tables instead of using
// mewkiz/pkg/hashutil/crc8 or crc16 (see DESIGN.md).

// crc8Table builds a standard bit-at-a-time CRC8 lookup table for the given
// 8-bit polynomial (top bit implicit, as with AVCRC / av_crc_init(..., 8, poly, ...)).
func crc8Table(poly uint8) (table [256]uint8) {
	for i := 0; i < 256; i++ {
		crc := uint8(i)
		for b := 0; b < 8; b++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

var (
	crc63Table = crc8Table(0x63)
	crc1DTable = crc8Table(0x1D)
)

// crc63At0xa2 is crc63Table[0xa2], the fixed initial value mlp_checksum8
// uses in the original decoder (documented there as "crc_63[0xa2] == 0x3c").
var crc63At0xa2 = crc63Table[0xa2]

func runCRC8(table *[256]uint8, crc uint8, buf []byte) uint8 {
	for _, b := range buf {
		crc = table[crc^b]
	}
	return crc
}

// checksum8 computes the substream trailer checksum (spec.md §6.1): a CRC8
// with polynomial 0x63 over all but the final byte of buf, started from the
// fixed seed crc63At0xa2, then XORed with that final byte.
func checksum8(buf []byte) uint8 {
	if len(buf) == 0 {
		return 0
	}
	crc := runCRC8(&crc63Table, crc63At0xa2, buf[:len(buf)-1])
	return crc ^ buf[len(buf)-1]
}

// restartChecksum computes the restart-header checksum over a non-byte-
// multiple bit span, starting two bits into buf[0] (the two block-header
// flag bits come first, so the restart header and its 14-bit sync word
// start at bit 2).
// bitSize is the number of bits the restart header actually occupied.
func restartChecksum(buf []byte, bitSize int) uint8 {
	numBytes := (bitSize + 2) / 8

	crc := uint32(crc1DTable[buf[0]&0x3f])
	if numBytes > 2 {
		crc = uint32(runCRC8(&crc1DTable, uint8(crc), buf[1:numBytes-1]))
	}
	crc ^= uint32(buf[numBytes-1])

	tailBits := (bitSize + 2) & 7
	for i := 0; i < tailBits; i++ {
		crc <<= 1
		if crc&0x100 != 0 {
			crc ^= 0x11D
		}
		crc ^= uint32(buf[numBytes]>>(7-uint(i))) & 1
	}
	return uint8(crc)
}

// calculateParity XORs together every byte of buf, folded down to 8 bits.
// A correct substream trailer satisfies parity ^ storedParityByte == 0xa9
// (spec.md's Open Questions: this fixed constant is preserved verbatim from
// the reference decoder and not otherwise explained there either).
func calculateParity(buf []byte) uint8 {
	var scratch uint8
	for _, b := range buf {
		scratch ^= b
	}
	return scratch
}
