package mlp

import "testing"

func TestBitReaderGetBits(t *testing.T) {
	buf := []byte{0b10110100, 0b01011010}
	var br bitReader
	br.initGetBits(buf, 16)

	v, err := br.getBits(4)
	if err != nil || v != 0b1011 {
		t.Fatalf("getBits(4) = %v, %v; want 0b1011, nil", v, err)
	}
	v, err = br.getBits(8)
	if err != nil || v != 0b01000101 {
		t.Fatalf("getBits(8) = %v, %v; want 0b01000101, nil", v, err)
	}
	v, err = br.getBits(4)
	if err != nil || v != 0b1010 {
		t.Fatalf("getBits(4) = %v, %v; want 0b1010, nil", v, err)
	}
	if br.bitsCount() != 16 {
		t.Fatalf("bitsCount() = %d; want 16", br.bitsCount())
	}
}

func TestBitReaderShowBitsLongDoesNotAdvance(t *testing.T) {
	buf := []byte{0xab, 0xcd}
	var br bitReader
	br.initGetBits(buf, 16)

	peeked, err := br.showBitsLong(8)
	if err != nil || peeked != 0xab {
		t.Fatalf("showBitsLong(8) = %v, %v; want 0xab, nil", peeked, err)
	}
	if br.bitsCount() != 0 {
		t.Fatalf("showBitsLong must not advance cursor, bitsCount() = %d", br.bitsCount())
	}

	got, err := br.getBits(8)
	if err != nil || got != peeked {
		t.Fatalf("getBits(8) after peek = %v, %v; want %v, nil", got, err, peeked)
	}
}

func TestBitReaderGetSBitsSignExtends(t *testing.T) {
	// 4-bit field 0b1111 should sign-extend to -1.
	buf := []byte{0xf0}
	var br bitReader
	br.initGetBits(buf, 8)
	v, err := br.getSBits(4)
	if err != nil || v != -1 {
		t.Fatalf("getSBits(4) = %v, %v; want -1, nil", v, err)
	}
}

func TestBitReaderOverrunIsError(t *testing.T) {
	buf := []byte{0xff}
	var br bitReader
	br.initGetBits(buf, 4)
	if _, err := br.getBits(8); err == nil {
		t.Fatal("expected error reading past end of buffer")
	}
}

func TestBitReaderSkipBits(t *testing.T) {
	buf := []byte{0x12, 0x34}
	var br bitReader
	br.initGetBits(buf, 16)
	if err := br.skipBits(8); err != nil {
		t.Fatalf("skipBits(8): %v", err)
	}
	v, err := br.getBits(8)
	if err != nil || v != 0x34 {
		t.Fatalf("getBits(8) after skip = %v, %v; want 0x34, nil", v, err)
	}
}
