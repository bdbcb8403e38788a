package container

import "testing"

func TestMagicRoundTripPlain(t *testing.T) {
	m := Magic{
		Major:            0,
		Minor:            8,
		UncompressedSize: 123456789,
		LZMAProps:        [5]byte{1, 2, 3, 4, 5},
		HasMD5:           true,
		ZPAQLevel:        2,
	}
	buf := m.Encode()
	got, err := DecodeMagic(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestMagicRoundTripEncrypted(t *testing.T) {
	m := Magic{
		Major:     0,
		Minor:     8,
		Salt:      [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
		Encrypted: true,
		HasMD5:    true,
	}
	buf := m.Encode()
	got, err := DecodeMagic(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestDecodeMagicRejectsBadTag(t *testing.T) {
	buf := make([]byte, MagicLen)
	copy(buf, "XXXX")
	if _, err := DecodeMagic(buf); err == nil {
		t.Fatal("expected error for bad magic tag")
	}
}

func TestDecodeMagicRejectsShortBuffer(t *testing.T) {
	if _, err := DecodeMagic(make([]byte, MagicLen-1)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestZPAQLevelByteDoesNotClobberSize(t *testing.T) {
	m := Magic{UncompressedSize: 0xffffffff, ZPAQLevel: 7}
	buf := m.Encode()
	got, err := DecodeMagic(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if got.UncompressedSize != m.UncompressedSize {
		t.Fatalf("size corrupted: got %d, want %d", got.UncompressedSize, m.UncompressedSize)
	}
	if got.ZPAQLevel != 7 {
		t.Fatalf("ZPAQLevel = %d, want 7", got.ZPAQLevel)
	}
}
