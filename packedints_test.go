package daat

import "testing"

func TestBitsRequired(t *testing.T) {
	cases := []struct {
		v    uint32
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{255, 8},
		{256, 9},
	}
	for _, c := range cases {
		if got := BitsRequired(c.v); got != c.want {
			t.Errorf("BitsRequired(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestPackUnpackLittleInts_RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 7, 5, 0}
	packed := PackLittleInts(values)

	got, err := UnpackLittleInts(packed, len(values))
	if err != nil {
		t.Fatalf("UnpackLittleInts error: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], values[i])
		}
	}
}

func TestPackLittleInts_HeaderEncodesWidthAndVersion(t *testing.T) {
	values := []uint32{0, 1, 255}
	packed := PackLittleInts(values)
	if int(packed[0])+1 != 8 {
		t.Errorf("header width = %d, want 8", int(packed[0])+1)
	}
	if packed[1] != packedIntsFormatVersion {
		t.Errorf("header format version = %d, want %d", packed[1], packedIntsFormatVersion)
	}
}

func TestPackLittleInts_AllZeros(t *testing.T) {
	values := []uint32{0, 0, 0}
	packed := PackLittleInts(values)
	got, err := UnpackLittleInts(packed, len(values))
	if err != nil {
		t.Fatalf("UnpackLittleInts error: %v", err)
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("got[%d] = %d, want 0", i, v)
		}
	}
}

func TestUnpackLittleInts_TruncatedHeader(t *testing.T) {
	_, err := UnpackLittleInts([]byte{1}, 3)
	if err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestUnpackLittleInts_UnsupportedFormatVersion(t *testing.T) {
	packed := PackLittleInts([]uint32{1, 2, 3})
	packed[1] = packedIntsFormatVersion + 1
	_, err := UnpackLittleInts(packed, 3)
	if err == nil {
		t.Fatal("expected error for unsupported format version")
	}
}

func TestUnpackLittleInts_TruncatedPayload(t *testing.T) {
	packed := PackLittleInts([]uint32{200, 200, 200})
	_, err := UnpackLittleInts(packed[:len(packed)-1], 3)
	if err == nil {
		t.Fatal("expected error for truncated payload")
	}
}
