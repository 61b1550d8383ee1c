package daat

import "testing"

func TestDocLengthStore_AddAndGetLength(t *testing.T) {
	s := NewDocLengthStore()
	s.Add(1, 10)

	length, ok := s.GetLength(1)
	if !ok {
		t.Fatal("GetLength(1) not found")
	}
	if length != 8 {
		t.Errorf("GetLength(1) = %d, want 8 (rounded down to a multiple of %d)", length, LengthQuantum)
	}
}

func TestDocLengthStore_UnknownDocument(t *testing.T) {
	s := NewDocLengthStore()
	_, ok := s.GetLength(999)
	if ok {
		t.Error("GetLength(unknown) = ok, want not found")
	}
}

func TestDocLengthStore_GetAvgLength(t *testing.T) {
	s := NewDocLengthStore()
	s.Add(1, 10)
	s.Add(2, 20)

	avg := s.GetAvgLength()
	if avg != 15 {
		t.Errorf("GetAvgLength() = %f, want 15 (exact, not quantized)", avg)
	}
}

func TestDocLengthStore_GetAvgLength_Empty(t *testing.T) {
	s := NewDocLengthStore()
	if avg := s.GetAvgLength(); avg != 0 {
		t.Errorf("GetAvgLength() = %f, want 0", avg)
	}
}

func TestDocLengthStore_Count(t *testing.T) {
	s := NewDocLengthStore()
	s.Add(1, 5)
	s.Add(2, 5)
	s.Add(3, 5)
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
}

func TestDocLengthStore_QuantizationClampsAt255(t *testing.T) {
	s := NewDocLengthStore()
	s.Add(1, 10_000)
	length, ok := s.GetLength(1)
	if !ok {
		t.Fatal("GetLength(1) not found")
	}
	if length != 255*LengthQuantum {
		t.Errorf("GetLength(1) = %d, want %d (clamped)", length, 255*LengthQuantum)
	}
}
