package daat

import "testing"

func TestEncodeDecode_RoundTrip(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox")
	idx.AddDocument(2, "the lazy dog sleeps")
	idx.AddDocument(3, "quick brown dogs bark loudly")

	data, err := idx.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	decoded := NewInvertedIndex()
	if err := decoded.Decode(data); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if decoded.TotalDocs != idx.TotalDocs {
		t.Errorf("TotalDocs = %d, want %d", decoded.TotalDocs, idx.TotalDocs)
	}
	if decoded.TotalTerms != idx.TotalTerms {
		t.Errorf("TotalTerms = %d, want %d", decoded.TotalTerms, idx.TotalTerms)
	}
	if decoded.BM25Params != idx.BM25Params {
		t.Errorf("BM25Params = %+v, want %+v", decoded.BM25Params, idx.BM25Params)
	}

	for docID, wantBody := range idx.Docs {
		gotBody, err := decoded.GetDocument(docID)
		if err != nil {
			t.Errorf("GetDocument(%d) error: %v", docID, err)
		}
		if gotBody != wantBody {
			t.Errorf("GetDocument(%d) = %q, want %q", docID, gotBody, wantBody)
		}
	}

	for docID := range idx.DocStats {
		wantLen, _ := idx.GetDocLength(docID)
		gotLen, ok := decoded.GetDocLength(docID)
		if !ok {
			t.Errorf("GetDocLength(%d) not found after decode", docID)
		}
		if gotLen != wantLen {
			t.Errorf("GetDocLength(%d) = %d, want %d", docID, gotLen, wantLen)
		}
	}

	if decoded.Lengths.GetAvgLength() != idx.Lengths.GetAvgLength() {
		t.Errorf("GetAvgLength() = %f, want %f", decoded.Lengths.GetAvgLength(), idx.Lengths.GetAvgLength())
	}

	wantScore := idx.BM25Score(1, []string{"quick", "fox"})
	gotScore := decoded.BM25Score(1, []string{"quick", "fox"})
	if gotScore != wantScore {
		t.Errorf("BM25Score after decode = %f, want %f", gotScore, wantScore)
	}

	matches := decoded.Search(Query{Terms: []string{"quick", "brown"}}, 10)
	if len(matches) != 2 {
		t.Fatalf("Search after decode got %d matches, want 2", len(matches))
	}

	phraseMatch := decoded.NextPhrase("quick brown", BOFDocument)
	if phraseMatch[0].IsEnd() {
		t.Error("NextPhrase after decode found no match, want a match in doc 1 or 3")
	}
}

func TestEncodeDecode_EmptyIndex(t *testing.T) {
	idx := NewInvertedIndex()

	data, err := idx.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	decoded := NewInvertedIndex()
	if err := decoded.Decode(data); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if decoded.TotalDocs != 0 {
		t.Errorf("TotalDocs = %d, want 0", decoded.TotalDocs)
	}
}

func TestEncodeDecode_BitmapsPreserveTermCounts(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")
	idx.AddDocument(2, "quick brown dog")
	idx.AddDocument(3, "slow brown fox")

	data, err := idx.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	decoded := NewInvertedIndex()
	if err := decoded.Decode(data); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if decoded.TermCount("brown") != idx.TermCount("brown") {
		t.Errorf("TermCount(brown) = %d, want %d", decoded.TermCount("brown"), idx.TermCount("brown"))
	}
	if decoded.TermCount("fox") != 2 {
		t.Errorf("TermCount(fox) = %d, want 2", decoded.TermCount("fox"))
	}
}

func TestEncodeDecode_BloomRebuiltNotPersisted(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")

	data, err := idx.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	decoded := NewInvertedIndex()
	if err := decoded.Decode(data); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if decoded.bloom == nil {
		t.Error("expected Decode to rebuild a fresh bloom sidecar, got nil")
	}
	if got := decoded.HasNextTerm("quick", "brown", 1); got != BloomUnknown {
		t.Errorf("HasNextTerm after decode (no re-indexing) = %v, want BloomUnknown", got)
	}
}
