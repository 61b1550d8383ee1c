package daat

import "testing"

func TestNextCover_TwoTerms(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox jumps")

	cover := idx.NextCover([]string{"quick", "fox"}, BOFDocument)
	if cover[0].IsEnd() {
		t.Fatal("expected a cover, got EOF")
	}
	if cover[0].GetDocumentID() != 1 || cover[1].GetDocumentID() != 1 {
		t.Errorf("cover = %v, want both positions in document 1", cover)
	}
}

func TestNextCover_NoMatchAcrossDocuments(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown")
	idx.AddDocument(2, "fox jumps")

	cover := idx.NextCover([]string{"quick", "fox"}, BOFDocument)
	if !cover[0].IsEnd() {
		t.Errorf("expected no cover spanning documents, got %v", cover)
	}
}

func TestNextCover_AnyOrder(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "fox and quick and brown")

	cover := idx.NextCover([]string{"quick", "fox"}, BOFDocument)
	if cover[0].IsEnd() {
		t.Fatal("expected a cover regardless of term order")
	}
	if cover[0].GetDocumentID() != 1 {
		t.Errorf("cover docID = %d, want 1", cover[0].GetDocumentID())
	}
}

func TestRankProximity_ClosestClusterWinsOverLooseCluster(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "fox quick jumps over lazy things here there brown")
	idx.AddDocument(2, "quick brown fox")

	results := idx.RankProximity("quick brown fox", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].DocID != 2 {
		t.Errorf("expected tightly clustered document 2 to rank first, got %v", results)
	}
}

func TestRankProximity_EmptyQuery(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")

	results := idx.RankProximity("the a an", 10)
	if len(results) != 0 {
		t.Errorf("got %d results for all-stopword query, want 0", len(results))
	}
}

func TestRankProximity_MaxResultsLimit(t *testing.T) {
	idx := NewInvertedIndex()
	for i := 1; i <= 5; i++ {
		idx.AddDocument(i, "quick brown fox")
	}

	results := idx.RankProximity("quick fox", 2)
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (capped)", len(results))
	}
}
