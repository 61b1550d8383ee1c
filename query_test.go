package daat

import "testing"

func TestQueryBuilder_SingleTerm(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")
	idx.AddDocument(2, "lazy dog")

	results := NewQueryBuilder(idx).Term("fox").ExecuteWithBM25(10)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].DocID != 1 {
		t.Errorf("DocID = %d, want 1", results[0].DocID)
	}
}

func TestQueryBuilder_And(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")
	idx.AddDocument(2, "quick brown dog")
	idx.AddDocument(3, "slow brown fox")

	results := NewQueryBuilder(idx).Term("quick").And().Term("fox").ExecuteWithBM25(10)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].DocID != 1 {
		t.Errorf("DocID = %d, want 1", results[0].DocID)
	}
}

func TestQueryBuilder_Phrase(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox")
	idx.AddDocument(2, "brown the quick fox")

	results := NewQueryBuilder(idx).Phrase("quick brown").ExecuteWithBM25(10)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].DocID != 1 {
		t.Errorf("DocID = %d, want 1", results[0].DocID)
	}
}

func TestQueryBuilder_PhraseRequiresConsecutive(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick little brown fox")

	results := NewQueryBuilder(idx).Phrase("quick brown").ExecuteWithBM25(10)
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0 (terms are not adjacent)", len(results))
	}
}

func TestQueryBuilder_ExecuteWithBM25_Ranking(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "fox fox fox")
	idx.AddDocument(2, "fox and a much longer document about foxes and other animals in the forest")

	results := NewQueryBuilder(idx).Term("fox").ExecuteWithBM25(10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not sorted descending by score: %v", results)
	}
}

func TestQueryBuilder_EmptyQuery(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")

	results := NewQueryBuilder(idx).ExecuteWithBM25(10)
	if len(results) != 0 {
		t.Errorf("got %d results for empty query, want 0", len(results))
	}
}

func TestQueryBuilder_NonExistentTerm(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")

	results := NewQueryBuilder(idx).Term("elephant").ExecuteWithBM25(10)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestQueryBuilder_MaxResultsLimit(t *testing.T) {
	idx := NewInvertedIndex()
	for i := 1; i <= 5; i++ {
		idx.AddDocument(i, "fox")
	}

	results := NewQueryBuilder(idx).Term("fox").ExecuteWithBM25(2)
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (capped)", len(results))
	}
}

func TestAllOf(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")
	idx.AddDocument(2, "quick brown dog")

	results := AllOf(idx, 10, "quick", "fox")
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].DocID != 1 {
		t.Errorf("DocID = %d, want 1", results[0].DocID)
	}
}

func TestAllOf_EmptyTerms(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")

	results := AllOf(idx, 10)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
