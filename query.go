package daat

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY BUILDER: Conjunctive and Phrase Queries
// ═══════════════════════════════════════════════════════════════════════════════
// A fluent API for building the two query shapes this engine supports:
// conjunctive term queries (every term must appear in the document) and
// phrase queries (terms must appear as a consecutive sequence). Disjunctive
// (OR) evaluation is intentionally not offered here - a document set this
// large with arbitrary unions is a distributed-systems problem this engine
// does not take on.
//
// EXAMPLE USAGE:
//
//	results := NewQueryBuilder(index).Term("machine").And().Term("learning").ExecuteWithBM25(10)
//	results := NewQueryBuilder(index).Phrase("machine learning").ExecuteWithBM25(10)
// ═══════════════════════════════════════════════════════════════════════════════

// Query is the fully-resolved shape a QueryBuilder compiles down to, and
// what the DAAT processor in processor.go actually executes.
type Query struct {
	Terms  []string
	Phrase bool
}

// QueryBuilder provides a fluent interface for building conjunctive and
// phrase queries.
type QueryBuilder struct {
	index  *InvertedIndex
	terms  []string
	phrase bool
}

// NewQueryBuilder creates a new query builder over index.
func NewQueryBuilder(index *InvertedIndex) *QueryBuilder {
	return &QueryBuilder{index: index}
}

// Term adds a single term to the query. The term is analyzed the same way
// document text is at index time.
func (qb *QueryBuilder) Term(term string) *QueryBuilder {
	tokens := Analyze(term)
	qb.terms = append(qb.terms, tokens...)
	return qb
}

// Phrase adds a sequence of terms and marks the whole query as a phrase
// query. Every term in the builder, including those added by Term before
// or after, then forms one phrase: all of them must appear consecutively,
// in the order they were added, in a matching document.
func (qb *QueryBuilder) Phrase(phrase string) *QueryBuilder {
	tokens := Analyze(phrase)
	qb.terms = append(qb.terms, tokens...)
	qb.phrase = true
	return qb
}

// And is a no-op kept for the fluent reading "Term(a).And().Term(b)" -
// every term added to a QueryBuilder is already implicitly ANDed together.
func (qb *QueryBuilder) And() *QueryBuilder {
	return qb
}

// Build returns the resolved Query this builder represents.
func (qb *QueryBuilder) Build() Query {
	return Query{Terms: qb.terms, Phrase: qb.phrase}
}

// ExecuteWithBM25 runs the query and returns up to maxResults matches
// ordered by descending BM25 score.
func (qb *QueryBuilder) ExecuteWithBM25(maxResults int) []Match {
	return qb.index.Search(qb.Build(), maxResults)
}

// AllOf is shorthand for a conjunctive query over terms, scored by BM25.
func AllOf(index *InvertedIndex, maxResults int, terms ...string) []Match {
	qb := NewQueryBuilder(index)
	for _, t := range terms {
		qb.Term(t)
	}
	return qb.ExecuteWithBM25(maxResults)
}
