package daat

import (
	"sort"
	"strings"
	"unicode"
)

// ═══════════════════════════════════════════════════════════════════════════════
// HIGHLIGHTER: Snippet Generation
// ═══════════════════════════════════════════════════════════════════════════════
// Given a document and the query terms that matched it, the highlighter
// breaks the document into passages at sentence boundaries, scores each
// passage by how well it reflects the query, and renders the best few with
// query terms wrapped in <b>...<\b> markers (the closing tag's backslash
// is intentional, matching the external rendering contract this engine's
// snippets are consumed by).
//
// SentenceBreakIterator locates passage boundaries; PassageScore combines
// a positional bias (earlier passages are slightly favored, the way a
// document's lead paragraph usually carries its gist) with a BM25-shaped
// term-frequency norm over the query terms present in the passage.
// ═══════════════════════════════════════════════════════════════════════════════

// NormConstant tunes how quickly a passage's positional score decays with
// distance from the start of the document.
const NormConstant = 100.0

// PassagesPerSnippet bounds how many passages GenerateSnippet returns.
const PassagesPerSnippet = 3

// SentenceBreaks returns the byte offsets in text that end a sentence: a
// '.', '?' or '!' followed by whitespace and an uppercase letter, by the
// end of text, or a blank line. Each offset is the inclusive last byte of a
// sentence: the byte just before the next sentence's first character (so
// the whitespace after the punctuation stays with the sentence it follows),
// the last byte of text, or the second newline of a blank line.
func SentenceBreaks(text string) []int {
	var breaks []int
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			breaks = append(breaks, byteOffset(text, i+1))
			continue
		}
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == len(runes) || (j > i+1 && unicode.IsUpper(runes[j])) {
			breaks = append(breaks, byteOffset(text, j)-1)
		}
	}

	return breaks
}

func byteOffset(text string, runeIdx int) int {
	count := 0
	for i := range text {
		if count == runeIdx {
			return i
		}
		count++
	}
	return len(text)
}

// Passage is a contiguous span of a document bounded by sentence breaks.
type Passage struct {
	Start int
	End   int
	Text  string
}

// splitPassages breaks text into passages at its sentence boundaries.
func splitPassages(text string) []Passage {
	breaks := SentenceBreaks(text)
	// Break offsets are inclusive sentence ends; the next passage starts
	// one byte later.
	bounds := []int{0}
	for _, b := range breaks {
		bounds = append(bounds, b+1)
	}
	bounds = append(bounds, len(text))

	var passages []Passage
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if start >= end {
			continue
		}
		passages = append(passages, Passage{Start: start, End: end, Text: text[start:end]})
	}
	return passages
}

// scorePassage combines a positional norm with a BM25-shaped term-frequency
// norm over how many times queryTerms appear in the passage.
func scorePassage(p Passage, queryTerms []string) float64 {
	positional := 1.0 / (1.0 + float64(p.Start)/NormConstant)

	tf := 0.0
	lowered := strings.ToLower(p.Text)
	for _, term := range queryTerms {
		tf += float64(strings.Count(lowered, strings.ToLower(term)))
	}
	const k1 = 1.2
	tfNorm := (tf * (k1 + 1)) / (tf + k1)

	return positional + tfNorm
}

// GenerateSnippet selects the highest-scoring passages of document for
// queryTerms, renders query-term spans wrapped in <b>...<\b>, and joins the
// chosen passages with a trailing newline each.
func GenerateSnippet(document string, queryTerms []string) string {
	passages := splitPassages(document)
	if len(passages) == 0 {
		return ""
	}

	scoredPassages := make([]scoredPassage, len(passages))
	for i, p := range passages {
		scoredPassages[i] = scoredPassage{passage: p, score: scorePassage(p, queryTerms), order: i}
	}

	sort.Slice(scoredPassages, func(i, j int) bool {
		return scoredPassages[i].score > scoredPassages[j].score
	})

	limit := PassagesPerSnippet
	if limit > len(scoredPassages) {
		limit = len(scoredPassages)
	}
	chosen := scoredPassages[:limit]
	sort.Slice(chosen, func(i, j int) bool {
		return chosen[i].order < chosen[j].order
	})

	var out strings.Builder
	for _, sp := range chosen {
		out.WriteString(highlightTerms(sp.passage.Text, queryTerms))
		out.WriteString("\n")
	}
	return out.String()
}

type scoredPassage struct {
	passage Passage
	score   float64
	order   int
}

// highlightTerms wraps every case-insensitive occurrence of a query term
// in passage with <b>...<\b> markers.
func highlightTerms(passage string, queryTerms []string) string {
	result := passage
	for _, term := range queryTerms {
		if term == "" {
			continue
		}
		result = replaceCaseInsensitive(result, term, "<b>"+term+"<\\b>")
	}
	return result
}

// offsetSpan is a byte span within a document, used internally by
// GenerateSnippetFromOffsets to stay agnostic to which query term produced
// it once all terms' spans are merged and sorted.
type offsetSpan struct {
	start int
	end   int
}

// GenerateSnippetFromOffsets renders a snippet the same way GenerateSnippet
// does (sentence-bounded passages, positional + BM25-shaped scoring, top
// PassagesPerSnippet kept in document order) but wraps query-term spans
// using the explicit offset-pair streams a Match carries instead of
// re-scanning the document text for term substrings. termOffsets is
// indexed by query term exactly like Match.TermOffsets: the full
// offset-pair stream for a non-phrase match, or only the pairs the phrase
// verifier's position table selected for a phrase match.
func GenerateSnippetFromOffsets(document string, termOffsets [][]OffsetPair) string {
	passages := splitPassages(document)
	if len(passages) == 0 {
		return ""
	}

	var spans []offsetSpan
	for _, pairs := range termOffsets {
		for _, p := range pairs {
			if p.Start == 0 && p.End == 0 {
				continue // zero value: no offset was recorded for this occurrence
			}
			spans = append(spans, offsetSpan{start: p.Start, end: p.End})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	scoredPassages := make([]scoredPassage, len(passages))
	for i, p := range passages {
		scoredPassages[i] = scoredPassage{passage: p, score: scorePassageByOffsets(p, spans), order: i}
	}

	sort.Slice(scoredPassages, func(i, j int) bool {
		return scoredPassages[i].score > scoredPassages[j].score
	})

	limit := PassagesPerSnippet
	if limit > len(scoredPassages) {
		limit = len(scoredPassages)
	}
	chosen := scoredPassages[:limit]
	sort.Slice(chosen, func(i, j int) bool {
		return chosen[i].order < chosen[j].order
	})

	var out strings.Builder
	for _, sp := range chosen {
		out.WriteString(renderPassageWithOffsets(document, sp.passage, spans))
		out.WriteString("\n")
	}
	return out.String()
}

// scorePassageByOffsets mirrors scorePassage's positional-plus-BM25-shaped
// blend, but counts term occurrences via the spans actually recorded for
// this result rather than a substring scan.
func scorePassageByOffsets(p Passage, spans []offsetSpan) float64 {
	positional := 1.0 / (1.0 + float64(p.Start)/NormConstant)

	tf := 0.0
	for _, s := range spans {
		if s.start >= p.Start && s.start < p.End {
			tf++
		}
	}
	const k1 = 1.2
	tfNorm := (tf * (k1 + 1)) / (tf + k1)

	return positional + tfNorm
}

// renderPassageWithOffsets wraps every span that falls inside p in
// <b>...<\b> markers, reading straight from document rather than p.Text so
// byte offsets line up exactly.
func renderPassageWithOffsets(document string, p Passage, spans []offsetSpan) string {
	var b strings.Builder
	cursor := p.Start
	for _, s := range spans {
		if s.start < cursor || s.end > p.End {
			continue
		}
		b.WriteString(document[cursor:s.start])
		b.WriteString("<b>")
		b.WriteString(document[s.start:s.end])
		b.WriteString("<\\b>")
		cursor = s.end
	}
	b.WriteString(document[cursor:p.End])
	return b.String()
}

func replaceCaseInsensitive(s, term, replacement string) string {
	lowerS := strings.ToLower(s)
	lowerTerm := strings.ToLower(term)
	var out strings.Builder
	i := 0
	for {
		idx := strings.Index(lowerS[i:], lowerTerm)
		if idx < 0 {
			out.WriteString(s[i:])
			break
		}
		out.WriteString(s[i : i+idx])
		out.WriteString(replacement)
		i += idx + len(term)
	}
	return out.String()
}
