package daat

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════════
// LINE-DOC CORPUS LOADER
// ═══════════════════════════════════════════════════════════════════════════════
// Reads a line-doc file: UTF-8 text, one document per line, tab-separated
// columns, with a header line starting with '#'. Required columns are
// title, body, and a pre-tokenized body; an optional fourth column carries
// per-term token offsets. This mirrors the original system's LineDoc reader
// and its two LoadLocalDocuments dispatch kinds:
//
//   - "naive": only the body column is used - it is re-tokenized through
//     this package's own Analyze(), discarding the file's tokenized-body
//     column entirely.
//   - "with-offsets": the file's already-tokenized column is indexed
//     verbatim (split on whitespace), and the offsets column, if present,
//     is parsed and validated against it rather than ignored.
//
// A malformed row aborts the load at that line; LoadLocalDocuments returns
// the number of rows accepted before the failure alongside MalformedLineDoc.
// ═══════════════════════════════════════════════════════════════════════════════

const (
	// LoaderNaive re-tokenizes the body column through Analyze.
	LoaderNaive = "naive"
	// LoaderWithOffsets indexes the file's pre-tokenized column directly.
	LoaderWithOffsets = "with-offsets"
)

// lineDocColumns holds the parsed (but not yet indexed) fields of a single
// line-doc row.
type lineDocColumns struct {
	title       string
	body        string
	tokenized   string
	tokenOffset string // empty if the row has no fourth column
}

// parseLineDocHeader validates that line is a '#'-prefixed header and
// returns its column names.
func parseLineDocHeader(line string) ([]string, error) {
	if !strings.HasPrefix(line, "#") {
		return nil, ErrMalformedLineDoc
	}
	fields := strings.Fields(strings.TrimPrefix(line, "#"))
	if len(fields) < 3 {
		return nil, ErrMalformedLineDoc
	}
	return fields, nil
}

// parseLineDocRow splits a tab-separated row into its columns. At least
// title, body, and tokenized-body must be present.
func parseLineDocRow(line string) (lineDocColumns, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return lineDocColumns{}, ErrMalformedLineDoc
	}

	row := lineDocColumns{
		title:     fields[0],
		body:      fields[1],
		tokenized: fields[2],
	}
	if len(fields) >= 4 {
		row.tokenOffset = fields[3]
	}
	return row, nil
}

// ParseTokenOffsets parses the token-offset column's grammar: per-term
// groups separated by '.', pairs within a group separated by ';', and the
// two integers of a pair separated by ','. Offsets are byte-indexed and
// inclusive on both ends.
func ParseTokenOffsets(field string) ([][][2]int, error) {
	if field == "" {
		return nil, nil
	}

	var groups [][][2]int
	for _, groupField := range strings.Split(field, ".") {
		if groupField == "" {
			continue
		}
		var pairs [][2]int
		for _, pairField := range strings.Split(groupField, ";") {
			if pairField == "" {
				continue
			}
			parts := strings.Split(pairField, ",")
			if len(parts) != 2 {
				return nil, fmt.Errorf("offset pair %q malformed: %w", pairField, ErrMalformedLineDoc)
			}
			start, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("offset start %q malformed: %w", parts[0], ErrMalformedLineDoc)
			}
			end, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("offset end %q malformed: %w", parts[1], ErrMalformedLineDoc)
			}
			pairs = append(pairs, [2]int{start, end})
		}
		groups = append(groups, pairs)
	}
	return groups, nil
}

// tokenOffsetPairs flattens ParseTokenOffsets's per-term groups into one
// OffsetPair per token, taking a group's first recorded pair when present.
// A token whose group is empty or absent simply gets the zero OffsetPair,
// which indexToken treats as "no offset recorded" for that occurrence.
func tokenOffsetPairs(groups [][][2]int) []OffsetPair {
	if groups == nil {
		return nil
	}
	pairs := make([]OffsetPair, len(groups))
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		// The column's end offset is inclusive; OffsetPair.End is exclusive.
		pairs[i] = OffsetPair{Start: group[0][0], End: group[0][1] + 1}
	}
	return pairs
}

// LoadLocalDocuments ingests up to maxRows documents (or every row, if
// maxRows is negative) from the line-doc file at path, using the named
// loader kind. It returns the number of documents successfully indexed.
//
// A malformed row or an unknown loader kind aborts the load at that point;
// the count of rows already indexed is still returned alongside the error,
// the way the original system's loaders surface a partial ingest.
func (idx *InvertedIndex) LoadLocalDocuments(path string, maxRows int, loaderKind string) (int, error) {
	if loaderKind != LoaderNaive && loaderKind != LoaderWithOffsets {
		return 0, ErrUnknownLoader
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, ErrFileNotFound
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return 0, ErrMalformedLineDoc
	}
	if _, err := parseLineDocHeader(scanner.Text()); err != nil {
		return 0, err
	}

	loaded := 0
	for scanner.Scan() {
		if maxRows >= 0 && loaded >= maxRows {
			break
		}

		row, err := parseLineDocRow(scanner.Text())
		if err != nil {
			idx.Logger.Error("malformed line-doc row", "row", loaded, "loader", loaderKind)
			return loaded, err
		}

		docID := loaded
		switch loaderKind {
		case LoaderNaive:
			idx.AddDocument(docID, row.body)
		case LoaderWithOffsets:
			tokens := strings.Fields(row.tokenized)
			offsetGroups, err := ParseTokenOffsets(row.tokenOffset)
			if err != nil {
				return loaded, err
			}
			if offsetGroups != nil && len(offsetGroups) > len(tokens) {
				return loaded, ErrMalformedLineDoc
			}
			idx.AddTokenizedDocumentWithOffsets(docID, row.body, tokens, tokenOffsetPairs(offsetGroups))
		}

		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("reading %s: %w", path, ErrMalformedLineDoc)
	}

	idx.Logger.Info("loaded corpus", "path", path, "rows", loaded, "loader", loaderKind)
	return loaded, nil
}
