package daat

import "testing"

func TestSentenceBreaks_WorkedExample(t *testing.T) {
	text := "hello Wisconsin, This is Kan.  Im happy."
	got := SentenceBreaks(text)

	want := []int{30, 39}
	if len(got) != len(want) {
		t.Fatalf("SentenceBreaks(%q) = %v, want %v", text, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SentenceBreaks(%q)[%d] = %d, want %d", text, i, got[i], want[i])
		}
	}
}

func TestSentenceBreaks_NoTerminalPunctuation(t *testing.T) {
	got := SentenceBreaks("no sentence end here")
	if len(got) != 0 {
		t.Errorf("SentenceBreaks(no punctuation) = %v, want empty", got)
	}
}

func TestSentenceBreaks_BlankLine(t *testing.T) {
	text := "first paragraph\n\nsecond paragraph"
	got := SentenceBreaks(text)
	if len(got) != 1 {
		t.Fatalf("SentenceBreaks(blank line) = %v, want 1 break", got)
	}
	if got[0] != len("first paragraph\n") {
		t.Errorf("break offset = %d, want %d", got[0], len("first paragraph\n"))
	}
}

func TestGenerateSnippet_TwoWordDocument(t *testing.T) {
	snippet := GenerateSnippet("hello world", []string{"hello", "world"})
	want := "<b>hello<\\b> <b>world<\\b>\n"
	if snippet != want {
		t.Errorf("GenerateSnippet(hello world) = %q, want %q", snippet, want)
	}
}

func TestGenerateSnippet_WorkedCorpusD2(t *testing.T) {
	snippet := GenerateSnippet("hello world big world", []string{"hello"})
	want := "<b>hello<\\b> world big world\n"
	if snippet != want {
		t.Errorf("GenerateSnippet(D2, hello) = %q, want %q", snippet, want)
	}
}

func TestGenerateSnippet_CaseInsensitiveHighlighting(t *testing.T) {
	snippet := GenerateSnippet("Hello World", []string{"hello"})
	want := "<b>Hello<\\b> World\n"
	if snippet != want {
		t.Errorf("GenerateSnippet(case-insensitive) = %q, want %q", snippet, want)
	}
}

func TestGenerateSnippet_EmptyDocument(t *testing.T) {
	snippet := GenerateSnippet("", []string{"hello"})
	if snippet != "" {
		t.Errorf("GenerateSnippet(empty doc) = %q, want empty string", snippet)
	}
}

func TestGenerateSnippet_LimitsPassageCount(t *testing.T) {
	doc := "One fact here. Two facts here. Three facts here. Four facts here. Five facts here."
	snippet := GenerateSnippet(doc, []string{"facts"})

	breaks := 0
	for _, c := range snippet {
		if c == '\n' {
			breaks++
		}
	}
	if breaks > PassagesPerSnippet {
		t.Errorf("GenerateSnippet produced %d passages, want at most %d", breaks, PassagesPerSnippet)
	}
}

func TestSplitPassages_PreservesDocumentOrder(t *testing.T) {
	doc := "First sentence here. Second sentence here. Third sentence here."
	passages := splitPassages(doc)
	if len(passages) != 3 {
		t.Fatalf("splitPassages got %d passages, want 3", len(passages))
	}
	for i := 0; i+1 < len(passages); i++ {
		if passages[i].Start >= passages[i+1].Start {
			t.Errorf("passages not in document order: %+v", passages)
		}
	}
}

func TestHighlightTerms_WrapsAllOccurrences(t *testing.T) {
	got := highlightTerms("fox fox fox", []string{"fox"})
	want := "<b>fox<\\b> <b>fox<\\b> <b>fox<\\b>"
	if got != want {
		t.Errorf("highlightTerms = %q, want %q", got, want)
	}
}
