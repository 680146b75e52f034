package highlight

import (
	"html"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"plagcheck/internal/domain/models"
)

func kgrams(texts ...string) []models.Fragment {
	return models.FragmentsFromTexts(models.KGramFragment, texts...)
}

func TestProjectHTML(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		fragments []models.Fragment
		expected  string
	}{
		{
			name:      "no fragments escapes text",
			raw:       "a < b & c",
			fragments: nil,
			expected:  "a &lt; b &amp; c",
		},
		{
			name:      "empty text",
			raw:       "",
			fragments: kgrams("algoritma"),
			expected:  "",
		},
		{
			name:      "adjacent words merge into one run",
			raw:       "Algoritma Rabin Karp adalah cepat.",
			fragments: kgrams("algoritma rabin karp"),
			expected:  `<mark class="plagiarism-highlight">Algoritma Rabin Karp</mark> adalah cepat.`,
		},
		{
			name:      "whole words only",
			raw:       "cat concatenate cat",
			fragments: models.FragmentsFromTexts(models.WordFragment, "cat"),
			expected:  `<mark class="plagiarism-highlight">cat</mark> concatenate <mark class="plagiarism-highlight">cat</mark>`,
		},
		{
			name:      "case insensitive with escaped content",
			raw:       "<b>STRING</b> search",
			fragments: kgrams("string"),
			expected:  `&lt;b&gt;<mark class="plagiarism-highlight">STRING</mark>&lt;/b&gt; search`,
		},
		{
			name:      "words separated by more than one character stay apart",
			raw:       "alpha,  beta",
			fragments: kgrams("alpha beta"),
			expected:  `<mark class="plagiarism-highlight">alpha</mark>,  <mark class="plagiarism-highlight">beta</mark>`,
		},
		{
			name:      "words separated by punctuation and no space merge",
			raw:       "alpha-beta",
			fragments: kgrams("alpha beta"),
			expected:  `<mark class="plagiarism-highlight">alpha-beta</mark>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Project(tt.raw, tt.fragments, DefaultHTMLMarker))
		})
	}
}

func TestProjectRoundTrip(t *testing.T) {
	texts := []string{
		"Plagiarisme adalah tindakan menyalin karya orang lain.\nTanpa menyebutkan sumber!",
		"café Café CAFÉ — naïve résumé",
		"  leading and trailing whitespace  ",
		"<script>alert('x')</script> & more",
	}
	fragments := []models.Fragment{
		{Kind: models.KGramFragment, Text: "menyalin karya orang lain sumber"},
		{Kind: models.WordFragment, Text: "café"},
		{Kind: models.WordFragment, Text: "trailing"},
		{Kind: models.WordFragment, Text: "alert"},
	}

	for _, raw := range texts {
		var joined strings.Builder
		for _, seg := range Segments(raw, fragments) {
			joined.WriteString(seg.Text)
		}
		assert.Equal(t, raw, joined.String())

		marked := Project(raw, fragments, DefaultHTMLMarker)
		marked = strings.ReplaceAll(marked, `<mark class="plagiarism-highlight">`, "")
		marked = strings.ReplaceAll(marked, "</mark>", "")
		assert.Equal(t, raw, html.UnescapeString(marked))
	}
}

func TestSpansUnicodeWords(t *testing.T) {
	spans := Spans("café Café cafés", models.FragmentsFromTexts(models.WordFragment, "café"))

	assert.Equal(t, []Span{{Start: 0, End: 11}}, spans)
}

func TestMergeSpans(t *testing.T) {
	tests := []struct {
		name     string
		spans    []Span
		expected []Span
	}{
		{"empty", nil, nil},
		{"unsorted overlapping", []Span{{5, 9}, {0, 6}}, []Span{{0, 9}}},
		{"gap of one merges", []Span{{0, 3}, {4, 7}}, []Span{{0, 7}}},
		{"gap of two stays", []Span{{0, 3}, {5, 7}}, []Span{{0, 3}, {5, 7}}},
		{"contained", []Span{{0, 10}, {2, 4}}, []Span{{0, 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeSpans(tt.spans))
		})
	}
}

func TestTerminalAndANSIMarkersDoNotEscape(t *testing.T) {
	fragments := kgrams("beta")

	assert.Equal(t, "a < \033[31mbeta\033[0m", Project("a < beta", fragments, ANSIMarker{}))
	assert.Contains(t, Project("a < beta", fragments, NewTerminalMarker()), "a < ")
	assert.Contains(t, Project("a < beta", fragments, NewTerminalMarker()), "beta")
}

func TestPrepareForDisplay(t *testing.T) {
	assert.Equal(t, "", PrepareForDisplay("", 10))
	assert.Equal(t, "a b c", PrepareForDisplay("  a\n\nb\t c ", 0))
	assert.Equal(t, "hello...", PrepareForDisplay("hello world", 5))
	assert.Equal(t, "caf...", PrepareForDisplay("café au lait", 4))
}
