package models

import "strings"

type FragmentKind string

const (
	KGramFragment FragmentKind = "kgram"
	WordFragment  FragmentKind = "word"
)

// Fragment is a unit of matched content eligible for highlighting.
// Projectors treat both kinds the same way: a string to highlight if found.
type Fragment struct {
	Kind FragmentKind `json:"kind"`
	Text string       `json:"text"`
}

func (f Fragment) Words() []string {
	return strings.Fields(strings.ToLower(f.Text))
}

type MatchResult struct {
	SimilarityScore float64    `json:"similarity_score"`
	RabinKarpScore  float64    `json:"rabin_karp_score"`
	JaccardScore    float64    `json:"jaccard_score"`
	Fragments       []Fragment `json:"matches"`
}

func (r MatchResult) Texts() []string {
	texts := make([]string, 0, len(r.Fragments))
	for _, f := range r.Fragments {
		texts = append(texts, f.Text)
	}
	return texts
}

func (r MatchResult) HasMatches() bool {
	return len(r.Fragments) > 0
}

func FragmentsFromTexts(kind FragmentKind, texts ...string) []Fragment {
	fragments := make([]Fragment, 0, len(texts))
	for _, t := range texts {
		fragments = append(fragments, Fragment{Kind: kind, Text: t})
	}
	return fragments
}
