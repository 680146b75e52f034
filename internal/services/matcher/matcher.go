package matcher

import (
	"errors"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"plagcheck/internal/domain/models"
)

const (
	DefaultK = 5

	// Words of this length or shorter never count towards word overlap.
	minOverlapWordLength = 3
)

var ErrInvalidK = errors.New("k-gram size must be positive")

// NGrams returns every contiguous window of k words joined by single spaces.
// Text with fewer than k words yields nil.
func NGrams(text string, k int) []string {
	words := strings.Fields(text)
	if k <= 0 || len(words) < k {
		return nil
	}

	ngrams := make([]string, 0, len(words)-k+1)
	for i := 0; i+k <= len(words); i++ {
		ngrams = append(ngrams, strings.Join(words[i:i+k], " "))
	}
	return ngrams
}

// fingerprint hashes a k-gram. Collisions are tolerated: a false positive
// only produces an extra advisory highlight.
func fingerprint(ngram string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ngram))
	return h.Sum64()
}

// CompareNormalized scores how much of suspect appears in source. Both inputs
// must already be normalized. The score is the larger of the k-gram overlap
// (relative to the suspect's k-grams) and the word-set overlap.
func CompareNormalized(suspect, source string, k int) (models.MatchResult, error) {
	if k <= 0 {
		return models.MatchResult{}, ErrInvalidK
	}

	suspectNGrams := NGrams(suspect, k)
	if len(suspectNGrams) == 0 {
		return models.MatchResult{}, nil
	}

	sourceHashes := make(map[uint64]struct{})
	for _, ngram := range NGrams(source, k) {
		sourceHashes[fingerprint(ngram)] = struct{}{}
	}

	var fragments []models.Fragment
	seen := make(map[string]struct{})
	matchCount := 0
	for _, ngram := range suspectNGrams {
		if _, ok := sourceHashes[fingerprint(ngram)]; !ok {
			continue
		}
		matchCount++
		if _, dup := seen[ngram]; dup {
			continue
		}
		seen[ngram] = struct{}{}
		fragments = append(fragments, models.Fragment{Kind: models.KGramFragment, Text: ngram})
	}

	rkScore := 100 * float64(matchCount) / float64(len(suspectNGrams))
	shared, jaccardScore := wordOverlap(suspect, source)

	if jaccardScore > rkScore {
		for _, word := range shared {
			fragments = append(fragments, models.Fragment{Kind: models.WordFragment, Text: word})
		}
	}

	return models.MatchResult{
		SimilarityScore: round(math.Max(rkScore, jaccardScore), 2),
		RabinKarpScore:  round(rkScore, 2),
		JaccardScore:    round(jaccardScore, 2),
		Fragments:       fragments,
	}, nil
}

// wordOverlap returns the shared words longer than minOverlapWordLength,
// sorted, and their share of the union of both vocabularies.
func wordOverlap(suspect, source string) ([]string, float64) {
	suspectWords := wordSet(suspect)
	sourceWords := wordSet(source)

	union := len(sourceWords)
	var shared []string
	for word := range suspectWords {
		if _, ok := sourceWords[word]; !ok {
			union++
			continue
		}
		if utf8.RuneCountInString(word) > minOverlapWordLength {
			shared = append(shared, word)
		}
	}
	if union == 0 {
		return nil, 0
	}

	sort.Strings(shared)
	return shared, 100 * float64(len(shared)) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		set[w] = struct{}{}
	}
	return set
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
