package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/normalizer"
)

func TestNGrams(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		k        int
		expected []string
	}{
		{"shorter than k", "one two", 3, nil},
		{"exactly k", "one two three", 3, []string{"one two three"}},
		{"sliding window", "a b c d", 2, []string{"a b", "b c", "c d"}},
		{"non positive k", "a b c", 0, nil},
		{"extra whitespace", "  a   b  c ", 2, []string{"a b", "b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NGrams(tt.text, tt.k))
		})
	}
}

func TestCompareNormalizedIdenticalScenario(t *testing.T) {
	profile, err := normalizer.Profile(normalizer.Indonesian)
	require.NoError(t, err)

	text := normalizer.Normalize("algoritma rabin karp adalah algoritma pencarian string", profile)
	result, err := CompareNormalized(text, text, DefaultK)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.SimilarityScore)
	assert.Equal(t, 100.0, result.RabinKarpScore)
	assert.NotEmpty(t, result.Fragments)
	for _, f := range result.Fragments {
		assert.Equal(t, models.KGramFragment, f.Kind)
	}
}

func TestCompareNormalizedIdenticalTexts(t *testing.T) {
	texts := []string{
		"one two three four five",
		"lorem ipsum dolor amet consectetur adipiscing elit sed eiusmod tempor",
	}
	for _, text := range texts {
		result, err := CompareNormalized(text, text, DefaultK)
		require.NoError(t, err)
		assert.Equal(t, 100.0, result.SimilarityScore, text)
	}
}

func TestCompareNormalizedNoSharedWords(t *testing.T) {
	result, err := CompareNormalized(
		"kucing hitam tidur siang hari ini",
		"mobil merah melaju cepat sekali kemarin",
		DefaultK,
	)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.SimilarityScore)
	assert.Equal(t, 0.0, result.JaccardScore)
	assert.Empty(t, result.Fragments)
}

func TestCompareNormalizedTooShortSuspect(t *testing.T) {
	result, err := CompareNormalized("only four words here", "only four words here", DefaultK)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.SimilarityScore)
	assert.Empty(t, result.Fragments)
}

func TestCompareNormalizedEmptySource(t *testing.T) {
	result, err := CompareNormalized("one two three four five", "", DefaultK)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.SimilarityScore)
	assert.Empty(t, result.Fragments)
}

func TestCompareNormalizedInvalidK(t *testing.T) {
	for _, k := range []int{0, -1} {
		_, err := CompareNormalized("a b c", "a b c", k)
		assert.ErrorIs(t, err, ErrInvalidK)
	}
}

func TestCompareNormalizedCountsDuplicateNGrams(t *testing.T) {
	result, err := CompareNormalized("a b c a b c", "a b c", 3)
	require.NoError(t, err)

	// 2 of the 4 suspect trigrams occur in source; the fragment is reported once.
	assert.Equal(t, 50.0, result.SimilarityScore)
	assert.Equal(t, []models.Fragment{{Kind: models.KGramFragment, Text: "a b c"}}, result.Fragments)
}

func TestCompareNormalizedWordOverlapCatchesReordering(t *testing.T) {
	result, err := CompareNormalized(
		"alpha bravo charlie delta echo",
		"echo delta charlie bravo alpha",
		DefaultK,
	)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.RabinKarpScore)
	assert.Equal(t, 100.0, result.JaccardScore)
	assert.Equal(t, 100.0, result.SimilarityScore)
	assert.Equal(t,
		models.FragmentsFromTexts(models.WordFragment, "alpha", "bravo", "charlie", "delta", "echo"),
		result.Fragments,
	)
}

func TestCompareNormalizedWordOverlapIgnoresShortWords(t *testing.T) {
	result, err := CompareNormalized(
		"cat dog owl bee ant yak",
		"yak ant bee owl dog cat",
		DefaultK,
	)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.SimilarityScore)
	assert.Empty(t, result.Fragments)
}

func TestCompareNormalizedKeepsBothSignals(t *testing.T) {
	// One shared 3-gram out of four, but most of the vocabulary is shared.
	suspect := "river bank flows north quickly today"
	source := "river bank flows south quickly today"

	result, err := CompareNormalized(suspect, source, 3)
	require.NoError(t, err)

	assert.Equal(t, 25.0, result.RabinKarpScore)
	assert.Equal(t, 71.43, result.JaccardScore)
	assert.Equal(t, 71.43, result.SimilarityScore)
	assert.Equal(t, models.Fragment{Kind: models.KGramFragment, Text: "river bank flows"}, result.Fragments[0])
	assert.Contains(t, result.Texts(), "quickly")
	assert.Contains(t, result.Texts(), "today")
}

func TestCompareNormalizedIsDirectional(t *testing.T) {
	short := "one two three four five"
	long := "one two three four five six seven eight nine ten"

	forward, err := CompareNormalized(short, long, DefaultK)
	require.NoError(t, err)
	backward, err := CompareNormalized(long, short, DefaultK)
	require.NoError(t, err)

	assert.Equal(t, 100.0, forward.RabinKarpScore)
	assert.Equal(t, 16.67, backward.RabinKarpScore)
}
