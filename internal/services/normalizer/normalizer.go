package normalizer

import (
	"iter"
	"strings"
	"unicode"
)

// Normalize turns raw text into the canonical token stream consumed by the
// matcher: lowercase, strip everything but letters, digits and whitespace,
// drop stopwords, stem, and join with single spaces.
func Normalize(text string, profile *LanguageProfile) string {
	if text == "" {
		return ""
	}

	tokens := Tokenize(Strip(strings.ToLower(text)))
	tokens = FilterStopWords(tokens, profile)
	tokens = Stem(tokens, profile)

	var b strings.Builder
	for token := range tokens {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(token)
	}
	return b.String()
}

// Strip removes every rune that is not a letter, digit or whitespace.
// Removed runes are not replaced, so "e-mail" becomes "email". Letters are
// any Unicode letter, not just a-z: accented words stay whole ("résumé"
// rather than "rsum"), which gives different k-grams and scores on accented
// text than an ASCII-only filter would.
func Strip(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

// Tokenize splits on whitespace runs.
func Tokenize(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, token := range strings.Fields(content) {
			if !yield(token) {
				return
			}
		}
	}
}

func FilterStopWords(seq iter.Seq[string], profile *LanguageProfile) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range seq {
			if profile.IsStopWord(token) {
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

func Stem(seq iter.Seq[string], profile *LanguageProfile) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range seq {
			stemmed := profile.Stem(token)
			// A root can itself be a stopword ("menggunakan" -> "guna").
			if stemmed == "" || profile.IsStopWord(stemmed) {
				continue
			}
			if !yield(stemmed) {
				return
			}
		}
	}
}
