package normalizer

import (
	"errors"
	"fmt"
	"sort"

	snowballeng "github.com/kljensen/snowball/english"
)

const (
	Indonesian = "indonesian"
	English    = "english"
	Plain      = "plain"
)

var ErrUnknownLanguage = errors.New("unknown language profile")

// LanguageProfile bundles stopwords and a stemmer for one language.
// It is immutable after construction and safe for concurrent use.
type LanguageProfile struct {
	name      string
	stopWords map[string]struct{}
	stem      func(string) string
}

func NewProfile(name string, stopWords []string, stem func(string) string) *LanguageProfile {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[w] = struct{}{}
	}
	if stem == nil {
		stem = func(s string) string { return s }
	}
	return &LanguageProfile{
		name:      name,
		stopWords: set,
		stem:      stem,
	}
}

// Profile returns a built-in profile by name.
func Profile(name string) (*LanguageProfile, error) {
	switch name {
	case Indonesian:
		return NewIndonesianProfile(DefaultDictionary()), nil
	case English:
		return NewProfile(English, englishStopWords, func(word string) string {
			return snowballeng.Stem(word, false)
		}), nil
	case Plain:
		return NewProfile(Plain, nil, nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
}

// NewIndonesianProfile builds the indonesian profile over dict, for callers
// that extend the built-in roots.
func NewIndonesianProfile(dict *Dictionary) *LanguageProfile {
	return NewProfile(Indonesian, indonesianStopWords, NewIndonesianStemmer(dict).Stem)
}

func Languages() []string {
	langs := []string{Indonesian, English, Plain}
	sort.Strings(langs)
	return langs
}

func (p *LanguageProfile) Name() string {
	return p.name
}

func (p *LanguageProfile) IsStopWord(word string) bool {
	_, ok := p.stopWords[word]
	return ok
}

func (p *LanguageProfile) Stem(word string) string {
	return p.stem(word)
}
