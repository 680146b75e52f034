package normalizer

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

//go:embed data/indonesian_roots.txt
var indonesianRoots string

// Dictionary is a set of root words. A stem is only accepted when it is in
// the dictionary, so the stemmer never invents a root.
type Dictionary struct {
	words map[string]struct{}
}

func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	d.Add(words...)
	return d
}

func (d *Dictionary) Add(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		d.words[w] = struct{}{}
	}
}

func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// ReadDictionary reads one root per line into d. Blank lines and lines
// starting with # are skipped.
func (d *Dictionary) ReadDictionary(r io.Reader) error {
	const op = "normalizer.Dictionary.ReadDictionary"

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LoadDictionaryFile returns the built-in roots extended with the roots
// listed in path.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	const op = "normalizer.LoadDictionaryFile"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	d := builtinDictionary()
	if err := d.ReadDictionary(f); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

var defaultDictionary = sync.OnceValue(builtinDictionary)

// DefaultDictionary is shared read-only by every profile built from it.
func DefaultDictionary() *Dictionary {
	return defaultDictionary()
}

func builtinDictionary() *Dictionary {
	d := NewDictionary()
	// The embedded list is well formed.
	_ = d.ReadDictionary(strings.NewReader(indonesianRoots))
	return d
}

var (
	particles   = []string{"kah", "lah", "tah", "pun"}
	possessives = []string{"nya", "ku", "mu"}
	derivations = []string{"kan", "an", "i"}
)

const (
	maxPrefixes   = 3
	minRootLength = 2
)

type prefixRule struct {
	prefix string
	// recode is the consonant a nasal prefix may have absorbed before a vowel.
	recode string
}

var prefixRules = []prefixRule{
	{prefix: "meng", recode: "k"},
	{prefix: "meny", recode: "s"},
	{prefix: "mem", recode: "p"},
	{prefix: "men", recode: "t"},
	{prefix: "me"},
	{prefix: "peng", recode: "k"},
	{prefix: "peny", recode: "s"},
	{prefix: "pem", recode: "p"},
	{prefix: "pen", recode: "t"},
	{prefix: "per"},
	{prefix: "pel"},
	{prefix: "pe"},
	{prefix: "ber"},
	{prefix: "bel"},
	{prefix: "be"},
	{prefix: "ter"},
	{prefix: "te"},
	{prefix: "di"},
	{prefix: "ke"},
	{prefix: "se"},
	{prefix: "kau"},
	{prefix: "ku"},
}

// IndonesianStemmer strips confixes the way the Nazief-Adriani family of
// stemmers does, accepting a candidate only when the dictionary knows it.
// A word with no known root is returned unchanged, and every root maps to
// itself, so stemming is idempotent.
type IndonesianStemmer struct {
	dict *Dictionary
}

func NewIndonesianStemmer(dict *Dictionary) *IndonesianStemmer {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &IndonesianStemmer{dict: dict}
}

func (s *IndonesianStemmer) Stem(word string) string {
	if len(word) <= 3 || s.dict.Contains(word) {
		return word
	}

	variants := suffixVariants(word)
	for _, v := range variants[1:] {
		if s.dict.Contains(v) {
			return v
		}
	}

	// Suffix-stripped forms are tried first; on equal length the earlier
	// candidate wins.
	best := ""
	for i := len(variants) - 1; i >= 0; i-- {
		for _, root := range s.stripPrefixes(variants[i], maxPrefixes) {
			if len(root) > len(best) {
				best = root
			}
		}
	}
	if best == "" {
		return word
	}
	return best
}

// suffixVariants returns word followed by each progressively suffix-stripped
// form: particle, possessive, derivational suffix, and for -kan also the -an
// reading that keeps the root's final k.
func suffixVariants(word string) []string {
	variants := []string{word}
	w := word
	for _, list := range [][]string{particles, possessives} {
		if rest, ok := cutAny(w, list); ok {
			w = rest
			variants = append(variants, w)
		}
	}
	if rest, ok := cutAny(w, derivations); ok {
		variants = append(variants, rest)
		if strings.HasSuffix(w, "kan") {
			variants = append(variants, strings.TrimSuffix(w, "an"))
		}
	}
	return variants
}

func cutAny(word string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		if rest, ok := strings.CutSuffix(word, suffix); ok && len(rest) >= minRootLength {
			return rest, true
		}
	}
	return word, false
}

// stripPrefixes returns every dictionary root reachable from word by
// removing up to depth prefixes. A branch stops at its first known root.
func (s *IndonesianStemmer) stripPrefixes(word string, depth int) []string {
	if depth == 0 {
		return nil
	}

	var roots []string
	for _, rule := range prefixRules {
		rest, ok := strings.CutPrefix(word, rule.prefix)
		if !ok || len(rest) < minRootLength {
			continue
		}
		candidates := []string{rest}
		if rule.recode != "" && strings.ContainsRune("aiueo", rune(rest[0])) {
			candidates = append(candidates, rule.recode+rest)
		}
		for _, c := range candidates {
			if s.dict.Contains(c) {
				roots = append(roots, c)
				continue
			}
			roots = append(roots, s.stripPrefixes(c, depth-1)...)
		}
	}
	return roots
}
