package highlight

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plagcheck/internal/domain/models"
)

// wordPattern enumerates whole words; a word is kept when its lowercase form
// is one of the matched words, which gives case-insensitive whole-word matching
// for any script.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Span is a half-open byte range [Start, End) of the raw text.
type Span struct {
	Start int
	End   int
}

type Segment struct {
	Text        string
	Highlighted bool
}

// Marker renders highlighted and plain segments for one output surface.
type Marker interface {
	Plain(text string) string
	Mark(text string) string
}

type HTMLMarker struct {
	Class string
}

var DefaultHTMLMarker = HTMLMarker{Class: "plagiarism-highlight"}

func (m HTMLMarker) Plain(text string) string {
	return html.EscapeString(text)
}

func (m HTMLMarker) Mark(text string) string {
	return `<mark class="` + html.EscapeString(m.Class) + `">` + html.EscapeString(text) + `</mark>`
}

// TerminalMarker styles matches for a terminal; nothing needs escaping there.
type TerminalMarker struct {
	Style lipgloss.Style
}

func NewTerminalMarker() TerminalMarker {
	return TerminalMarker{
		Style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

func (m TerminalMarker) Plain(text string) string {
	return text
}

func (m TerminalMarker) Mark(text string) string {
	return m.Style.Render(text)
}

// ANSIMarker wraps matches in raw escape sequences, for views such as gocui
// that interpret them directly.
type ANSIMarker struct{}

func (ANSIMarker) Plain(text string) string {
	return text
}

func (ANSIMarker) Mark(text string) string {
	return "\033[31m" + text + "\033[0m"
}

// Project renders rawText with every occurrence of a matched word marked.
func Project(rawText string, fragments []models.Fragment, marker Marker) string {
	var b strings.Builder
	for _, seg := range Segments(rawText, fragments) {
		if seg.Highlighted {
			b.WriteString(marker.Mark(seg.Text))
		} else {
			b.WriteString(marker.Plain(seg.Text))
		}
	}
	return b.String()
}

// Segments partitions rawText by the merged highlight spans. Concatenating
// the segment texts reproduces rawText exactly.
func Segments(rawText string, fragments []models.Fragment) []Segment {
	if rawText == "" {
		return nil
	}

	spans := Spans(rawText, fragments)
	segments := make([]Segment, 0, 2*len(spans)+1)
	last := 0
	for _, s := range spans {
		if s.Start > last {
			segments = append(segments, Segment{Text: rawText[last:s.Start]})
		}
		segments = append(segments, Segment{Text: rawText[s.Start:s.End], Highlighted: true})
		last = s.End
	}
	if last < len(rawText) {
		segments = append(segments, Segment{Text: rawText[last:]})
	}
	return segments
}

// Spans locates matched words in rawText and merges spans that overlap or
// are at most one byte apart.
func Spans(rawText string, fragments []models.Fragment) []Span {
	words := matchedWords(fragments)
	if rawText == "" || len(words) == 0 {
		return nil
	}

	var spans []Span
	for _, loc := range wordPattern.FindAllStringIndex(rawText, -1) {
		if _, ok := words[strings.ToLower(rawText[loc[0]:loc[1]])]; ok {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
	}
	return MergeSpans(spans)
}

func MergeSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End+1 {
			last.End = max(last.End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func matchedWords(fragments []models.Fragment) map[string]struct{} {
	words := make(map[string]struct{})
	for _, f := range fragments {
		for _, w := range f.Words() {
			words[w] = struct{}{}
		}
	}
	return words
}

// PrepareForDisplay collapses whitespace and truncates to maxLength bytes,
// appending "..." when truncated. maxLength <= 0 disables truncation.
func PrepareForDisplay(text string, maxLength int) string {
	text = strings.Join(strings.Fields(text), " ")
	if maxLength > 0 && len(text) > maxLength {
		cut := maxLength
		for cut > 0 && !isRuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
