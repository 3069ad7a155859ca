// Package moderation masks censored vocabulary in accepted messages before
// they are persisted or broadcast. Matching runs on a normalized view of the
// text (lowercased, leet speak folded, punctuation stripped) while masking
// happens on the original runes, so spacing and length are preserved.
package moderation

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
}

// Hit is one censored word found in a message.
type Hit struct {
	Word string
	// Language is the detected language of the whole message, best-effort.
	Language string
}

// Result carries the masked content and what was found.
type Result struct {
	Content string
	Hits    []Hit
}

func (r Result) Flagged() bool { return len(r.Hits) > 0 }

// NewModerator builds the Aho-Corasick automaton from the censored word list.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if folded := fold([]rune(w)); len(folded) > 0 {
			patterns = append(patterns, folded)
		}
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: m, mask: mask}, nil
}

// Scan masks every censored span of the original text and reports the hits.
// Clean input comes back unchanged.
func (m *Moderator) Scan(original string) Result {
	runes := []rune(original)
	normalized, indexMap := project(runes)
	if len(normalized) == 0 {
		return Result{Content: original}
	}

	spans := m.machine.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return Result{Content: original}
	}

	language := detectLanguage(original)
	result := Result{}
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(indexMap) {
			continue
		}
		// Mask from the first to the last original rune of the match,
		// including the noise characters in between.
		for i := indexMap[start]; i <= indexMap[end-1]; i++ {
			runes[i] = m.mask
		}
		result.Hits = append(result.Hits, Hit{Word: string(span.Word), Language: language})
	}
	result.Content = string(runes)
	return result
}

// project folds the original runes into the searchable alphabet and records,
// for every kept rune, its index in the original text.
func project(original []rune) ([]rune, []int) {
	normalized := make([]rune, 0, len(original))
	indexMap := make([]int, 0, len(original))
	for i, r := range original {
		r = unleet(r)
		if isNoise(r) {
			continue
		}
		normalized = append(normalized, unicode.ToLower(r))
		indexMap = append(indexMap, i)
	}
	return normalized, indexMap
}

func fold(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		r = unleet(r)
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// unleet maps common leet-speak substitutions back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	}
	return r
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}

// detectLanguage is best-effort: short or ambiguous content yields "".
func detectLanguage(content string) string {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
