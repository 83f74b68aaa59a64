package common

import (
	"strings"
	"unicode"
)

// Fold lower-cases s and reduces every run of characters that are not
// letters, marks or digits to a single space.  "Non-Compete," and
// "non compete" fold to the same string, and Devanagari vowel signs survive.
func Fold(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
			space = false
			continue
		}
		if !space {
			sb.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// FoldedText is a folded string prepared for whole-word phrase lookups.
type FoldedText struct {
	padded string
}

// NewFoldedText folds s once so repeated lookups stay cheap.
func NewFoldedText(s string) FoldedText {
	return FoldedText{padded: " " + Fold(s) + " "}
}

// Has reports whether the already-folded phrase occurs on word boundaries.
// An empty phrase never matches.
func (t FoldedText) Has(foldedPhrase string) bool {
	if foldedPhrase == "" {
		return false
	}
	return strings.Contains(t.padded, " "+foldedPhrase+" ")
}

// Count returns the number of non-overlapping whole-word occurrences.
// Adjacent occurrences share their separating space, so the scan resumes on
// the trailing space of each match.
func (t FoldedText) Count(foldedPhrase string) int {
	if foldedPhrase == "" {
		return 0
	}
	needle := " " + foldedPhrase + " "
	n := 0
	for rest := t.padded; ; {
		i := strings.Index(rest, needle)
		if i < 0 {
			return n
		}
		n++
		rest = rest[i+len(needle)-1:]
	}
}

// HasAny reports whether any phrase is present.
func (t FoldedText) HasAny(foldedPhrases []string) bool {
	for _, p := range foldedPhrases {
		if t.Has(p) {
			return true
		}
	}
	return false
}

// Tokens returns the folded words, or nil for blank text.
func (t FoldedText) Tokens() []string {
	return strings.Fields(t.padded)
}

// String returns the folded text without padding.
func (t FoldedText) String() string {
	return strings.TrimSpace(t.padded)
}

//Personal.AI order the ending
