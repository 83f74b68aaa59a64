// Package analyzer implements the deterministic stages of contract analysis:
// normalization, contract type detection, clause segmentation, template
// matching, classification, risk and ambiguity detection, scoring, entity
// extraction, suggestions and the executive summary.
//
// Every stage is a pure function of its inputs and the read-only catalog.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/ContractLens/pkg/errors"
)

// Normalizer converts raw contract text into the canonical form every later
// stage reads: NFC, ASCII punctuation, single spaces inside lines and at most
// one blank line between paragraphs.
type Normalizer struct {
	maxChars int
}

// NewNormalizer returns a Normalizer that rejects inputs longer than
// maxChars runes.  Zero disables the limit.
func NewNormalizer(maxChars int) *Normalizer {
	return &Normalizer{maxChars: maxChars}
}

var invisible = runes.Predicate(func(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
		return true
	}
	return false
})

// canonicalRune maps typographic variants onto the plain characters the
// segmenter and extractors look for.  Devanagari digits become ASCII so that
// amounts and dates in Hindi text are recognised.
func canonicalRune(r rune) rune {
	if r >= '\u0966' && r <= '\u096f' {
		return '0' + (r - '\u0966')
	}
	switch r {
	case '\u2018', '\u2019', '\u201a', '\u2032':
		return '\''
	case '\u201c', '\u201d', '\u201e', '\u2033':
		return '"'
	case '\u2010', '\u2011', '\u2012', '\u2013', '\u2014', '\u2212':
		return '-'
	case '\u00a0', '\u2009', '\u202f', '\t', '\v', '\f':
		return ' '
	case '\u2028', '\u2029', '\u0085':
		return '\n'
	}
	return r
}

var ligatures = strings.NewReplacer(
	"\ufb00", "ff", "\ufb01", "fi", "\ufb02", "fl", "\ufb03", "ffi", "\ufb04", "ffl",
	"\u2026", "...",
)

var (
	multiSpace = regexp.MustCompile(` {2,}`)
	pageMarker = regexp.MustCompile(`(?i)^(?:page\s+\d+(?:\s+of\s+\d+)?|-\s*\d+\s*-)$`)
)

// Normalize returns the canonical text or an InputError when nothing usable
// remains.
func (n *Normalizer) Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.InputError("contract text is empty")
	}
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "\ufffd")
	}
	if garbageRatio(raw) > 0.1 {
		return "", errors.InputError("contract text does not look like readable text")
	}

	t := transform.Chain(norm.NFC, runes.Remove(invisible), runes.Map(canonicalRune))
	text, _, err := transform.String(t, raw)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInputInvalid, "contract text could not be normalized")
	}
	text = ligatures.Replace(strings.ReplaceAll(text, "\r\n", "\n"))
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
		if pageMarker.MatchString(line) {
			continue
		}
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	text = strings.Join(out, "\n")

	if text == "" {
		return "", errors.InputError("contract text is empty after normalization")
	}
	if n.maxChars > 0 {
		if count := utf8.RuneCountInString(text); count > n.maxChars {
			return "", errors.InputError(fmt.Sprintf("contract text has %d characters, more than the %d allowed", count, n.maxChars))
		}
	}
	return text, nil
}

// garbageRatio is the share of runes that are replacement or non-space
// control characters, which signals binary input pasted as text.
func garbageRatio(s string) float64 {
	var total, bad int
	for _, r := range s {
		total++
		if r == utf8.RuneError || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			bad++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bad) / float64(total)
}

// IsMostlyDevanagari reports whether at least a third of the letters in s
// are Devanagari.
func IsMostlyDevanagari(s string) bool {
	var letters, deva int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Devanagari, r) {
			deva++
		}
	}
	return letters > 0 && deva*3 >= letters
}

//Personal.AI order the ending
