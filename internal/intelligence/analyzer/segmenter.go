package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// PreambleHeading names the clause holding text that precedes the first
// heading.
const PreambleHeading = "Preamble"

var (
	// Top-level headings: "1. Term", "2) Fees", "12 Payment", "IV. Term",
	// "A. Scope", "Article 3", "Section 4.".
	numberedHeading = regexp.MustCompile(`^(\d{1,3})(?:[.)]\s+|\s+[A-Z"'])`)
	// "12 Payment" has no delimiter after the number, so it is only a heading
	// when the line before it finished a sentence.
	bareNumbered = regexp.MustCompile(`^\d{1,3}\s`)
	romanHeading    = regexp.MustCompile(`^[IVXL]{1,6}[.)]\s+\S`)
	letterHeading   = regexp.MustCompile(`^[A-Z][.)]\s+\S`)
	keywordHeading  = regexp.MustCompile(`(?i)^(?:article|section|clause|schedule|annexure)\s+[0-9IVXL]+\b`)

	// Sub-items grouped under the current clause: "1.1", "2.3.1", "(a)", "b)", "(iv)".
	subNumbered = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3})+[.)]?\s+\S`)
	subLettered = regexp.MustCompile(`^(?:\([a-z]\)|[a-z]\))\s+\S`)
	subRoman    = regexp.MustCompile(`^\((?:i|ii|iii|iv|v|vi|vii|viii|ix|x)\)\s+\S`)

	// Splits "1. Payment. The Client shall pay" into heading and body.
	headingDelimiter = regexp.MustCompile(`[.:]\s+|\s+-\s+`)
	headingMarker    = regexp.MustCompile(`^(?:\d{1,3}[.)]?|[IVXL]{1,6}[.)]|[A-Z][.)]|(?i:article|section|clause|schedule|annexure)\s+[0-9IVXL]+[.:]?)\s*`)
)

const (
	maxCapsHeadingWords = 10
	maxTitleRunes       = 60
	maxHeadingLineRunes = 80
)

// Segmentation is the ordered clause list and how it was found.
type Segmentation struct {
	Mode    contract.SegmentationMode
	Clauses []contract.Clause
}

// Segmenter splits normalized text into numbered clauses.
type Segmenter struct {
	previewChars int
}

// NewSegmenter returns a Segmenter whose previews hold at most previewChars
// runes.
func NewSegmenter(previewChars int) *Segmenter {
	if previewChars <= 0 {
		previewChars = 500
	}
	return &Segmenter{previewChars: previewChars}
}

type lineKind int

const (
	lineBody lineKind = iota
	lineHeading
	lineSub
)

// continuesSentence reports whether line is a wrapped continuation of the
// body line directly above it, as in "within\n30 Days of receipt.".
func continuesSentence(line, prev string) bool {
	if prev == "" || !bareNumbered.MatchString(line) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev)
	return !strings.ContainsRune(".;:!?\"'", last)
}

func classifyLine(line string) lineKind {
	switch {
	case subNumbered.MatchString(line), subLettered.MatchString(line), subRoman.MatchString(line):
		return lineSub
	case numberedHeading.MatchString(line), romanHeading.MatchString(line),
		letterHeading.MatchString(line), keywordHeading.MatchString(line), isCapsHeading(line):
		return lineHeading
	}
	return lineBody
}

// isCapsHeading accepts short all-capitals lines such as "CONFIDENTIALITY" or
// "TERM AND TERMINATION".
func isCapsHeading(line string) bool {
	if utf8.RuneCountInString(line) < 5 || len(strings.Fields(line)) > maxCapsHeadingWords {
		return false
	}
	letters := 0
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		case unicode.IsDigit(r), unicode.IsSpace(r), strings.ContainsRune("-,&/()'.:", r):
		default:
			return false
		}
	}
	return letters >= 4
}

// splitHeading separates a heading line into its title and any body text
// that follows on the same line.
func splitHeading(line string) (heading, body string) {
	if utf8.RuneCountInString(line) <= maxHeadingLineRunes && !headingDelimiter.MatchString(afterMarker(line)) {
		return line, ""
	}
	marker := headingMarker.FindString(line)
	rest := line[len(marker):]
	if loc := headingDelimiter.FindStringIndex(rest); loc != nil {
		if title := strings.TrimSpace(rest[:loc[0]]); isTitle(title) {
			return strings.TrimSpace(marker + title), strings.TrimSpace(rest[loc[1]:])
		}
	}
	if utf8.RuneCountInString(line) <= maxHeadingLineRunes {
		return line, ""
	}
	return strings.TrimSpace(marker), strings.TrimSpace(rest)
}

var (
	sentenceWords = map[string]bool{
		"shall": true, "will": true, "must": true, "may": true, "is": true, "are": true,
		"be": true, "agrees": true, "means": true, "pay": true,
	}
	abbreviations = map[string]bool{
		"rs": true, "no": true, "mr": true, "ms": true, "mrs": true, "dr": true,
		"co": true, "ltd": true, "pvt": true, "inc": true, "st": true,
	}
)

// isTitle accepts short heading titles such as "Payment" or "Limitation of
// Liability" and rejects sentence fragments like "The Client shall pay Rs".
func isTitle(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 6 || utf8.RuneCountInString(s) > maxTitleRunes {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(first) {
		return false
	}
	for _, w := range words {
		if sentenceWords[strings.ToLower(w)] {
			return false
		}
	}
	return !abbreviations[strings.ToLower(words[len(words)-1])]
}

func afterMarker(line string) string {
	return line[len(headingMarker.FindString(line)):]
}

type clauseDraft struct {
	heading string
	body    []string
	subs    []contract.SubClause
}

func (d *clauseDraft) addBody(line string) {
	if n := len(d.subs); n > 0 {
		s := &d.subs[n-1]
		if s.Text == "" {
			s.Text = line
		} else {
			s.Text += "\n" + line
		}
	}
	d.body = append(d.body, line)
}

// Segment is a pure function of text.  It never fails: a document without
// any boundary becomes a single clause.
func (s *Segmenter) Segment(text string) Segmentation {
	var (
		drafts   []*clauseDraft
		current  *clauseDraft
		headings int
		prevBody string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			prevBody = ""
			continue
		}
		kind := classifyLine(line)
		if kind == lineHeading && continuesSentence(line, prevBody) {
			kind = lineBody
		}
		if kind == lineSub && current == nil {
			kind = lineHeading
		}
		if kind == lineHeading {
			prevBody = ""
		} else {
			prevBody = line
		}
		switch kind {
		case lineHeading:
			headings++
			heading, rest := splitHeading(line)
			current = &clauseDraft{heading: heading}
			drafts = append(drafts, current)
			if rest != "" {
				current.body = append(current.body, rest)
			}
		case lineSub:
			current.subs = append(current.subs, contract.SubClause{Heading: line})
			current.body = append(current.body, line)
		default:
			if current == nil {
				current = &clauseDraft{heading: PreambleHeading}
				drafts = append(drafts, current)
			}
			current.addBody(line)
		}
	}

	if headings > 0 {
		return Segmentation{Mode: contract.SegmentationHeadings, Clauses: s.number(drafts)}
	}

	paragraphs := splitParagraphs(text)
	if len(paragraphs) > 1 {
		drafts = drafts[:0]
		for _, p := range paragraphs {
			drafts = append(drafts, &clauseDraft{body: strings.Split(p, "\n")})
		}
		return Segmentation{Mode: contract.SegmentationParagraphs, Clauses: s.number(drafts)}
	}
	return Segmentation{
		Mode:    contract.SegmentationSingle,
		Clauses: s.number([]*clauseDraft{{body: []string{strings.TrimSpace(text)}}}),
	}
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Segmenter) number(drafts []*clauseDraft) []contract.Clause {
	out := make([]contract.Clause, len(drafts))
	for i, d := range drafts {
		c := contract.Clause{
			ClauseNumber: i + 1,
			Heading:      d.heading,
			Text:         strings.Join(d.body, "\n"),
			SubClauses:   append([]contract.SubClause{}, d.subs...),
		}
		c.TextPreview = Preview(c.FullText(), s.previewChars)
		out[i] = c
	}
	return out
}

// Preview returns the first n runes of s.
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

//Personal.AI order the ending
