package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// MaxTerminationConditions caps the termination conditions list.
const MaxTerminationConditions = 10

const maxPartyNameRunes = 200

var (
	// Acme Pvt Ltd, a company ... (hereinafter referred to as the "Client")
	partyDefinition = regexp.MustCompile(`([A-Z][A-Za-z0-9&.' /-]{1,120}?)(?:,[^()\n]{0,240}?)?\s*\((?i:hereinafter\s+(?:referred\s+to\s+as\s+|called\s+)?)?(?i:the\s+)?"([^"\n]{2,40})"\s*\)`)
	partyBetween    = regexp.MustCompile(`(?i)\bbetween\s+(.+?)\s+and\s+(.+?)(?:[,.;(\n]|$)`)
	leadIn          = regexp.MustCompile(`(?i)^.*\bbetween\s+`)

	governingLaw = regexp.MustCompile(`(?i:laws\s+of)\s+(?:the\s+)?([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)`)
	courtsAt     = regexp.MustCompile(`(?i:courts?)\s+(?i:at|in|of)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)`)

	durationStated = regexp.MustCompile(`(?i)\b(?:term|period|duration)\s+of\s+(?:this\s+)?(?:agreement|contract|lease|engagement|deed)\s+(?:shall\s+be|is|will\s+be)\s+(?:for\s+)?(?:a\s+period\s+of\s+)?([^.;\n]{1,80}?)(?:[.;\n]|$)`)
	durationPeriod = regexp.MustCompile(`(?i)\bfor\s+a\s+(?:period|term)\s+of\s+([a-z0-9]+(?:\s*\(\d+\))?\s+(?:days?|weeks?|months?|years?))`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?(?:January|February|March|April|May|June|July|August|September|October|November|December),?\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
	}

	amountPattern = regexp.MustCompile(`(?i)(?:\b(?:INR|Rs\.?|Rupees)|\x{20B9})\s*[.:]?\s*\d[\d,]*(?:\.\d{1,2})?(?:\s*(?:lakhs?|crores?|/-))?`)

	terminationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`terminat(?:e|ion)\s+(?:this\s+agreement\s+)?(?:for\s+cause|without\s+cause|for\s+convenience|upon\s+\d+\s+days?'?\s+(?:prior\s+)?(?:written\s+)?notice)`),
		regexp.MustCompile(`\d+\s+days?'?\s+(?:prior\s+)?written\s+notice`),
		regexp.MustCompile(`material\s+breach(?:\s+and\s+(?:failure\s+to\s+)?cure)?`),
		regexp.MustCompile(`either\s+party\s+may\s+terminate`),
		regexp.MustCompile(`(?:insolvency|bankruptcy|winding\s+up)`),
	}

	ipCues = []string{"intellectual property", "ip rights", "copyright", "trademark", "patent"}
)

// ExtractEntities reads parties, jurisdiction, duration, dates, amounts and
// termination conditions from the whole document.  Fields are extracted
// independently; the second return names the fields that failed and were
// left empty.
func ExtractEntities(text string) (contract.Entities, []string) {
	out := contract.Entities{
		Parties:               []contract.Party{},
		Dates:                 []string{},
		Amounts:               []string{},
		TerminationConditions: []string{},
	}
	var degraded []string
	field := func(name string, fn func()) {
		defer func() {
			if r := recover(); r != nil {
				degraded = append(degraded, fmt.Sprintf("entities.%s: %v", name, r))
			}
		}()
		fn()
	}

	field("parties", func() { out.Parties = extractParties(text) })
	field("jurisdiction", func() { out.Jurisdiction = extractJurisdiction(text) })
	field("duration", func() { out.Duration = extractDuration(text) })
	field("dates", func() { out.Dates = extractDates(text) })
	field("amounts", func() { out.Amounts = dedupe(amountPattern.FindAllString(text, -1)) })
	field("termination_conditions", func() { out.TerminationConditions = extractTermination(text) })
	field("flags", func() {
		folded := common.NewFoldedText(text)
		out.Flags = contract.EntityFlags{
			ConfidentialityClausePresent: folded.Has("confidential") || folded.Has("confidentiality"),
			IPClausePresent:              folded.HasAny(ipCues),
		}
	})
	return out, degraded
}

func extractParties(text string) []contract.Party {
	out := []contract.Party{}
	seen := map[string]bool{}
	add := func(name, role string) {
		name = strings.Trim(strings.Join(strings.Fields(name), " "), " ,;:")
		name = strings.TrimPrefix(name, "and ")
		key := strings.ToLower(name)
		if name == "" || len([]rune(name)) > maxPartyNameRunes || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, contract.Party{Name: name, Role: role})
	}

	for _, m := range partyDefinition.FindAllStringSubmatch(text, -1) {
		add(leadIn.ReplaceAllString(m[1], ""), strings.TrimSpace(m[2]))
	}
	if len(out) > 0 {
		return out
	}
	if m := partyBetween.FindStringSubmatch(text); m != nil {
		add(m[1], "")
		add(m[2], "")
	}
	return out
}

func extractJurisdiction(text string) string {
	var law, courts string
	if m := governingLaw.FindStringSubmatch(text); m != nil {
		law = m[1]
	}
	if m := courtsAt.FindStringSubmatch(text); m != nil {
		courts = m[1]
	}
	switch {
	case law != "" && courts != "":
		return law + " (courts at " + courts + ")"
	case law != "":
		return law
	case courts != "":
		return "Courts at " + courts
	}
	return ""
}

func extractDuration(text string) string {
	if m := durationStated.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := durationPeriod.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractDates returns dates in document order; overlapping matches keep
// the earliest, longest one.
func extractDates(text string) []string {
	type span struct{ start, end int }
	var spans []span
	for _, re := range datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{loc[0], loc[1]})
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	var found []string
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		found = append(found, text[s.start:s.end])
		lastEnd = s.end
	}
	return dedupe(found)
}

func extractTermination(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, re := range terminationPatterns {
		for _, m := range re.FindAllString(lower, -1) {
			found = append(found, strings.Join(strings.Fields(m), " "))
		}
	}
	found = dedupe(found)
	if len(found) > MaxTerminationConditions {
		found = found[:MaxTerminationConditions]
	}
	return found
}

// dedupe keeps the first occurrence of each string; the result is never nil.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

//Personal.AI order the ending
