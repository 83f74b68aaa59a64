package analyzer

import (
	"sort"
	"strings"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

const (
	genericSuggestion = "Ask for balanced, clearly limited wording here, with obligations that apply equally to both parties."
	genericRationale  = "Balanced wording lowers the chance of disputes and unexpected costs."
)

// SuggestionGenerator turns Medium and High risk entries into renegotiation
// suggestions.
type SuggestionGenerator struct {
	cat *catalog.Catalog
}

func NewSuggestionGenerator(cat *catalog.Catalog) *SuggestionGenerator {
	return &SuggestionGenerator{cat: cat}
}

// Generate returns one suggestion per Medium or High entry, in entry order.
// Low entries never produce one.  The result is never nil.
func (g *SuggestionGenerator) Generate(entries []contract.RiskEntry) []contract.Suggestion {
	out := []contract.Suggestion{}
	for _, e := range entries {
		if !e.RiskLevel.NeedsSuggestion() {
			continue
		}
		out = append(out, g.suggest(e))
	}
	return out
}

func (g *SuggestionGenerator) suggest(e contract.RiskEntry) contract.Suggestion {
	patterns := make([]*catalog.RiskPattern, 0, len(e.Flags))
	for _, f := range e.Flags {
		if p, ok := g.cat.Pattern(f); ok {
			patterns = append(patterns, p)
		}
	}
	sort.SliceStable(patterns, func(i, j int) bool { return patterns[i].Weight > patterns[j].Weight })

	var changes []string
	rationale := ""
	for _, p := range patterns {
		if p.Suggestion == "" {
			continue
		}
		changes = append(changes, strings.TrimSpace(p.Suggestion))
		if rationale == "" {
			rationale = p.Rationale
		}
	}
	change := strings.Join(changes, " ")
	if change == "" {
		change = genericSuggestion
	}
	if rationale == "" {
		rationale = genericRationale
	}

	why := rationale
	if len(e.Flags) > 0 {
		why = "Addresses " + strings.Join(e.Flags, ", ") + ". " + rationale
	}
	return contract.Suggestion{
		ClauseNumber:    e.ClauseNumber,
		Heading:         e.Heading,
		RiskLevel:       e.RiskLevel,
		SuggestedChange: change,
		WhyItHelps:      why,
	}
}

//Personal.AI order the ending
