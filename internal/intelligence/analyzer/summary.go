package analyzer

import (
	"fmt"
	"strings"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// Caps on executive summary lists.
const (
	MaxKeyObligations = 10
	MaxBiggestRisks   = 5
	MaxChecklistItems = 10
)

// SummaryComposer writes the executive summary from finished stage outputs.
// It reads its inputs and never re-judges risk.
type SummaryComposer struct {
	cat *catalog.Catalog
}

func NewSummaryComposer(cat *catalog.Catalog) *SummaryComposer {
	return &SummaryComposer{cat: cat}
}

// SummaryInput groups the stage outputs a summary is written from.
type SummaryInput struct {
	Overview     contract.ContractOverview
	BusinessRole string
	Clauses      []contract.ClauseAnalysis
	Risks        []contract.RiskEntry
	Suggestions  []contract.Suggestion
}

// Compose builds the executive summary.  Lists are never nil.
func (s *SummaryComposer) Compose(in SummaryInput) contract.ExecutiveSummary {
	return contract.ExecutiveSummary{
		Overview:             s.overview(in),
		KeyObligations:       keyObligations(in.Clauses),
		BiggestRisks:         s.biggestRisks(in.Risks),
		NegotiationChecklist: checklist(in.Suggestions),
	}
}

func (s *SummaryComposer) overview(in SummaryInput) string {
	var high, medium, low int
	for _, r := range in.Risks {
		switch r.RiskLevel {
		case contract.RiskHigh:
			high++
		case contract.RiskMedium:
			medium++
		default:
			low++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "This appears to be a %s drafted in an Indian business context. ", in.Overview.ContractType)
	fmt.Fprintf(&b, "It has %d %s: %d high, %d medium and %d low risk.",
		len(in.Risks), plural(len(in.Risks), "clause", "clauses"), high, medium, low)
	if role := strings.TrimSpace(in.BusinessRole); role != "" {
		fmt.Fprintf(&b, " The review is written for you as the %s.", role)
	}
	return b.String()
}

func keyObligations(clauses []contract.ClauseAnalysis) []string {
	out := []string{}
	for _, c := range clauses {
		if len(out) == MaxKeyObligations {
			break
		}
		switch c.ObligationType {
		case contract.ObligationDuty:
			out = append(out, clauseLabel(c.ClauseNumber, c.Heading)+" sets out something a party must do.")
		case contract.ObligationProhibition:
			out = append(out, clauseLabel(c.ClauseNumber, c.Heading)+" restricts what a party may do.")
		}
	}
	return out
}

func (s *SummaryComposer) biggestRisks(risks []contract.RiskEntry) []string {
	out := []string{}
	for _, level := range []contract.RiskLevel{contract.RiskHigh, contract.RiskMedium} {
		for _, r := range risks {
			if len(out) == MaxBiggestRisks {
				return out
			}
			if r.RiskLevel != level {
				continue
			}
			out = append(out, fmt.Sprintf("%s (%s risk): %s", clauseLabel(r.ClauseNumber, r.Heading), r.RiskLevel, s.headline(r.Flags)))
		}
	}
	return out
}

// headline is the summary of the heaviest flag.
func (s *SummaryComposer) headline(flags []string) string {
	var top *catalog.RiskPattern
	for _, f := range flags {
		if p, ok := s.cat.Pattern(f); ok && (top == nil || p.Weight > top.Weight) {
			top = p
		}
	}
	if top == nil || top.Summary == "" {
		return "general exposure for your business."
	}
	return top.Summary
}

func checklist(suggestions []contract.Suggestion) []string {
	out := []string{}
	for _, sg := range suggestions {
		if len(out) == MaxChecklistItems {
			break
		}
		out = append(out, clauseLabel(sg.ClauseNumber, sg.Heading)+": "+sg.SuggestedChange)
	}
	return out
}

func clauseLabel(n int, heading string) string {
	if heading == "" {
		return fmt.Sprintf("Clause %d", n)
	}
	return fmt.Sprintf("Clause %d (%q)", n, heading)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

//Personal.AI order the ending
