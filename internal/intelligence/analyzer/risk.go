package analyzer

import (
	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// Weight thresholds for clause risk levels.
const (
	HighWeight   = 7
	MediumWeight = 4
)

// LevelForWeight maps the highest matched pattern weight to a risk level.
func LevelForWeight(w int) contract.RiskLevel {
	switch {
	case w >= HighWeight:
		return contract.RiskHigh
	case w >= MediumWeight:
		return contract.RiskMedium
	default:
		return contract.RiskLow
	}
}

// RiskAnalyzer evaluates the risk pattern catalog against classified clauses.
type RiskAnalyzer struct {
	patterns []catalog.RiskPattern
}

func NewRiskAnalyzer(cat *catalog.Catalog) *RiskAnalyzer {
	return &RiskAnalyzer{patterns: cat.RiskPatterns}
}

// Assess returns the clause's risk entry.  Flags follow catalog order and are
// never nil; a clause with no flags is Low.
func (r *RiskAnalyzer) Assess(a contract.ClauseAnalysis) contract.RiskEntry {
	text := common.NewFoldedText(a.FullText())
	flags := []string{}
	maxWeight := 0
	for i := range r.patterns {
		p := &r.patterns[i]
		w, ok := p.Evaluate(text, a.Intent, a.ObligationType)
		if !ok {
			continue
		}
		flags = append(flags, p.Flag)
		if w > maxWeight {
			maxWeight = w
		}
	}
	return contract.RiskEntry{
		ClauseNumber: a.ClauseNumber,
		Heading:      a.Heading,
		RiskLevel:    LevelForWeight(maxWeight),
		Flags:        flags,
	}
}

// DegradedRisk is the conservative entry for a clause whose stages did not
// finish.
func DegradedRisk(clause contract.Clause) contract.RiskEntry {
	return contract.RiskEntry{
		ClauseNumber: clause.ClauseNumber,
		Heading:      clause.Heading,
		RiskLevel:    contract.RiskLow,
		Flags:        []string{},
	}
}

// FairnessFlags lists every clause that raised at least one flag.
func FairnessFlags(entries []contract.RiskEntry) []contract.FairnessFlag {
	out := []contract.FairnessFlag{}
	for _, e := range entries {
		if len(e.Flags) == 0 {
			continue
		}
		out = append(out, contract.FairnessFlag{
			ClauseNumber:          e.ClauseNumber,
			Heading:               e.Heading,
			OneSidedOrRiskyForSME: true,
			Flags:                 append([]string{}, e.Flags...),
		})
	}
	return out
}

//Personal.AI order the ending
