package analyzer

import (
	"fmt"
	"math"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// Severity weights of the composite score.
//
//	S = 6·High + 2·Medium + 4·(1 − e^(−Low/80))
//
// saturates as 100·(1 − e^(−S/16)).  The Low term is bounded by LowCap, so a
// contract of only Low clauses never scores above 22 however long it is.
// One High scores 31, forty Lows score 9.
const (
	WeightHigh   = 6.0
	WeightMedium = 2.0
	LowCap       = 4.0
	lowSpread    = 80.0
	saturation   = 16.0
)

// Interpretation bands.
const (
	BandSafe        = "Safe"
	BandNeedsReview = "Needs Review"
	BandHighRisk    = "High Risk"
)

// Aggregate folds per-clause risk levels into the composite score.  The score
// never decreases when a clause is added or its level is raised.
func Aggregate(entries []contract.RiskEntry) (contract.RiskScore, error) {
	var s float64
	var lows int
	for _, e := range entries {
		switch e.RiskLevel {
		case contract.RiskHigh:
			s += WeightHigh
		case contract.RiskMedium:
			s += WeightMedium
		case contract.RiskLow:
			lows++
		default:
			return contract.RiskScore{}, errors.InvariantViolation("risk entry has no valid level").
				WithDetail(fmt.Sprintf("clause_number=%d", e.ClauseNumber))
		}
	}
	s += LowCap * (1 - math.Exp(-float64(lows)/lowSpread))
	score := int(math.Round(100 * (1 - math.Exp(-s/saturation))))
	return contract.RiskScore{Composite: score, Interpretation: Interpret(score)}, nil
}

// Interpret maps a composite score to its presentation band.
func Interpret(score int) string {
	switch {
	case score <= 30:
		return BandSafe
	case score <= 60:
		return BandNeedsReview
	default:
		return BandHighRisk
	}
}

//Personal.AI order the ending
