package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

func levels(ls ...contract.RiskLevel) []contract.RiskEntry {
	out := make([]contract.RiskEntry, len(ls))
	for i, l := range ls {
		out[i] = contract.RiskEntry{ClauseNumber: i + 1, RiskLevel: l, Flags: []string{}}
	}
	return out
}

func score(t *testing.T, ls ...contract.RiskLevel) int {
	t.Helper()
	s, err := Aggregate(levels(ls...))
	require.NoError(t, err)
	return s.Composite
}

func TestAggregate_KnownValues(t *testing.T) {
	L, M, H := contract.RiskLow, contract.RiskMedium, contract.RiskHigh

	assert.Equal(t, 0, score(t))
	assert.Equal(t, 31, score(t, H))
	assert.Equal(t, 40, score(t, L, H, M))
	assert.Equal(t, 22, score(t, L, M, M))

	many := make([]contract.RiskLevel, 40)
	for i := range many {
		many[i] = L
	}
	assert.Equal(t, 9, score(t, many...))
}

func TestAggregate_LongLowContractStaysSafe(t *testing.T) {
	for _, n := range []int{150, 300, 1000, 20000} {
		s, err := Aggregate(levels(repeat(contract.RiskLow, n)...))
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Composite, 30, "n=%d", n)
		assert.Equal(t, BandSafe, s.Interpretation, "n=%d", n)
	}

	// A single High still outweighs any number of Lows.
	assert.Greater(t, score(t, contract.RiskHigh), score(t, repeat(contract.RiskLow, 5000)...))
}

func repeat(l contract.RiskLevel, n int) []contract.RiskLevel {
	out := make([]contract.RiskLevel, n)
	for i := range out {
		out[i] = l
	}
	return out
}

func TestAggregate_LowHighMediumBeatsLowMediumMedium(t *testing.T) {
	L, M, H := contract.RiskLow, contract.RiskMedium, contract.RiskHigh
	assert.Greater(t, score(t, L, H, M), score(t, L, M, M))
}

func TestAggregate_Monotonic(t *testing.T) {
	ls := []contract.RiskLevel{contract.RiskLow, contract.RiskLow, contract.RiskLow, contract.RiskLow}
	prev := score(t, ls...)
	for i := range ls {
		for ls[i] < contract.RiskHigh {
			ls[i]++
			cur := score(t, ls...)
			assert.GreaterOrEqual(t, cur, prev)
			prev = cur
		}
		cur := score(t, append(ls, contract.RiskLow)...)
		assert.GreaterOrEqual(t, cur, prev)
	}
	assert.LessOrEqual(t, prev, 100)
}

func TestAggregate_InvalidLevel(t *testing.T) {
	_, err := Aggregate([]contract.RiskEntry{{ClauseNumber: 1, RiskLevel: 0}})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestInterpret(t *testing.T) {
	assert.Equal(t, BandSafe, Interpret(0))
	assert.Equal(t, BandSafe, Interpret(30))
	assert.Equal(t, BandNeedsReview, Interpret(31))
	assert.Equal(t, BandNeedsReview, Interpret(60))
	assert.Equal(t, BandHighRisk, Interpret(61))

	s, err := Aggregate(levels(contract.RiskHigh))
	require.NoError(t, err)
	assert.Equal(t, BandNeedsReview, s.Interpretation)
}

//Personal.AI order the ending
