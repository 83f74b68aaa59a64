package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/ContractLens/pkg/errors"
)

func threeClauseTable() ClauseTable {
	mk := func(n int, heading string) ClauseAnalysis {
		return ClauseAnalysis{
			Clause:         Clause{ClauseNumber: n, Heading: heading, Text: "body", TextPreview: heading + "\nbody"},
			Intent:         IntentGeneral,
			ObligationType: ObligationInformational,
			BusinessImpact: "impact",
		}
	}
	return ClauseTable{
		SegmentationMode: SegmentationHeadings,
		Clauses:          []ClauseAnalysis{mk(1, "1. Scope"), mk(2, "2. Indemnity"), mk(3, "3. Renewal")},
	}
}

func threeClauseRisks() RiskAnalysis {
	return RiskAnalysis{
		ClauseRisks: []RiskEntry{
			{ClauseNumber: 1, Heading: "1. Scope", RiskLevel: RiskLow},
			{ClauseNumber: 2, Heading: "2. Indemnity", RiskLevel: RiskHigh, Flags: []string{"indemnity"}},
			{ClauseNumber: 3, Heading: "3. Renewal", RiskLevel: RiskMedium, Flags: []string{"auto_renewal"}},
		},
	}
}

func threeClauseSuggestions() []Suggestion {
	return []Suggestion{
		{ClauseNumber: 2, Heading: "2. Indemnity", RiskLevel: RiskHigh, SuggestedChange: "cap it", WhyItHelps: "x"},
		{ClauseNumber: 3, Heading: "3. Renewal", RiskLevel: RiskMedium, SuggestedChange: "opt out", WhyItHelps: "y"},
	}
}

func fullBuilder() *ResultBuilder {
	return NewResultBuilder().
		ContractOverview(ContractOverview{ContractType: "Service Agreement", Explanation: "e"}).
		Language(LanguageEnglish).
		Entities(Entities{}).
		Clauses(threeClauseTable()).
		RiskAnalysis(threeClauseRisks()).
		Suggestions(threeClauseSuggestions()).
		ExecutiveSummary(ExecutiveSummary{Overview: "o"}).
		RiskScore(RiskScore{Composite: 40, Interpretation: "Needs Review"}).
		BestPractices(BestPractices{Recommendations: []string{"r"}})
}

func TestBuild_Complete(t *testing.T) {
	res, err := fullBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, res.ClauseNumbers())
	assert.Len(t, res.Suggestions, 2)
}

func TestBuild_MissingSection(t *testing.T) {
	b := NewResultBuilder().
		ContractOverview(ContractOverview{ContractType: "x"}).
		Language(LanguageEnglish)

	res, err := b.Build()
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeResultIncomplete))
	assert.Contains(t, err.Error(), "section=entities")
}

func TestBuild_SectionContributedTwice(t *testing.T) {
	b := fullBuilder().Language(LanguageHindi)
	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language")
}

func TestBuild_SingleUse(t *testing.T) {
	b := fullBuilder()
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.Error(t, err)
}

func TestBuild_InputsAreCopied(t *testing.T) {
	table := threeClauseTable()
	risks := threeClauseRisks()
	b := NewResultBuilder().
		ContractOverview(ContractOverview{}).
		Language(LanguageEnglish).
		Entities(Entities{Parties: []Party{{Name: "Acme"}}}).
		Clauses(table).
		RiskAnalysis(risks).
		Suggestions(threeClauseSuggestions()).
		ExecutiveSummary(ExecutiveSummary{}).
		RiskScore(RiskScore{}).
		BestPractices(BestPractices{})

	table.Clauses[0].Heading = "mutated"
	risks.ClauseRisks[1].Flags[0] = "mutated"

	res, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "1. Scope", res.Clauses.Clauses[0].Heading)
	assert.Equal(t, "indemnity", res.RiskAnalysis.ClauseRisks[1].Flags[0])
}

func TestBuild_EmptySlicesMarshalAsArrays(t *testing.T) {
	res, err := fullBuilder().Build()
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"parties":[]`)
	assert.Contains(t, string(raw), `"ambiguity_flags":[]`)
	assert.NotContains(t, string(raw), "null")
}

func TestValidate_Invariants(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *AnalysisResult)
	}{
		{"gap in clause numbers", func(r *AnalysisResult) { r.Clauses.Clauses[2].ClauseNumber = 4 }},
		{"risk table short", func(r *AnalysisResult) { r.RiskAnalysis.ClauseRisks = r.RiskAnalysis.ClauseRisks[:2] }},
		{"risk entry foreign clause", func(r *AnalysisResult) { r.RiskAnalysis.ClauseRisks[0].ClauseNumber = 9 }},
		{"invalid level", func(r *AnalysisResult) { r.RiskAnalysis.ClauseRisks[0].RiskLevel = 0 }},
		{"suggestion foreign clause", func(r *AnalysisResult) { r.Suggestions[0].ClauseNumber = 7 }},
		{"suggestion for low clause", func(r *AnalysisResult) {
			r.Suggestions = append(r.Suggestions, Suggestion{ClauseNumber: 1, RiskLevel: RiskLow})
		}},
		{"missing suggestion", func(r *AnalysisResult) { r.Suggestions = r.Suggestions[:1] }},
		{"duplicate suggestion", func(r *AnalysisResult) { r.Suggestions = append(r.Suggestions, r.Suggestions[0]) }},
		{"fairness foreign clause", func(r *AnalysisResult) {
			r.RiskAnalysis.FairnessFlags = []FairnessFlag{{ClauseNumber: 11}}
		}},
		{"score out of range", func(r *AnalysisResult) { r.RiskScore.Composite = 101 }},
		{"empty table", func(r *AnalysisResult) { r.Clauses.Clauses = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := fullBuilder().Build()
			require.NoError(t, err)
			tc.mutate(res)
			err = res.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsInvariantViolation(err))
		})
	}
}

//Personal.AI order the ending
