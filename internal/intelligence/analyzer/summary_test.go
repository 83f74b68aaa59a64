package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

func TestCompose(t *testing.T) {
	s := NewSummaryComposer(catalog.MustDefault())
	in := SummaryInput{
		Overview:     contract.ContractOverview{ContractType: "Service Agreement"},
		BusinessRole: "vendor",
		Clauses: []contract.ClauseAnalysis{
			{Clause: contract.Clause{ClauseNumber: 1, Heading: "Scope"}, ObligationType: contract.ObligationDuty},
			{Clause: contract.Clause{ClauseNumber: 2, Heading: "Non-compete"}, ObligationType: contract.ObligationProhibition},
			{Clause: contract.Clause{ClauseNumber: 3}, ObligationType: contract.ObligationInformational},
		},
		Risks: []contract.RiskEntry{
			{ClauseNumber: 1, Heading: "Scope", RiskLevel: contract.RiskMedium, Flags: []string{"arbitration_and_jurisdiction"}},
			{ClauseNumber: 2, Heading: "Non-compete", RiskLevel: contract.RiskHigh, Flags: []string{"confidentiality", "lock_in_or_non_cancellable"}},
			{ClauseNumber: 3, RiskLevel: contract.RiskLow, Flags: []string{}},
		},
		Suggestions: []contract.Suggestion{
			{ClauseNumber: 1, Heading: "Scope", SuggestedChange: "Use mediation first."},
			{ClauseNumber: 2, Heading: "Non-compete", SuggestedChange: "Drop the lock-in."},
		},
	}

	got := s.Compose(in)
	assert.Equal(t, "This appears to be a Service Agreement drafted in an Indian business context. "+
		"It has 3 clauses: 1 high, 1 medium and 1 low risk. The review is written for you as the vendor.", got.Overview)

	assert.Equal(t, []string{
		`Clause 1 ("Scope") sets out something a party must do.`,
		`Clause 2 ("Non-compete") restricts what a party may do.`,
	}, got.KeyObligations)

	lockIn, _ := catalog.MustDefault().Pattern("lock_in_or_non_cancellable")
	arb, _ := catalog.MustDefault().Pattern("arbitration_and_jurisdiction")
	require.Len(t, got.BiggestRisks, 2)
	assert.Equal(t, `Clause 2 ("Non-compete") (High risk): `+lockIn.Summary, got.BiggestRisks[0])
	assert.Equal(t, `Clause 1 ("Scope") (Medium risk): `+arb.Summary, got.BiggestRisks[1])

	assert.Equal(t, []string{
		`Clause 1 ("Scope"): Use mediation first.`,
		`Clause 2 ("Non-compete"): Drop the lock-in.`,
	}, got.NegotiationChecklist)
}

func TestCompose_EmptyListsAndCaps(t *testing.T) {
	s := NewSummaryComposer(catalog.MustDefault())
	got := s.Compose(SummaryInput{Overview: contract.ContractOverview{ContractType: "NDA"}})
	assert.NotNil(t, got.KeyObligations)
	assert.NotNil(t, got.BiggestRisks)
	assert.NotNil(t, got.NegotiationChecklist)
	assert.Contains(t, got.Overview, "It has 0 clauses")

	var risks []contract.RiskEntry
	var suggestions []contract.Suggestion
	for i := 1; i <= 12; i++ {
		risks = append(risks, contract.RiskEntry{ClauseNumber: i, RiskLevel: contract.RiskHigh, Flags: []string{"indemnity"}})
		suggestions = append(suggestions, contract.Suggestion{ClauseNumber: i, SuggestedChange: fmt.Sprintf("change %d", i)})
	}
	got = s.Compose(SummaryInput{Risks: risks, Suggestions: suggestions})
	assert.Len(t, got.BiggestRisks, MaxBiggestRisks)
	assert.Len(t, got.NegotiationChecklist, MaxChecklistItems)
	assert.Equal(t, "Clause 1: change 1", got.NegotiationChecklist[0])
}

func TestCompose_UnknownFlagHeadline(t *testing.T) {
	got := NewSummaryComposer(catalog.MustDefault()).Compose(SummaryInput{
		Risks: []contract.RiskEntry{{ClauseNumber: 4, RiskLevel: contract.RiskMedium, Flags: []string{"mystery"}}},
	})
	assert.Equal(t, []string{"Clause 4 (Medium risk): general exposure for your business."}, got.BiggestRisks)
}

//Personal.AI order the ending
