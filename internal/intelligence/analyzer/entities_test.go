package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractLens/pkg/types/contract"
)

func TestExtractEntities_Sample(t *testing.T) {
	got, degraded := ExtractEntities(sampleContract(t))
	require.Empty(t, degraded)

	assert.Equal(t, []contract.Party{
		{Name: "Acme Traders Pvt Ltd", Role: "Client"},
		{Name: "Bright Services LLP", Role: "Service Provider"},
	}, got.Parties)
	assert.Equal(t, "India (courts at Mumbai)", got.Jurisdiction)
	assert.Equal(t, "two years", got.Duration)
	assert.Equal(t, []string{"1 January 2024"}, got.Dates)
	assert.Equal(t, []string{"INR 1,50,000"}, got.Amounts)
	assert.True(t, got.Flags.ConfidentialityClausePresent)
	assert.False(t, got.Flags.IPClausePresent)
	assert.NotNil(t, got.TerminationConditions)
}

func TestExtractEntities_Empty(t *testing.T) {
	got, degraded := ExtractEntities("Nothing useful.")
	assert.Empty(t, degraded)
	assert.NotNil(t, got.Parties)
	assert.NotNil(t, got.Dates)
	assert.NotNil(t, got.Amounts)
	assert.NotNil(t, got.TerminationConditions)
	assert.Empty(t, got.Jurisdiction)
	assert.Empty(t, got.Duration)
}

func TestExtractParties_BetweenFallback(t *testing.T) {
	got := extractParties("This deed is made between Ravi Kumar and Sita Devi, both of Delhi.")
	assert.Equal(t, []contract.Party{{Name: "Ravi Kumar"}, {Name: "Sita Devi"}}, got)
}

func TestExtractParties_Dedupes(t *testing.T) {
	got := extractParties(`Acme Ltd (the "Client") and ACME LTD (the "Buyer")`)
	require.Len(t, got, 1)
	assert.Equal(t, "Client", got[0].Role)
}

func TestExtractJurisdiction(t *testing.T) {
	assert.Equal(t, "India", extractJurisdiction("governed by the laws of India."))
	assert.Equal(t, "Courts at Bengaluru", extractJurisdiction("The courts in Bengaluru have jurisdiction."))
	assert.Empty(t, extractJurisdiction("No forum is named."))
}

func TestExtractDuration(t *testing.T) {
	assert.Equal(t, "11 months", extractDuration("The lease is granted for a period of 11 months from today."))
	assert.Equal(t, "three (3) years", extractDuration("The term of this Agreement shall be three (3) years."))
}

func TestExtractDates_Ordered(t *testing.T) {
	got := extractDates("Signed on March 5, 2024 and effective from 01/04/2024, renewing on 1st day of April, 2025.")
	assert.Equal(t, []string{"March 5, 2024", "01/04/2024", "1st day of April, 2025"}, got)
}

func TestExtractAmounts(t *testing.T) {
	got, _ := ExtractEntities("Rent is Rs. 25,000/- per month, deposit ₹ 1,00,000 and fee Rupees 500.")
	assert.Equal(t, []string{"Rs. 25,000/-", "₹ 1,00,000", "Rupees 500"}, got.Amounts)
}

func TestExtractTermination(t *testing.T) {
	got := extractTermination("Either party may terminate this Agreement with 30 days written notice. " +
		"The Client may terminate for cause on material breach and failure to cure.")
	assert.Equal(t, []string{
		"terminate for cause",
		"30 days written notice",
		"material breach and failure to cure",
		"either party may terminate",
	}, got)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", " ", "b", "a"}))
	assert.NotNil(t, dedupe(nil))
}

//Personal.AI order the ending
