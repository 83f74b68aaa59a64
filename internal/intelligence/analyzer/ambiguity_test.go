package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

func phrases(flags []contract.AmbiguityFlag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.Phrase
	}
	return out
}

func TestDetectAmbiguity(t *testing.T) {
	text := "The Vendor shall use reasonable efforts to deliver within a reasonable time, " +
		"including but not limited to updates. Reasonable efforts apply to support and/or training."

	got := DetectAmbiguity(catalog.MustDefault(), text)
	p := phrases(got)
	assert.Contains(t, p, "reasonable time")
	assert.Contains(t, p, "reasonable efforts")
	assert.NotContains(t, p, "Reasonable efforts")
	assert.Contains(t, p, "including but not limited to / including without limitation")
	assert.Contains(t, p, "and/or")
	for _, f := range got {
		assert.NotEmpty(t, f.Reason)
	}
}

func TestDetectAmbiguity_Capped(t *testing.T) {
	var b strings.Builder
	for _, q := range []string{"reasonable", "appropriate", "timely", "forthwith"} {
		for _, n := range []string{"time", "period", "notice", "manner"} {
			fmt.Fprintf(&b, "Act with %s %s. ", q, n)
		}
	}
	got := DetectAmbiguity(catalog.MustDefault(), b.String())
	assert.Len(t, got, MaxAmbiguityFlags)
}

func TestDetectAmbiguity_Clean(t *testing.T) {
	got := DetectAmbiguity(catalog.MustDefault(), "The Client pays Rs 10,000 on 1 March 2024.")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

//Personal.AI order the ending
