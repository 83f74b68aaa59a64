package analyzer

import (
	"strings"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// MaxAmbiguityFlags caps the contract-wide ambiguity findings.
const MaxAmbiguityFlags = 15

// DetectAmbiguity scans the whole document with the catalog's ambiguity
// rules.  Findings keep rule order, then match order, deduplicated by
// lower-cased phrase and reason.
func DetectAmbiguity(cat *catalog.Catalog, text string) []contract.AmbiguityFlag {
	out := []contract.AmbiguityFlag{}
	seen := map[string]bool{}
	add := func(phrase, reason string) bool {
		key := strings.ToLower(phrase) + "\x00" + reason
		if seen[key] {
			return true
		}
		seen[key] = true
		out = append(out, contract.AmbiguityFlag{Phrase: phrase, Reason: reason})
		return len(out) < MaxAmbiguityFlags
	}

	for _, rule := range cat.Ambiguity {
		switch rule.Mode {
		case catalog.AmbiguityOnce:
			if rule.Regexp.MatchString(text) && !add(rule.Phrase, rule.Reason) {
				return out
			}
		default:
			for _, m := range rule.Regexp.FindAllString(text, -1) {
				if !add(strings.Join(strings.Fields(m), " "), rule.Reason) {
					return out
				}
			}
		}
	}
	return out
}

//Personal.AI order the ending
