package analyzer

import (
	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// DetectContractType walks the catalog cascade and returns the first type
// whose cues appear in text, or the trailing fallback.  The returned id
// scopes the template library and best practices.
func DetectContractType(cat *catalog.Catalog, text string) (string, contract.ContractOverview) {
	folded := common.NewFoldedText(text)
	for _, ct := range cat.ContractTypes {
		if len(ct.Folded) == 0 || folded.HasAny(ct.Folded) {
			return ct.ID, contract.ContractOverview{ContractType: ct.Name, Explanation: ct.Explanation}
		}
	}
	// compile guarantees a keyword-free fallback, so this is unreachable.
	last := cat.ContractTypes[len(cat.ContractTypes)-1]
	return last.ID, contract.ContractOverview{ContractType: last.Name, Explanation: last.Explanation}
}

//Personal.AI order the ending
