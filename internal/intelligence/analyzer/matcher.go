package analyzer

import (
	"math"
	"sort"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// Match score = keywordShare*keywordWeight + headingOverlap*headingWeight.
const (
	keywordWeight = 0.7
	headingWeight = 0.3
)

// TemplateMatcher ranks a clause against a template library.
type TemplateMatcher struct {
	topN      int
	threshold float64
}

// NewTemplateMatcher keeps at most topN matches scoring at least threshold.
func NewTemplateMatcher(topN int, threshold float64) *TemplateMatcher {
	if topN <= 0 {
		topN = 3
	}
	return &TemplateMatcher{topN: topN, threshold: threshold}
}

// Threshold is the minimum score a match must reach.
func (m *TemplateMatcher) Threshold() float64 { return m.threshold }

// Match scores clause against every template and returns the best matches,
// highest first.  Ties keep library order.  The result is never nil.
func (m *TemplateMatcher) Match(clause contract.Clause, templates []*catalog.ClauseTemplate) []contract.TemplateMatch {
	body := common.NewFoldedText(clause.FullText())
	headingTokens := catalog.ContentTokens(clause.Heading)

	out := make([]contract.TemplateMatch, 0, m.topN)
	for _, t := range templates {
		var (
			matchedWeight float64
			matched       []string
		)
		seen := make(map[string]bool, len(t.Keywords))
		for i, kw := range t.FoldedKeywords {
			if body.Has(kw) && !seen[kw] {
				seen[kw] = true
				matchedWeight += t.Keywords[i].Weight
				matched = append(matched, t.Keywords[i].Term)
			}
		}
		if len(matched) == 0 {
			continue
		}
		score := keywordWeight*(matchedWeight/t.TotalWeight) + headingWeight*jaccard(headingTokens, t.HeadingTokens)
		if score < m.threshold {
			continue
		}
		out = append(out, contract.TemplateMatch{
			TemplateID:      t.ID,
			TemplateHeading: t.Heading,
			Intent:          t.Intent,
			MatchScore:      math.Min(1, math.Round(score*100)/100),
			MatchedKeywords: matched,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	if len(out) > m.topN {
		out = out[:m.topN]
	}
	return out
}

// jaccard is |a∩b| / |a∪b| over distinct tokens; zero when either is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	union := len(set)
	for _, t := range b {
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

//Personal.AI order the ending
