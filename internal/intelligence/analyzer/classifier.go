package analyzer

import (
	"context"
	"strings"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// GenericImpact is the business impact of a clause whose analysis degraded.
const GenericImpact = "This clause could not be analysed in time; read it carefully before signing."

// headingBoost multiplies keyword hits found in a clause heading.
const headingBoost = 2

// obligationMarkers are checked in order; the first type with a hit wins.
var obligationMarkers = []struct {
	kind    contract.ObligationType
	markers []string
}{
	{contract.ObligationProhibition, []string{"shall not", "must not", "will not", "may not", "prohibited", "no party shall", "not be permitted"}},
	{contract.ObligationDuty, []string{"shall", "must", "agrees to", "undertakes to", "is required to", "will"}},
	{contract.ObligationRight, []string{"may", "entitled to", "reserves the right", "has the right", "at its option"}},
	{contract.ObligationConditional, []string{"subject to", "provided that", "if", "in the event that", "in case"}},
}

var obligationImpact = map[contract.ObligationType]string{
	contract.ObligationProhibition:   "It stops a party from doing something, and a breach can trigger penalties or termination.",
	contract.ObligationDuty:          "It requires a party to act, and missing it may put that party in breach.",
	contract.ObligationRight:         "It gives a party a choice or benefit it can exercise.",
	contract.ObligationConditional:   "It only applies when certain conditions or events occur.",
	contract.ObligationInformational: "It explains background or definitions without requiring direct action.",
}

// Explainer writes an optional one-sentence plain-language explanation.
type Explainer interface {
	ExplainClause(ctx context.Context, heading, text, intent string) (string, error)
}

// Classifier assigns intent, obligation type and business impact to clauses.
type Classifier struct {
	cat       *catalog.Catalog
	explainer Explainer
}

// NewClassifier builds a classifier.  explainer may be nil.
func NewClassifier(cat *catalog.Catalog, explainer Explainer) *Classifier {
	return &Classifier{cat: cat, explainer: explainer}
}

// Classify tags a clause.  The top template match decides the intent; without
// one, keyword frequency does.  The returned error only reports a failed
// explanation, in which case the analysis still carries the deterministic
// business impact.
func (c *Classifier) Classify(ctx context.Context, clause contract.Clause, matches []contract.TemplateMatch) (contract.ClauseAnalysis, error) {
	if matches == nil {
		matches = []contract.TemplateMatch{}
	}
	var intent contract.Intent
	if len(matches) > 0 {
		intent = matches[0].Intent
	} else {
		intent = c.intentByFrequency(clause)
	}
	obligation := ClassifyObligation(clause.FullText())

	impact := c.impact(intent, obligation)
	out := contract.ClauseAnalysis{
		Clause:          clause,
		Intent:          intent,
		ObligationType:  obligation,
		BusinessImpact:  impact,
		TemplateMatches: matches,
	}
	if c.explainer == nil {
		return out, nil
	}
	sentence, err := c.explainer.ExplainClause(ctx, clause.Heading, clause.Text, string(intent))
	if err != nil {
		return out, err
	}
	if sentence = strings.TrimSpace(sentence); sentence != "" {
		out.BusinessImpact = impact + " " + sentence
	}
	return out, nil
}

func (c *Classifier) intentByFrequency(clause contract.Clause) contract.Intent {
	heading := common.NewFoldedText(clause.Heading)
	body := common.NewFoldedText(clause.Text)

	best, bestScore := contract.IntentGeneral, 0
	for _, in := range contract.Intents {
		rule, ok := c.cat.Intent(in)
		if !ok {
			continue
		}
		score := 0
		for _, kw := range rule.Folded {
			score += headingBoost*heading.Count(kw) + body.Count(kw)
		}
		// Strictly greater keeps the earlier intent on ties.
		if score > bestScore {
			best, bestScore = in, score
		}
	}
	return best
}

func (c *Classifier) impact(intent contract.Intent, obligation contract.ObligationType) string {
	first := ""
	if rule, ok := c.cat.Intent(intent); ok {
		first = rule.Impact
	}
	second := obligationImpact[obligation]
	if first == "" {
		return second
	}
	return first + " " + second
}

// ClassifyObligation reports the strongest obligation marker in text.
func ClassifyObligation(text string) contract.ObligationType {
	folded := common.NewFoldedText(text)
	for _, o := range obligationMarkers {
		for _, m := range o.markers {
			if folded.Has(m) {
				return o.kind
			}
		}
	}
	return contract.ObligationInformational
}

// DegradedAnalysis is the conservative result for a clause whose stages
// did not finish.
func DegradedAnalysis(clause contract.Clause) contract.ClauseAnalysis {
	return contract.ClauseAnalysis{
		Clause:          clause,
		Intent:          contract.IntentGeneral,
		ObligationType:  contract.ObligationInformational,
		BusinessImpact:  GenericImpact,
		TemplateMatches: []contract.TemplateMatch{},
	}
}

//Personal.AI order the ending
