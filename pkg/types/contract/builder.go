package contract

import (
	"fmt"

	"github.com/turtacn/ContractLens/pkg/errors"
)

// section identifies one of the nine result sections.
type section uint16

const (
	sectionOverview section = 1 << iota
	sectionLanguage
	sectionEntities
	sectionClauses
	sectionRisk
	sectionSuggestions
	sectionSummary
	sectionScore
	sectionBestPractices

	allSections = sectionOverview | sectionLanguage | sectionEntities | sectionClauses | sectionRisk |
		sectionSuggestions | sectionSummary | sectionScore | sectionBestPractices
)

var sectionNames = map[section]string{
	sectionOverview:      "contract_overview",
	sectionLanguage:      "language",
	sectionEntities:      "entities",
	sectionClauses:       "clauses",
	sectionRisk:          "risk_analysis",
	sectionSuggestions:   "suggestions",
	sectionSummary:       "executive_summary",
	sectionScore:         "risk_score",
	sectionBestPractices: "best_practices",
}

// sectionOrder fixes the order in which missing sections are reported.
var sectionOrder = []section{
	sectionOverview, sectionLanguage, sectionEntities, sectionClauses, sectionRisk,
	sectionSuggestions, sectionSummary, sectionScore, sectionBestPractices,
}

// ResultBuilder assembles an AnalysisResult one section at a time.  Each
// section may be contributed exactly once.  Inputs are copied on entry, so a
// stage that keeps mutating its own slices cannot reach into the result.  The
// builder is single-use: after Build every further call fails.
type ResultBuilder struct {
	result AnalysisResult
	set    section
	built  bool
	err    error
}

// NewResultBuilder returns an empty builder.
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{}
}

func (b *ResultBuilder) claim(s section) bool {
	if b.err != nil {
		return false
	}
	if b.built {
		b.err = errors.Internal("result builder already built")
		return false
	}
	if b.set&s != 0 {
		b.err = errors.Internal(fmt.Sprintf("section %s contributed twice", sectionNames[s]))
		return false
	}
	b.set |= s
	return true
}

// ContractOverview contributes section 1.
func (b *ResultBuilder) ContractOverview(o ContractOverview) *ResultBuilder {
	if b.claim(sectionOverview) {
		b.result.ContractOverview = o
	}
	return b
}

// Language contributes section 2.
func (b *ResultBuilder) Language(l Language) *ResultBuilder {
	if b.claim(sectionLanguage) {
		b.result.Language = l
	}
	return b
}

// Entities contributes section 3.
func (b *ResultBuilder) Entities(e Entities) *ResultBuilder {
	if b.claim(sectionEntities) {
		b.result.Entities = cloneEntities(e)
	}
	return b
}

// Clauses contributes section 4.
func (b *ResultBuilder) Clauses(t ClauseTable) *ResultBuilder {
	if b.claim(sectionClauses) {
		b.result.Clauses = cloneClauseTable(t)
	}
	return b
}

// RiskAnalysis contributes section 5.
func (b *ResultBuilder) RiskAnalysis(r RiskAnalysis) *ResultBuilder {
	if b.claim(sectionRisk) {
		b.result.RiskAnalysis = cloneRiskAnalysis(r)
	}
	return b
}

// Suggestions contributes section 6.  An empty list is a valid contribution.
func (b *ResultBuilder) Suggestions(s []Suggestion) *ResultBuilder {
	if b.claim(sectionSuggestions) {
		b.result.Suggestions = append(make([]Suggestion, 0, len(s)), s...)
	}
	return b
}

// ExecutiveSummary contributes section 7.
func (b *ResultBuilder) ExecutiveSummary(s ExecutiveSummary) *ResultBuilder {
	if b.claim(sectionSummary) {
		b.result.ExecutiveSummary = ExecutiveSummary{
			Overview:             s.Overview,
			KeyObligations:       cloneStrings(s.KeyObligations),
			BiggestRisks:         cloneStrings(s.BiggestRisks),
			NegotiationChecklist: cloneStrings(s.NegotiationChecklist),
		}
	}
	return b
}

// RiskScore contributes section 8.
func (b *ResultBuilder) RiskScore(s RiskScore) *ResultBuilder {
	if b.claim(sectionScore) {
		b.result.RiskScore = s
	}
	return b
}

// BestPractices contributes section 9.
func (b *ResultBuilder) BestPractices(p BestPractices) *ResultBuilder {
	if b.claim(sectionBestPractices) {
		b.result.BestPractices = BestPractices{
			Recommendations:          cloneStrings(p.Recommendations),
			ClausesToAddOrStrengthen: cloneStrings(p.ClausesToAddOrStrengthen),
		}
	}
	return b
}

// Build validates completeness and cross-section invariants and returns the
// finished result.  A missing section yields ErrCodeResultIncomplete; a
// dangling clause reference yields ErrCodeAggregationInvariant.
func (b *ResultBuilder) Build() (*AnalysisResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, errors.Internal("result builder already built")
	}
	b.built = true

	if b.set != allSections {
		for _, s := range sectionOrder {
			if b.set&s == 0 {
				return nil, errors.New(errors.ErrCodeResultIncomplete, "analysis result is missing a section").
					WithDetail("section=" + sectionNames[s])
			}
		}
	}
	if err := b.result.Validate(); err != nil {
		return nil, err
	}

	out := b.result
	return &out, nil
}

// Validate checks the cross-section invariants of a result:
//   - clause numbers run 1..n without gaps
//   - the risk table has exactly one entry per clause, in clause order
//   - suggestions reference existing clauses, match their risk level and
//     cover every Medium/High clause exactly once
func (r *AnalysisResult) Validate() error {
	clauses := r.Clauses.Clauses
	if len(clauses) == 0 {
		return errors.InvariantViolation("clause table is empty")
	}
	headings := make(map[int]string, len(clauses))
	for i, c := range clauses {
		if c.ClauseNumber != i+1 {
			return errors.InvariantViolation("clause numbers are not sequential").
				WithDetail(fmt.Sprintf("position=%d clause_number=%d", i+1, c.ClauseNumber))
		}
		headings[c.ClauseNumber] = c.Heading
	}

	risks := r.RiskAnalysis.ClauseRisks
	if len(risks) != len(clauses) {
		return errors.InvariantViolation("risk table does not cover every clause").
			WithDetail(fmt.Sprintf("clauses=%d risk_entries=%d", len(clauses), len(risks)))
	}
	levels := make(map[int]RiskLevel, len(risks))
	for i, re := range risks {
		if re.ClauseNumber != clauses[i].ClauseNumber {
			return errors.InvariantViolation("risk entry references a foreign clause").
				WithDetail(fmt.Sprintf("clause_number=%d", re.ClauseNumber))
		}
		if !re.RiskLevel.Valid() {
			return errors.InvariantViolation("risk entry has no risk level").
				WithDetail(fmt.Sprintf("clause_number=%d", re.ClauseNumber))
		}
		levels[re.ClauseNumber] = re.RiskLevel
	}

	for _, ff := range r.RiskAnalysis.FairnessFlags {
		if _, ok := headings[ff.ClauseNumber]; !ok {
			return errors.InvariantViolation("fairness flag references a foreign clause").
				WithDetail(fmt.Sprintf("clause_number=%d", ff.ClauseNumber))
		}
	}

	seen := make(map[int]bool, len(r.Suggestions))
	for _, s := range r.Suggestions {
		level, ok := levels[s.ClauseNumber]
		if !ok {
			return errors.InvariantViolation("suggestion references a foreign clause").
				WithDetail(fmt.Sprintf("clause_number=%d", s.ClauseNumber))
		}
		if seen[s.ClauseNumber] {
			return errors.InvariantViolation("duplicate suggestion for clause").
				WithDetail(fmt.Sprintf("clause_number=%d", s.ClauseNumber))
		}
		if s.RiskLevel != level || !level.NeedsSuggestion() {
			return errors.InvariantViolation("suggestion risk level disagrees with risk table").
				WithDetail(fmt.Sprintf("clause_number=%d", s.ClauseNumber))
		}
		seen[s.ClauseNumber] = true
	}
	for n, level := range levels {
		if level.NeedsSuggestion() && !seen[n] {
			return errors.InvariantViolation("medium or high risk clause has no suggestion").
				WithDetail(fmt.Sprintf("clause_number=%d", n))
		}
	}

	if r.RiskScore.Composite < 0 || r.RiskScore.Composite > 100 {
		return errors.InvariantViolation("composite risk score out of range").
			WithDetail(fmt.Sprintf("score=%d", r.RiskScore.Composite))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// copy helpers
// ─────────────────────────────────────────────────────────────────────────────

func cloneStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}

func cloneEntities(e Entities) Entities {
	out := e
	out.Parties = append(make([]Party, 0, len(e.Parties)), e.Parties...)
	out.Dates = cloneStrings(e.Dates)
	out.Amounts = cloneStrings(e.Amounts)
	out.TerminationConditions = cloneStrings(e.TerminationConditions)
	return out
}

func cloneClauseTable(t ClauseTable) ClauseTable {
	out := ClauseTable{
		SegmentationMode: t.SegmentationMode,
		Clauses:          make([]ClauseAnalysis, len(t.Clauses)),
	}
	for i, c := range t.Clauses {
		cc := c
		cc.SubClauses = append(make([]SubClause, 0, len(c.SubClauses)), c.SubClauses...)
		cc.TemplateMatches = make([]TemplateMatch, len(c.TemplateMatches))
		for j, m := range c.TemplateMatches {
			mm := m
			mm.MatchedKeywords = cloneStrings(m.MatchedKeywords)
			cc.TemplateMatches[j] = mm
		}
		out.Clauses[i] = cc
	}
	return out
}

func cloneRiskAnalysis(r RiskAnalysis) RiskAnalysis {
	out := RiskAnalysis{
		ClauseRisks:    make([]RiskEntry, len(r.ClauseRisks)),
		FairnessFlags:  make([]FairnessFlag, len(r.FairnessFlags)),
		AmbiguityFlags: append(make([]AmbiguityFlag, 0, len(r.AmbiguityFlags)), r.AmbiguityFlags...),
	}
	for i, re := range r.ClauseRisks {
		cp := re
		cp.Flags = cloneStrings(re.Flags)
		out.ClauseRisks[i] = cp
	}
	for i, ff := range r.FairnessFlags {
		cp := ff
		cp.Flags = cloneStrings(ff.Flags)
		out.FairnessFlags[i] = cp
	}
	return out
}

//Personal.AI order the ending
