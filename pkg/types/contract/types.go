// Package contract defines the wire-level data model of a contract analysis:
// clauses, template matches, risk entries, suggestions and the nine-section
// AnalysisResult consumed by API clients and the presentation layer.
package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/turtacn/ContractLens/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Language
// ─────────────────────────────────────────────────────────────────────────────

// Language is the language tag of a submitted contract.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
)

// ParseLanguage normalises a user supplied language tag.  An empty tag means
// English.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "english", "en":
		return LanguageEnglish, nil
	case "hindi", "hi":
		return LanguageHindi, nil
	default:
		return "", errors.InputError(fmt.Sprintf("unsupported language %q (must be english or hindi)", s))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// RiskLevel
// ─────────────────────────────────────────────────────────────────────────────

// RiskLevel is the severity classification of a single clause.  The zero
// value is invalid; Low is the default for a clause with no matched flags.
type RiskLevel int

const (
	RiskLow RiskLevel = iota + 1
	RiskMedium
	RiskHigh
)

var riskLevelNames = map[RiskLevel]string{
	RiskLow:    "Low",
	RiskMedium: "Medium",
	RiskHigh:   "High",
}

func (l RiskLevel) String() string {
	if s, ok := riskLevelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("RiskLevel(%d)", int(l))
}

// Valid reports whether l is one of the three defined levels.
func (l RiskLevel) Valid() bool {
	_, ok := riskLevelNames[l]
	return ok
}

// NeedsSuggestion reports whether a clause at this level must receive a
// renegotiation suggestion.
func (l RiskLevel) NeedsSuggestion() bool {
	return l == RiskMedium || l == RiskHigh
}

// ParseRiskLevel accepts "low", "medium", "high" in any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for l, name := range riskLevelNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown risk level %q", s)
}

func (l RiskLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid risk level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Intent and obligation type
// ─────────────────────────────────────────────────────────────────────────────

// Intent is the functional category of a clause.  The set is closed.
type Intent string

const (
	IntentTermination       Intent = "Termination"
	IntentPayment           Intent = "Payment"
	IntentConfidentiality   Intent = "Confidentiality"
	IntentIndemnity         Intent = "Indemnity"
	IntentLiability         Intent = "Liability"
	IntentDisputeResolution Intent = "Dispute Resolution"
	IntentIP                Intent = "Intellectual Property"
	IntentNonCompete        Intent = "Non-Compete"
	IntentScope             Intent = "Scope of Services"
	IntentWarranty          Intent = "Warranty"
	IntentGeneral           Intent = "General/Other"
)

// Intents lists every intent in tie-break order.
var Intents = []Intent{
	IntentTermination,
	IntentPayment,
	IntentConfidentiality,
	IntentIndemnity,
	IntentLiability,
	IntentDisputeResolution,
	IntentIP,
	IntentNonCompete,
	IntentScope,
	IntentWarranty,
	IntentGeneral,
}

// ParseIntent resolves a catalog intent name.
func ParseIntent(s string) (Intent, bool) {
	for _, in := range Intents {
		if strings.EqualFold(string(in), strings.TrimSpace(s)) {
			return in, true
		}
	}
	return "", false
}

// ObligationType describes what a clause asks of the parties.
type ObligationType string

const (
	ObligationProhibition   ObligationType = "Prohibition"
	ObligationDuty          ObligationType = "Obligation"
	ObligationRight         ObligationType = "Right"
	ObligationConditional   ObligationType = "Conditional"
	ObligationInformational ObligationType = "Informational"
)

// SegmentationMode records how the segmenter found clause boundaries.
type SegmentationMode string

const (
	SegmentationHeadings   SegmentationMode = "headings"
	SegmentationParagraphs SegmentationMode = "paragraphs"
	// SegmentationSingle means no boundaries were found and the whole document
	// is one clause.
	SegmentationSingle SegmentationMode = "single"
)

// ─────────────────────────────────────────────────────────────────────────────
// Clause-level records
// ─────────────────────────────────────────────────────────────────────────────

// SubClause is a numbered sub-item (1.1, 2.3.1) grouped under its parent.
type SubClause struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// Clause is a contiguous, numbered unit of contract text.
type Clause struct {
	ClauseNumber int         `json:"clause_number"`
	Heading      string      `json:"heading"`
	Text         string      `json:"text"`
	TextPreview  string      `json:"text_preview"`
	SubClauses   []SubClause `json:"sub_clauses"`
}

// FullText returns heading and body joined the way every stage reads them.
func (c Clause) FullText() string {
	if c.Heading == "" {
		return c.Text
	}
	if c.Text == "" {
		return c.Heading
	}
	return c.Heading + "\n" + c.Text
}

// TemplateMatch is a similarity score between a clause and a standard template.
type TemplateMatch struct {
	TemplateID      string   `json:"template_id"`
	TemplateHeading string   `json:"template_heading"`
	Intent          Intent   `json:"intent"`
	MatchScore      float64  `json:"match_score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// ClauseAnalysis is one row of the clause table.
type ClauseAnalysis struct {
	Clause
	Intent          Intent          `json:"intent"`
	ObligationType  ObligationType  `json:"obligation_type"`
	BusinessImpact  string          `json:"business_impact"`
	TemplateMatches []TemplateMatch `json:"template_matches"`
}

// RiskEntry is the risk verdict for one clause.
type RiskEntry struct {
	ClauseNumber int       `json:"clause_number"`
	Heading      string    `json:"heading"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Flags        []string  `json:"flags"`
}

// AmbiguityFlag is a contract-wide note on vague or undefined phrasing.
type AmbiguityFlag struct {
	Phrase string `json:"phrase"`
	Reason string `json:"reason"`
}

// FairnessFlag lists a clause carrying any risk flag, whatever its level.
type FairnessFlag struct {
	ClauseNumber          int      `json:"clause_number"`
	Heading               string   `json:"heading"`
	OneSidedOrRiskyForSME bool     `json:"one_sided_or_risky_for_sme"`
	Flags                 []string `json:"flags"`
}

// Suggestion is a renegotiation proposal for a Medium or High clause.
type Suggestion struct {
	ClauseNumber    int       `json:"clause_number"`
	Heading         string    `json:"heading"`
	RiskLevel       RiskLevel `json:"risk_level"`
	SuggestedChange string    `json:"suggested_change"`
	WhyItHelps      string    `json:"why_it_helps"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Document-level sections
// ─────────────────────────────────────────────────────────────────────────────

// ContractOverview is section 1.
type ContractOverview struct {
	ContractType string `json:"contract_type"`
	Explanation  string `json:"explanation"`
}

// Party is a contracting party with its defined role, if one was found.
type Party struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// EntityFlags records presence of confidentiality and IP language.
type EntityFlags struct {
	ConfidentialityClausePresent bool `json:"confidentiality_clause_present"`
	IPClausePresent              bool `json:"ip_clause_present"`
}

// Entities is section 3.  Jurisdiction and Duration are empty when absent.
type Entities struct {
	Parties               []Party     `json:"parties"`
	Jurisdiction          string      `json:"jurisdiction,omitempty"`
	Duration              string      `json:"duration,omitempty"`
	Dates                 []string    `json:"dates"`
	Amounts               []string    `json:"amounts"`
	TerminationConditions []string    `json:"termination_conditions"`
	Flags                 EntityFlags `json:"flags"`
}

// ClauseTable is section 4.
type ClauseTable struct {
	SegmentationMode SegmentationMode `json:"segmentation_mode"`
	Clauses          []ClauseAnalysis `json:"clauses"`
}

// RiskAnalysis is section 5.
type RiskAnalysis struct {
	ClauseRisks    []RiskEntry     `json:"clause_risk_table"`
	FairnessFlags  []FairnessFlag  `json:"fairness_and_sme_flags"`
	AmbiguityFlags []AmbiguityFlag `json:"ambiguity_flags"`
}

// ExecutiveSummary is section 7.
type ExecutiveSummary struct {
	Overview             string   `json:"overview"`
	KeyObligations       []string `json:"key_obligations_to_note"`
	BiggestRisks         []string `json:"biggest_risks_in_simple_terms"`
	NegotiationChecklist []string `json:"what_to_negotiate_before_signing"`
}

// RiskScore is section 8.
type RiskScore struct {
	Composite      int    `json:"composite_risk_score_0_to_100"`
	Interpretation string `json:"interpretation"`
}

// BestPractices is section 9.
type BestPractices struct {
	Recommendations          []string `json:"recommendations"`
	ClausesToAddOrStrengthen []string `json:"clauses_to_add_or_strengthen"`
}

// AnalysisResult is the aggregate root of one analysis run.  Values are only
// produced by ResultBuilder.Build and must be treated as read-only.
type AnalysisResult struct {
	ContractOverview ContractOverview `json:"contract_overview"`
	Language         Language         `json:"language"`
	Entities         Entities         `json:"entities"`
	Clauses          ClauseTable      `json:"clauses"`
	RiskAnalysis     RiskAnalysis     `json:"risk_analysis"`
	Suggestions      []Suggestion     `json:"suggestions"`
	ExecutiveSummary ExecutiveSummary `json:"executive_summary"`
	RiskScore        RiskScore        `json:"risk_score"`
	BestPractices    BestPractices    `json:"best_practices"`
}

// ClauseNumbers returns the clause numbers of the clause table in order.
func (r *AnalysisResult) ClauseNumbers() []int {
	out := make([]int, len(r.Clauses.Clauses))
	for i, c := range r.Clauses.Clauses {
		out[i] = c.ClauseNumber
	}
	return out
}

//Personal.AI order the ending
