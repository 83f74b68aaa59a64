package catalog

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// ContractType is one step of the contract type cascade.
type ContractType struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	Keywords    []string `yaml:"keywords" json:"keywords,omitempty"`

	Folded []string `yaml:"-" json:"-"`
}

// Keyword is a weighted template keyword.  In YAML it is either a bare
// string (weight 1) or a {term, weight} mapping.
type Keyword struct {
	Term   string  `yaml:"term" json:"term"`
	Weight float64 `yaml:"weight" json:"weight"`
}

func (k *Keyword) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		k.Term = node.Value
		k.Weight = 1
		return nil
	}
	type plain Keyword
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Weight == 0 {
		p.Weight = 1
	}
	*k = Keyword(p)
	return nil
}

// ClauseTemplate is a standard clause the matcher compares against.
type ClauseTemplate struct {
	ID       string          `yaml:"id" json:"id"`
	Heading  string          `yaml:"heading" json:"heading"`
	Intent   contract.Intent `yaml:"intent" json:"intent"`
	Keywords []Keyword       `yaml:"keywords" json:"keywords"`
	Domains  []string        `yaml:"domains" json:"domains,omitempty"`

	FoldedKeywords []string `yaml:"-" json:"-"`
	HeadingTokens  []string `yaml:"-" json:"-"`
	TotalWeight    float64  `yaml:"-" json:"-"`
}

// IntentRule holds the keyword-frequency cues and impact sentence of an intent.
type IntentRule struct {
	Intent   contract.Intent `yaml:"intent" json:"intent"`
	Keywords []string        `yaml:"keywords" json:"keywords,omitempty"`
	Impact   string          `yaml:"impact" json:"impact"`

	Folded []string `yaml:"-" json:"-"`
}

// PatternKind names the detection rule shape of a risk pattern.
type PatternKind string

const (
	KindPresence   PatternKind = "presence"
	KindAbsence    PatternKind = "absence"
	KindAsymmetric PatternKind = "asymmetric"
)

// Escalation raises a pattern's weight when an additional cue is present.
type Escalation struct {
	AnyOf  []string `yaml:"any_of" json:"any_of"`
	Weight int      `yaml:"weight" json:"weight"`

	alternatives [][]string
}

// RiskPattern maps a detection rule to a flag and a severity weight.
type RiskPattern struct {
	Flag        string                    `yaml:"flag" json:"flag"`
	Kind        PatternKind               `yaml:"kind" json:"kind"`
	Weight      int                       `yaml:"weight" json:"weight"`
	AnyOf       []string                  `yaml:"any_of" json:"any_of,omitempty"`
	NoneOf      []string                  `yaml:"none_of" json:"none_of,omitempty"`
	Intents     []contract.Intent         `yaml:"intents" json:"intents,omitempty"`
	Obligations []contract.ObligationType `yaml:"obligations" json:"obligations,omitempty"`
	Escalate    []Escalation              `yaml:"escalate" json:"escalate,omitempty"`
	Summary     string                    `yaml:"summary" json:"summary"`
	Suggestion  string                    `yaml:"suggestion" json:"suggestion,omitempty"`
	Rationale   string                    `yaml:"rationale" json:"rationale,omitempty"`

	alternatives [][]string
	exclusions   []string
}

// compileAlternatives folds each "a + b" alternative into its phrases.
func compileAlternatives(in []string) [][]string {
	out := make([][]string, 0, len(in))
	for _, alt := range in {
		var phrases []string
		for _, part := range strings.Split(alt, "+") {
			if f := common.Fold(part); f != "" {
				phrases = append(phrases, f)
			}
		}
		if len(phrases) > 0 {
			out = append(out, phrases)
		}
	}
	return out
}

func matchAny(text common.FoldedText, alternatives [][]string) bool {
	for _, alt := range alternatives {
		all := true
		for _, p := range alt {
			if !text.Has(p) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func (p *RiskPattern) compile() error {
	if p.Flag == "" {
		return invalid("risk pattern without flag")
	}
	if p.Weight < 0 || p.Weight > 10 {
		return invalid("risk pattern %q weight %d outside 0..10", p.Flag, p.Weight)
	}
	for i, in := range p.Intents {
		parsed, ok := contract.ParseIntent(string(in))
		if !ok {
			return invalid("risk pattern %q has unknown intent %q", p.Flag, in)
		}
		p.Intents[i] = parsed
	}
	for _, o := range p.Obligations {
		switch o {
		case contract.ObligationProhibition, contract.ObligationDuty, contract.ObligationRight,
			contract.ObligationConditional, contract.ObligationInformational:
		default:
			return invalid("risk pattern %q has unknown obligation type %q", p.Flag, o)
		}
	}
	p.alternatives = compileAlternatives(p.AnyOf)
	p.exclusions = foldAll(p.NoneOf)

	switch p.Kind {
	case KindPresence:
		if len(p.alternatives) == 0 && len(p.Obligations) == 0 {
			return invalid("presence pattern %q needs any_of or obligations", p.Flag)
		}
	case KindAbsence:
		if len(p.Intents) == 0 || len(p.exclusions) == 0 {
			return invalid("absence pattern %q needs intents and none_of", p.Flag)
		}
		if len(p.alternatives) != 0 {
			return invalid("absence pattern %q must not use any_of", p.Flag)
		}
	case KindAsymmetric:
		if len(p.alternatives) == 0 || len(p.exclusions) == 0 {
			return invalid("asymmetric pattern %q needs any_of and none_of", p.Flag)
		}
	default:
		return invalid("risk pattern %q has unknown kind %q", p.Flag, p.Kind)
	}

	for i := range p.Escalate {
		e := &p.Escalate[i]
		if e.Weight < p.Weight || e.Weight > 10 {
			return invalid("risk pattern %q escalation weight %d outside %d..10", p.Flag, e.Weight, p.Weight)
		}
		e.alternatives = compileAlternatives(e.AnyOf)
		if len(e.alternatives) == 0 {
			return invalid("risk pattern %q escalation has no any_of", p.Flag)
		}
	}
	return nil
}

// Evaluate reports whether the pattern fires on a clause and with which
// weight.
func (p *RiskPattern) Evaluate(text common.FoldedText, intent contract.Intent, obligation contract.ObligationType) (int, bool) {
	if len(p.Intents) > 0 && !containsIntent(p.Intents, intent) {
		return 0, false
	}
	if len(p.Obligations) > 0 && !containsObligation(p.Obligations, obligation) {
		return 0, false
	}
	if len(p.alternatives) > 0 && !matchAny(text, p.alternatives) {
		return 0, false
	}
	if text.HasAny(p.exclusions) {
		return 0, false
	}
	weight := p.Weight
	for _, e := range p.Escalate {
		if e.Weight > weight && matchAny(text, e.alternatives) {
			weight = e.Weight
		}
	}
	return weight, true
}

func containsIntent(list []contract.Intent, in contract.Intent) bool {
	for _, x := range list {
		if x == in {
			return true
		}
	}
	return false
}

func containsObligation(list []contract.ObligationType, o contract.ObligationType) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

// AmbiguityMode controls how often a rule reports.
type AmbiguityMode string

const (
	// AmbiguityEach reports every distinct matched phrase.
	AmbiguityEach AmbiguityMode = "each"
	// AmbiguityOnce reports the rule's fixed phrase once.
	AmbiguityOnce AmbiguityMode = "once"
)

// AmbiguityRule detects vague phrasing anywhere in a document.
type AmbiguityRule struct {
	Pattern string        `yaml:"pattern" json:"pattern"`
	Mode    AmbiguityMode `yaml:"mode" json:"mode"`
	Phrase  string        `yaml:"phrase" json:"phrase,omitempty"`
	Reason  string        `yaml:"reason" json:"reason"`

	Regexp *regexp.Regexp `yaml:"-" json:"-"`
}

func (r *AmbiguityRule) compile() error {
	re, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return invalid("ambiguity pattern %q: %v", r.Pattern, err)
	}
	r.Regexp = re
	switch r.Mode {
	case AmbiguityEach:
	case AmbiguityOnce:
		if r.Phrase == "" {
			return invalid("ambiguity pattern %q in once mode needs a phrase", r.Pattern)
		}
	default:
		return invalid("ambiguity pattern %q has unknown mode %q", r.Pattern, r.Mode)
	}
	if r.Reason == "" {
		return invalid("ambiguity pattern %q has no reason", r.Pattern)
	}
	return nil
}

// BestPracticeSet is the guidance attached to one contract type.
type BestPracticeSet struct {
	Recommendations          []string `yaml:"recommendations" json:"recommendations"`
	ClausesToAddOrStrengthen []string `yaml:"clauses_to_add_or_strengthen" json:"clauses_to_add_or_strengthen"`
}

// SMETemplate is a downloadable plain-text contract template.
type SMETemplate struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Filename string `yaml:"filename" json:"filename"`
	Body     string `yaml:"body" json:"-"`
}

//Personal.AI order the ending
