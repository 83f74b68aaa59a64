// Package catalog loads the read-only reference data shared by every analysis
// run: contract type cues, the standard clause template library, intent
// keywords, risk patterns, ambiguity rules, best practices and downloadable
// SME templates.
//
// The built-in catalog is embedded YAML.  Individual sections can be replaced
// by files on disk.  A loaded Catalog is never mutated, so one value is
// shared by all concurrent runs.
package catalog

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

//go:embed data/*.yaml
var builtin embed.FS

var builtinFiles = []string{
	"data/contract_types.yaml",
	"data/templates.yaml",
	"data/intents.yaml",
	"data/risk_patterns.yaml",
	"data/ambiguity.yaml",
	"data/best_practices.yaml",
	"data/sme_templates.yaml",
}

// DefaultDomainKey selects the best practices applied to every contract type.
const DefaultDomainKey = "default"

// ============================================================================
// Catalog
// ============================================================================

// Catalog is the compiled reference data.
type Catalog struct {
	ContractTypes []ContractType             `yaml:"contract_types" json:"contract_types"`
	Templates     []ClauseTemplate           `yaml:"templates" json:"templates"`
	Intents       []IntentRule               `yaml:"intents" json:"intents"`
	RiskPatterns  []RiskPattern              `yaml:"risk_patterns" json:"risk_patterns"`
	Ambiguity     []AmbiguityRule            `yaml:"ambiguity" json:"ambiguity"`
	BestPractices map[string]BestPracticeSet `yaml:"best_practices" json:"best_practices"`
	SMETemplates  []SMETemplate              `yaml:"sme_templates" json:"sme_templates"`

	byDomain map[string][]*ClauseTemplate
	byFlag   map[string]*RiskPattern
	byIntent map[contract.Intent]*IntentRule
}

// Options names optional files that replace a section of the built-in
// catalog.  Each file uses the same top-level key as the built-in data
// (templates, risk_patterns + ambiguity, best_practices).
type Options struct {
	TemplatesPath string
	PatternsPath  string
	PracticesPath string
}

// Load reads the built-in catalog, applies overrides and compiles it.
func Load(opts Options) (*Catalog, error) {
	c := &Catalog{}
	for _, name := range builtinFiles {
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "failed to read built-in catalog").WithDetail(name)
		}
		if err := c.merge(data, name); err != nil {
			return nil, err
		}
	}
	for _, path := range []string{opts.TemplatesPath, opts.PatternsPath, opts.PracticesPath} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "failed to read catalog override").WithDetail(path)
		}
		if err := c.merge(data, path); err != nil {
			return nil, err
		}
	}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the built-in catalog, compiled once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(Options{})
	})
	return defaultCat, defaultErr
}

// MustDefault is Default for callers that cannot proceed without a catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
}

// merge decodes one YAML document and replaces every section it defines.
func (c *Catalog) merge(data []byte, source string) error {
	var part Catalog
	if err := yaml.Unmarshal(data, &part); err != nil {
		return errors.Wrap(err, errors.ErrCodeCatalogInvalid, "failed to parse catalog").WithDetail(source)
	}
	if part.ContractTypes != nil {
		c.ContractTypes = part.ContractTypes
	}
	if part.Templates != nil {
		c.Templates = part.Templates
	}
	if part.Intents != nil {
		c.Intents = part.Intents
	}
	if part.RiskPatterns != nil {
		c.RiskPatterns = part.RiskPatterns
	}
	if part.Ambiguity != nil {
		c.Ambiguity = part.Ambiguity
	}
	if part.BestPractices != nil {
		c.BestPractices = part.BestPractices
	}
	if part.SMETemplates != nil {
		c.SMETemplates = part.SMETemplates
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeCatalogInvalid, "catalog is invalid").WithDetail(fmt.Sprintf(format, args...))
}

func (c *Catalog) compile() error {
	if len(c.ContractTypes) == 0 {
		return invalid("no contract types")
	}
	domains := make(map[string]bool, len(c.ContractTypes))
	for i := range c.ContractTypes {
		ct := &c.ContractTypes[i]
		if ct.ID == "" || ct.Name == "" {
			return invalid("contract type %d has no id or name", i)
		}
		if domains[ct.ID] {
			return invalid("duplicate contract type %q", ct.ID)
		}
		domains[ct.ID] = true
		ct.Folded = foldAll(ct.Keywords)
	}
	if last := c.ContractTypes[len(c.ContractTypes)-1]; len(last.Keywords) != 0 {
		return invalid("last contract type %q must be a keyword-free fallback", last.ID)
	}

	if err := c.compileTemplates(domains); err != nil {
		return err
	}
	if err := c.compileIntents(); err != nil {
		return err
	}
	if err := c.compilePatterns(); err != nil {
		return err
	}
	for i := range c.Ambiguity {
		if err := c.Ambiguity[i].compile(); err != nil {
			return err
		}
	}
	for key := range c.BestPractices {
		if key != DefaultDomainKey && !domains[key] {
			return invalid("best practices for unknown contract type %q", key)
		}
	}
	seen := map[string]bool{}
	for _, t := range c.SMETemplates {
		if t.ID == "" || strings.TrimSpace(t.Body) == "" {
			return invalid("sme template %q has no id or body", t.ID)
		}
		if seen[t.ID] {
			return invalid("duplicate sme template %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (c *Catalog) compileTemplates(domains map[string]bool) error {
	c.byDomain = make(map[string][]*ClauseTemplate, len(domains))
	seen := map[string]bool{}
	for i := range c.Templates {
		t := &c.Templates[i]
		if t.ID == "" || t.Heading == "" {
			return invalid("template %d has no id or heading", i)
		}
		if seen[t.ID] {
			return invalid("duplicate template %q", t.ID)
		}
		seen[t.ID] = true
		intent, ok := contract.ParseIntent(string(t.Intent))
		if !ok {
			return invalid("template %q has unknown intent %q", t.ID, t.Intent)
		}
		t.Intent = intent
		if len(t.Keywords) == 0 {
			return invalid("template %q has no keywords", t.ID)
		}
		t.FoldedKeywords = make([]string, len(t.Keywords))
		t.TotalWeight = 0
		for j, k := range t.Keywords {
			if k.Weight <= 0 {
				return invalid("template %q keyword %q has non-positive weight", t.ID, k.Term)
			}
			t.FoldedKeywords[j] = common.Fold(k.Term)
			t.TotalWeight += k.Weight
		}
		t.HeadingTokens = ContentTokens(t.Heading)

		if len(t.Domains) == 0 {
			for d := range domains {
				c.byDomain[d] = append(c.byDomain[d], t)
			}
			continue
		}
		for _, d := range t.Domains {
			if !domains[d] {
				return invalid("template %q references unknown contract type %q", t.ID, d)
			}
			c.byDomain[d] = append(c.byDomain[d], t)
		}
	}
	// Map iteration above is unordered; restore catalog order.
	order := make(map[*ClauseTemplate]int, len(c.Templates))
	for i := range c.Templates {
		order[&c.Templates[i]] = i
	}
	for d := range c.byDomain {
		list := c.byDomain[d]
		sort.Slice(list, func(a, b int) bool { return order[list[a]] < order[list[b]] })
	}
	return nil
}

func (c *Catalog) compileIntents() error {
	c.byIntent = make(map[contract.Intent]*IntentRule, len(c.Intents))
	for i := range c.Intents {
		r := &c.Intents[i]
		intent, ok := contract.ParseIntent(string(r.Intent))
		if !ok {
			return invalid("unknown intent %q", r.Intent)
		}
		r.Intent = intent
		r.Folded = foldAll(r.Keywords)
		c.byIntent[intent] = r
	}
	if _, ok := c.byIntent[contract.IntentGeneral]; !ok {
		return invalid("intent %q must be defined", contract.IntentGeneral)
	}
	return nil
}

func (c *Catalog) compilePatterns() error {
	c.byFlag = make(map[string]*RiskPattern, len(c.RiskPatterns))
	for i := range c.RiskPatterns {
		p := &c.RiskPatterns[i]
		if err := p.compile(); err != nil {
			return err
		}
		if _, dup := c.byFlag[p.Flag]; dup {
			return invalid("duplicate risk flag %q", p.Flag)
		}
		c.byFlag[p.Flag] = p
	}
	return nil
}

// ============================================================================
// Lookups
// ============================================================================

// TemplatesFor returns the template library scoped to a contract type, in
// catalog order.  An unknown domain yields every template.
func (c *Catalog) TemplatesFor(domain string) []*ClauseTemplate {
	if list, ok := c.byDomain[domain]; ok {
		return list
	}
	out := make([]*ClauseTemplate, len(c.Templates))
	for i := range c.Templates {
		out[i] = &c.Templates[i]
	}
	return out
}

// Template finds a clause template by id.
func (c *Catalog) Template(id string) (*ClauseTemplate, error) {
	for i := range c.Templates {
		if c.Templates[i].ID == id {
			return &c.Templates[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeTemplateNotFound, "clause template not found").WithDetail(id)
}

// Pattern returns the risk pattern that owns flag.
func (c *Catalog) Pattern(flag string) (*RiskPattern, bool) {
	p, ok := c.byFlag[flag]
	return p, ok
}

// Intent returns the classifier rule for an intent.
func (c *Catalog) Intent(in contract.Intent) (*IntentRule, bool) {
	r, ok := c.byIntent[in]
	return r, ok
}

// ContractType returns the contract type with the given id.
func (c *Catalog) ContractType(id string) (*ContractType, bool) {
	for i := range c.ContractTypes {
		if c.ContractTypes[i].ID == id {
			return &c.ContractTypes[i], true
		}
	}
	return nil, false
}

// BestPracticesFor returns the default set followed by the domain's own.
func (c *Catalog) BestPracticesFor(domain string) contract.BestPractices {
	def := c.BestPractices[DefaultDomainKey]
	out := contract.BestPractices{
		Recommendations:          append([]string{}, def.Recommendations...),
		ClausesToAddOrStrengthen: append([]string{}, def.ClausesToAddOrStrengthen...),
	}
	if domain == DefaultDomainKey {
		return out
	}
	if own, ok := c.BestPractices[domain]; ok {
		out.Recommendations = append(out.Recommendations, own.Recommendations...)
		out.ClausesToAddOrStrengthen = append(out.ClausesToAddOrStrengthen, own.ClausesToAddOrStrengthen...)
	}
	return out
}

// SMETemplate returns a downloadable contract template by id.
func (c *Catalog) SMETemplate(id string) (*SMETemplate, error) {
	for i := range c.SMETemplates {
		if c.SMETemplates[i].ID == id {
			return &c.SMETemplates[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeTemplateNotFound, "contract template not found").WithDetail(id)
}

// ============================================================================
// helpers
// ============================================================================

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := common.Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}

var headingStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "or": true, "to": true,
	"with": true, "for": true, "in": true, "on": true, "by": true, "clause": true, "article": true,
	"section": true,
}

// ContentTokens folds s and drops stopwords, numbering and roman numerals,
// returning the distinct remaining tokens in order.
func ContentTokens(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range strings.Fields(common.Fold(s)) {
		if headingStopwords[tok] || isNumbering(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

var romanNumeral = regexp.MustCompile(`^[ivxlc]+$`)

func isNumbering(tok string) bool {
	if tok == "" {
		return true
	}
	if len([]rune(tok)) == 1 && tok >= "a" && tok <= "z" {
		return true
	}
	allDigits := true
	for _, r := range tok {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return true
	}
	return len(tok) <= 4 && romanNumeral.MatchString(tok)
}

//Personal.AI order the ending
