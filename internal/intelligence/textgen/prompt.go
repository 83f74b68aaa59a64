package textgen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/turtacn/ContractLens/pkg/errors"
)

const (
	translateSystem = "You are a legal translator. Translate Indian business contracts from Hindi into plain, " +
		"faithful English. Keep clause numbering, headings and amounts exactly. Output only the translation."

	explainSystem = "You explain contract clauses to small-business owners in India. Answer in exactly one " +
		"plain-English sentence of at most 30 words. Do not give legal advice."
)

var builtinTemplates = map[string]string{
	"translate": `Translate the following contract text into English.

{{ .Text }}`,
	"explain": `Clause heading: {{ if .Heading }}{{ .Heading }}{{ else }}(none){{ end }}
Clause category: {{ .Intent }}

{{ .Text | clip 2000 }}

In one sentence, what does this clause mean for a small business?`,
}

// PromptSet renders the fixed prompts sent to a Backend.
type PromptSet struct {
	templates         map[string]*template.Template
	MaxTranslateRunes int
	MaxTokens         int
}

func clip(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + " …"
}

// DefaultPromptSet parses the built-in templates.  It panics on a template
// syntax error since the templates are compiled in.
func DefaultPromptSet() *PromptSet {
	ps := &PromptSet{
		templates:         make(map[string]*template.Template, len(builtinTemplates)),
		MaxTranslateRunes: 24000,
		MaxTokens:         1024,
	}
	funcs := template.FuncMap{"clip": clip}
	for name, raw := range builtinTemplates {
		ps.templates[name] = template.Must(template.New(name).Funcs(funcs).Parse(raw))
	}
	return ps
}

func (ps *PromptSet) render(name string, data interface{}) (string, error) {
	t, ok := ps.templates[name]
	if !ok {
		return "", errors.InvalidParam(fmt.Sprintf("template %q not found", name))
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "rendering prompt").WithDetail(name)
	}
	return buf.String(), nil
}

// Translate builds a translation request.  Inputs longer than
// MaxTranslateRunes are rejected rather than truncated so the caller falls
// back to the original text instead of analysing half a contract.
func (ps *PromptSet) Translate(text string) (*Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.InputError("nothing to translate")
	}
	if n := utf8.RuneCountInString(text); n > ps.MaxTranslateRunes {
		return nil, ErrUnavailable.WithDetail(fmt.Sprintf("input of %d runes exceeds translation limit %d", n, ps.MaxTranslateRunes))
	}
	body, err := ps.render("translate", struct{ Text string }{text})
	if err != nil {
		return nil, err
	}
	return &Request{
		Operation: OpTranslate,
		System:    translateSystem,
		Messages:  []Message{{Role: "user", Content: body}},
		MaxTokens: max(ps.MaxTokens, utf8.RuneCountInString(text)/2),
	}, nil
}

// Explain builds a one-sentence explanation request.
func (ps *PromptSet) Explain(heading, text, intent string) (*Request, error) {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(heading) == "" {
		return nil, errors.InputError("nothing to explain")
	}
	body, err := ps.render("explain", struct{ Heading, Text, Intent string }{heading, text, intent})
	if err != nil {
		return nil, err
	}
	return &Request{
		Operation: OpExplain,
		System:    explainSystem,
		Messages:  []Message{{Role: "user", Content: body}},
		MaxTokens: 120,
	}, nil
}

//Personal.AI order the ending
