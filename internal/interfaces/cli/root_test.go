package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractLens/internal/application/analysis"
	"github.com/turtacn/ContractLens/internal/config"
	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
)

const sampleContract = `SERVICE AGREEMENT

This Service Agreement is made between Acme Private Limited ("Client") and Widget Works LLP ("Service Provider").

1. Payment
The Client shall pay all invoices within 90 days of receipt.

2. Termination
The Client may terminate this Agreement at any time without notice. The Service Provider may terminate with 90 days written notice.

3. Governing Law
This Agreement shall be governed by the laws of India and the courts at Mumbai shall have exclusive jurisdiction.
`

// run executes the root command with args in an empty working directory so
// no stray config file is picked up.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Structure(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "contractlens", root.Use)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "templates", "serve", "version"} {
		assert.True(t, names[want], want)
	}
	for _, flag := range []string{"config", "env-file", "log-level", "output", "verbose", "timeout"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contractlens "+Version)

	out, _, err = run(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info["version"])
}

func TestRoot_RejectsUnknownOutputFormat(t *testing.T) {
	_, _, err := run(t, "", "version", "-o", "yaml")
	assert.Error(t, err)
}

func TestRoot_ExplicitConfigMissing(t *testing.T) {
	_, _, err := run(t, "", "version", "--config", "/nonexistent/contractlens.yaml")
	assert.Error(t, err)
}

func TestAnalyze_TextFlagJSON(t *testing.T) {
	out, _, err := run(t, "", "analyze", "--text", sampleContract, "-o", "json", "--role", "vendor")
	require.NoError(t, err)

	var resp analysis.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Result)
	assert.NotEmpty(t, resp.RequestID)
	assert.NotEmpty(t, resp.Result.ClauseNumbers())
	require.NotNil(t, resp.Audit)
	assert.Equal(t, "cli", resp.Audit.Source)
}

func TestAnalyze_FileAndStdinText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleContract), 0o600))

	out, _, err := run(t, "", "analyze", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Risk score:")
	assert.Contains(t, out, "Clause risks")
	assert.Contains(t, out, "Executive summary")

	out, _, err = run(t, sampleContract, "analyze", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Risk score:")
}

func TestAnalyze_Errors(t *testing.T) {
	_, _, err := run(t, "", "analyze")
	assert.Error(t, err, "one of --file/--text is required")

	_, _, err = run(t, "", "analyze", "--file", "/nonexistent/contract.txt")
	assert.Error(t, err)

	_, _, err = run(t, "", "analyze", "--text", "   ")
	assert.Error(t, err)

	_, _, err = run(t, "", "analyze", "--text", sampleContract, "--language", "tamil")
	assert.Error(t, err)
}

func TestTemplates_ListShowClauses(t *testing.T) {
	out, _, err := run(t, "", "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "service_agreement_sme")

	out, _, err = run(t, "", "templates", "show", "service_agreement_sme")
	require.NoError(t, err)
	assert.Contains(t, out, "SERVICE AGREEMENT")

	_, _, err = run(t, "", "templates", "show", "missing")
	assert.Error(t, err)

	out, _, err = run(t, "", "templates", "clauses", "-o", "json")
	require.NoError(t, err)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.NotEmpty(t, list)
}

func TestTemplates_ShowWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nda.txt")
	_, stderr, err := run(t, "", "templates", "show", "nda_mutual_sme", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote")
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]string{"ID", "NAME"}, [][]string{{"a", "Alpha"}, {"bb", "Beta"}})
	assert.Equal(t, "ID  NAME\n--  -----\na   Alpha\nbb  Beta\n", got)
	assert.Equal(t, "", FormatTable(nil, nil))
}

func TestRenderReport(t *testing.T) {
	svc := analysis.NewService(catalog.MustDefault(), config.NewDefaultConfig().Analysis)
	resp, err := svc.Analyze(context.Background(), &analysis.AnalyzeRequest{Text: sampleContract, RequestID: "r1"})
	require.NoError(t, err)

	out := RenderReport(resp)
	assert.True(t, strings.HasPrefix(out, "Request r1\n"))
	assert.Contains(t, out, "Contract overview")
	assert.Contains(t, out, "Best practices")
	for _, e := range resp.Result.RiskAnalysis.ClauseRisks {
		assert.Contains(t, out, e.RiskLevel.String())
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "-", orDash(""))
}

//Personal.AI order the ending
