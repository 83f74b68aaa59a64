package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ContractLens/internal/application/analysis"
	"github.com/turtacn/ContractLens/internal/bootstrap"
	"github.com/turtacn/ContractLens/pkg/errors"
)

// AnalyzeOptions holds the analyze command's flags.
type AnalyzeOptions struct {
	File     string
	Text     string
	Language string
	Role     string
	Export   bool
}

// NewAnalyzeCmd analyses one contract in-process.
func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a contract and print its risk report",
		Long: "Analyse a plain-text contract read from --file (use - for stdin) or --text.\n" +
			"Text generation and object storage are used when enabled in the configuration;\n" +
			"events are never published from the CLI.",
		Example: "  contractlens analyze --file lease.txt --role tenant\n" +
			"  cat nda.txt | contractlens analyze --file - -o json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.File, "file", "f", "", "contract file (UTF-8 text); - reads stdin")
	f.StringVarP(&opts.Text, "text", "t", "", "contract text")
	f.StringVarP(&opts.Language, "language", "l", "english", "contract language (english, hindi)")
	f.StringVarP(&opts.Role, "role", "r", "", "your role in the contract, recorded in the audit trail")
	f.BoolVar(&opts.Export, "export", false, "store the JSON report in object storage")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	cmd.MarkFlagsOneRequired("file", "text")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	text, err := readContract(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	app, err := bootstrap.New(ctx, cliCtx.Config,
		bootstrap.WithLogger(cliCtx.Logger),
		bootstrap.WithoutMessaging())
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := app.Service.Analyze(ctx, &analysis.AnalyzeRequest{
		Text:         text,
		Language:     opts.Language,
		BusinessRole: opts.Role,
		Source:       "cli",
		Export:       opts.Export,
	})
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, resp)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), RenderReport(resp))
	return err
}

func readContract(stdin io.Reader, opts *AnalyzeOptions) (string, error) {
	switch {
	case opts.Text != "":
		return opts.Text, nil
	case opts.File == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.InputError("failed to read stdin").WithCause(err)
		}
		return string(b), nil
	case opts.File != "":
		b, err := os.ReadFile(opts.File)
		if err != nil {
			return "", errors.InputError("failed to read contract file").WithDetail(opts.File).WithCause(err)
		}
		return string(b), nil
	}
	return "", errors.InputError("either --file or --text is required")
}

// RenderReport formats a finished analysis for a terminal.
func RenderReport(resp *analysis.AnalyzeResponse) string {
	r := resp.Result
	var sb strings.Builder
	section := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(title)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", len(title)))
		sb.WriteString("\n")
	}
	bullets := func(items []string) {
		if len(items) == 0 {
			sb.WriteString("  (none)\n")
			return
		}
		for _, it := range items {
			sb.WriteString("  - ")
			sb.WriteString(it)
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "Request %s\n", resp.RequestID)
	fmt.Fprintf(&sb, "Risk score: %d/100 (%s)\n", r.RiskScore.Composite, r.RiskScore.Interpretation)

	section("Contract overview")
	fmt.Fprintf(&sb, "%s\n%s\n", r.ContractOverview.ContractType, r.ContractOverview.Explanation)

	section("Key entities")
	parties := make([]string, 0, len(r.Entities.Parties))
	for _, p := range r.Entities.Parties {
		if p.Role != "" {
			parties = append(parties, p.Name+" ("+p.Role+")")
		} else {
			parties = append(parties, p.Name)
		}
	}
	fmt.Fprintf(&sb, "Parties:      %s\n", orDash(strings.Join(parties, "; ")))
	fmt.Fprintf(&sb, "Jurisdiction: %s\n", orDash(r.Entities.Jurisdiction))
	fmt.Fprintf(&sb, "Duration:     %s\n", orDash(r.Entities.Duration))

	section("Clause risks")
	rows := make([][]string, 0, len(r.RiskAnalysis.ClauseRisks))
	for _, e := range r.RiskAnalysis.ClauseRisks {
		rows = append(rows, []string{
			strconv.Itoa(e.ClauseNumber),
			e.RiskLevel.String(),
			truncate(e.Heading, 40),
			strings.Join(e.Flags, ", "),
		})
	}
	sb.WriteString(FormatTable([]string{"#", "RISK", "HEADING", "FLAGS"}, rows))

	if len(r.RiskAnalysis.AmbiguityFlags) > 0 {
		section("Ambiguous language")
		for _, a := range r.RiskAnalysis.AmbiguityFlags {
			fmt.Fprintf(&sb, "  - %q: %s\n", a.Phrase, a.Reason)
		}
	}

	section("Suggestions")
	if len(r.Suggestions) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(&sb, "  [%s] Clause %d %s\n    Change: %s\n    Why:    %s\n",
			s.RiskLevel, s.ClauseNumber, s.Heading, s.SuggestedChange, s.WhyItHelps)
	}

	section("Executive summary")
	sb.WriteString(r.ExecutiveSummary.Overview)
	sb.WriteString("\nBiggest risks:\n")
	bullets(r.ExecutiveSummary.BiggestRisks)
	sb.WriteString("Negotiate before signing:\n")
	bullets(r.ExecutiveSummary.NegotiationChecklist)

	section("Best practices")
	bullets(r.BestPractices.Recommendations)

	if resp.Audit != nil && len(resp.Audit.Degradations) > 0 {
		section("Notes")
		bullets(resp.Audit.Degradations)
	}
	if resp.ReportKey != "" {
		fmt.Fprintf(&sb, "\nReport stored as %s\n", resp.ReportKey)
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

//Personal.AI order the ending
