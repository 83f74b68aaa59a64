package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
)

// NewTemplatesCmd lists and prints the built-in contract templates.
func NewTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "SME-friendly contract templates and the clause library",
	}
	cmd.AddCommand(newTemplatesListCmd(), newTemplatesShowCmd(), newTemplatesClausesCmd())
	return cmd
}

func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, string, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, "", err
	}
	a := cliCtx.Config.Analysis
	cat, err := catalog.Load(catalog.Options{
		TemplatesPath: a.TemplatesPath,
		PatternsPath:  a.PatternsPath,
		PracticesPath: a.PracticesPath,
	})
	return cat, cliCtx.OutputFormat, err
}

func newTemplatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List downloadable contract templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, format, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(cmd, cat.SMETemplates)
			}
			rows := make([][]string, 0, len(cat.SMETemplates))
			for _, t := range cat.SMETemplates {
				rows = append(rows, []string{t.ID, t.Name, t.Filename})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable([]string{"ID", "NAME", "FILE"}, rows))
			return nil
		},
	}
}

func newTemplatesShowCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a contract template, or write it with --out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			t, err := cat.SMETemplate(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), t.Body)
				return nil
			}
			if err := os.WriteFile(out, []byte(t.Body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the template to this file")
	return cmd
}

func newTemplatesClausesCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "clauses",
		Short: "List the standard clause library used for matching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, format, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			var list []catalog.ClauseTemplate
			if domain == "" {
				list = cat.Templates
			} else {
				for _, t := range cat.TemplatesFor(domain) {
					list = append(list, *t)
				}
			}
			if format == "json" {
				return printJSON(cmd, list)
			}
			rows := make([][]string, 0, len(list))
			for _, t := range list {
				rows = append(rows, []string{t.ID, t.Heading, string(t.Intent), strings.Join(t.Domains, ",")})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable([]string{"ID", "HEADING", "INTENT", "DOMAINS"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "restrict to one contract type (service, nda, lease, ...)")
	return cmd
}

//Personal.AI order the ending
