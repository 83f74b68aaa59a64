// Package mcp exposes contract analysis as Model Context Protocol tools so
// assistants can analyse a contract over stdio.
package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/turtacn/ContractLens/internal/application/analysis"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/pkg/errors"
)

const (
	ToolAnalyzeContract     = "analyze_contract"
	ToolListClauseTemplates = "list_clause_templates"
	ToolGetSMETemplate      = "get_sme_template"
)

// Server wraps the SDK server with the ContractLens tools registered.
type Server struct {
	MCPServer *sdkmcp.Server
	svc       analysis.Service
	log       logging.Logger
}

// NewServer registers every tool on a fresh SDK server.
func NewServer(svc analysis.Service, version string, log logging.Logger) *Server {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "contractlens", Version: version}, nil),
		svc:       svc,
		log:       log.Named("mcp"),
	}

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name: ToolAnalyzeContract,
		Description: "Analyse an Indian SME contract. Returns the contract type, parties, a clause-by-clause " +
			"risk table, renegotiation suggestions, an executive summary and a 0-100 composite risk score.",
	}, s.handleAnalyze)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        ToolListClauseTemplates,
		Description: "List the standard clause library used for template matching, optionally for one contract type.",
	}, s.handleListTemplates)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        ToolGetSMETemplate,
		Description: "Return the text of an SME-friendly contract template (service_agreement_sme, nda_mutual_sme).",
	}, s.handleGetSMETemplate)

	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// ─────────────────────────────────────────────────────────────────────────────
// Tool inputs
// ─────────────────────────────────────────────────────────────────────────────

type analyzeInput struct {
	ContractText string `json:"contract_text" jsonschema:"full contract text, UTF-8"`
	Language     string `json:"language,omitempty" jsonschema:"english (default) or hindi"`
	BusinessRole string `json:"business_role,omitempty" jsonschema:"the caller's role in the contract, e.g. vendor or tenant"`
}

type listTemplatesInput struct {
	Domain string `json:"domain,omitempty" jsonschema:"contract type: service, nda, employment, lease, partnership, vendor or mixed"`
}

type smeTemplateInput struct {
	ID string `json:"id" jsonschema:"template id"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

// Results are returned as JSON text content.  The analysis types carry
// custom JSON encodings that an inferred output schema would misdescribe.

func (s *Server) handleAnalyze(ctx context.Context, _ *sdkmcp.CallToolRequest, in analyzeInput) (*sdkmcp.CallToolResult, any, error) {
	resp, err := s.svc.Analyze(ctx, &analysis.AnalyzeRequest{
		Text:         in.ContractText,
		Language:     in.Language,
		BusinessRole: in.BusinessRole,
		Source:       "mcp",
	})
	if err != nil {
		s.log.Warn("analyze_contract failed", logging.Err(err))
		return nil, nil, err
	}
	return jsonResult(resp)
}

type clauseTemplateView struct {
	ID      string   `json:"id"`
	Heading string   `json:"heading"`
	Intent  string   `json:"intent"`
	Domains []string `json:"domains,omitempty"`
}

func (s *Server) handleListTemplates(_ context.Context, _ *sdkmcp.CallToolRequest, in listTemplatesInput) (*sdkmcp.CallToolResult, any, error) {
	list := s.svc.Catalog().TemplatesFor(in.Domain)
	out := make([]clauseTemplateView, 0, len(list))
	for _, t := range list {
		out = append(out, clauseTemplateView{ID: t.ID, Heading: t.Heading, Intent: string(t.Intent), Domains: t.Domains})
	}
	return jsonResult(map[string]any{"templates": out})
}

func (s *Server) handleGetSMETemplate(_ context.Context, _ *sdkmcp.CallToolRequest, in smeTemplateInput) (*sdkmcp.CallToolResult, any, error) {
	t, err := s.svc.Catalog().SMETemplate(in.ID)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: t.Body}},
	}, nil, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode tool result")
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(b)}},
	}, nil, nil
}

//Personal.AI order the ending
