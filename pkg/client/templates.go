package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/turtacn/ContractLens/pkg/errors"
)

// SMETemplate describes a downloadable contract template.
type SMETemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
}

// ClauseTemplate is one entry of the standard clause library.
type ClauseTemplate struct {
	ID      string   `json:"id"`
	Heading string   `json:"heading"`
	Intent  string   `json:"intent"`
	Domains []string `json:"domains,omitempty"`
}

// ListTemplates lists the SME contract templates.
func (c *Client) ListTemplates(ctx context.Context) ([]SMETemplate, error) {
	var out struct {
		Templates []SMETemplate `json:"templates"`
	}
	if err := c.getJSON(ctx, "/api/v1/templates", &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// DownloadTemplate returns the plain-text body of an SME template.
func (c *Client) DownloadTemplate(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, errors.InputError("client: template id is required")
	}
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/templates/" + url.PathEscape(id),
		accept: "text/plain",
	})
}

// ListClauseTemplates lists the clause library, scoped to a contract type
// when domain is non-empty.
func (c *Client) ListClauseTemplates(ctx context.Context, domain string) ([]ClauseTemplate, error) {
	path := "/api/v1/catalog/templates"
	if domain != "" {
		path += "?domain=" + url.QueryEscape(domain)
	}
	var out struct {
		Templates []ClauseTemplate `json:"templates"`
	}
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

//Personal.AI order the ending
