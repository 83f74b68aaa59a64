package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
)

// TemplateHandler serves the SME contract templates and the clause
// template catalog.
type TemplateHandler struct {
	cat *catalog.Catalog
}

func NewTemplateHandler(cat *catalog.Catalog) *TemplateHandler {
	return &TemplateHandler{cat: cat}
}

// ListSME handles GET /api/v1/templates.
func (h *TemplateHandler) ListSME(c *gin.Context) {
	items := make([]catalog.SMETemplate, len(h.cat.SMETemplates))
	copy(items, h.cat.SMETemplates)
	c.JSON(http.StatusOK, gin.H{"templates": items})
}

// DownloadSME handles GET /api/v1/templates/:id and returns the template as
// a plain-text attachment.
func (h *TemplateHandler) DownloadSME(c *gin.Context) {
	t, err := h.cat.SMETemplate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+t.Filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(t.Body))
}

// ListClauses handles GET /api/v1/catalog/templates.  An optional ?domain=
// narrows the list to one contract type.
func (h *TemplateHandler) ListClauses(c *gin.Context) {
	templates := h.cat.Templates
	if d := c.Query("domain"); d != "" {
		templates = nil
		for _, t := range h.cat.TemplatesFor(d) {
			templates = append(templates, *t)
		}
	}
	if templates == nil {
		templates = []catalog.ClauseTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

//Personal.AI order the ending
