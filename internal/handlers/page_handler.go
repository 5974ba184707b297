package handlers

import (
	"net/http"

	"iqtest-service/internal/models"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	SiteName string
}

func NewPageHandler(siteName string) *PageHandler {
	return &PageHandler{SiteName: siteName}
}

// Render returns a handler that renders page's template.
func (h *PageHandler) Render(page models.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, page.Template, gin.H{
			"Title":    page.Title,
			"Path":     page.Path,
			"SiteName": h.SiteName,
		})
	}
}

// Register mounts every page on r.
func (h *PageHandler) Register(r gin.IRoutes, pages []models.Page) {
	for _, page := range pages {
		r.GET(page.Path, h.Render(page))
	}
}
