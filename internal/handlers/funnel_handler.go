package handlers

import (
	"fmt"
	"net/http"

	"iqtest-service/internal/models"
	"iqtest-service/internal/service"

	"github.com/gin-gonic/gin"
)

// FunnelHandler serves the two submission endpoints.
type FunnelHandler struct {
	Service *service.FunnelService
}

func NewFunnelHandler(s *service.FunnelService) *FunnelHandler {
	return &FunnelHandler{Service: s}
}

// SubmitTest stores a finished attempt and sends the client on to email
// collection.
func (h *FunnelHandler) SubmitTest(c *gin.Context) {
	var req models.SubmitTestRequest
	if err := bindJSONObject(c, &req); err != nil {
		abortWithError(c, http.StatusInternalServerError, fmt.Errorf("decode test submission: %w", err))
		return
	}

	id, err := h.Service.SubmitTest(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmitTestResponse{
		Success:  true,
		TestID:   id,
		Redirect: models.PathEmailCollection,
	})
}

// SubmitEmail attaches an email to an attempt. Unknown test ids are not
// reported to the client.
func (h *FunnelHandler) SubmitEmail(c *gin.Context) {
	var req models.SubmitEmailRequest
	if err := bindJSONObject(c, &req); err != nil {
		abortWithError(c, http.StatusInternalServerError, fmt.Errorf("decode email submission: %w", err))
		return
	}

	if _, err := h.Service.SubmitEmail(c.Request.Context(), req); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmitEmailResponse{
		Success:  true,
		Redirect: models.PathAnalysis,
	})
}
