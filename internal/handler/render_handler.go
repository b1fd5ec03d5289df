package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mblog/internal/pkg/errcode"
	"github.com/xxxsen/mblog/internal/pkg/response"
	"github.com/xxxsen/mblog/internal/service"
)

type RenderHandler struct {
	render *service.RenderService
}

func NewRenderHandler(render *service.RenderService) *RenderHandler {
	return &RenderHandler{render: render}
}

type renderRequest struct {
	Content string `json:"content"`
}

func (h *RenderHandler) Preview(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	response.Success(c, gin.H{"html": h.render.Render(req.Content)})
}
