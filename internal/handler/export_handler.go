package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mblog/internal/pkg/errcode"
	"github.com/xxxsen/mblog/internal/pkg/response"
	"github.com/xxxsen/mblog/internal/service"
)

type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type exportRequest struct {
	Types  []string `json:"types"`
	Status string   `json:"status"`
	Format string   `json:"format"`
}

func (h *ExportHandler) Bulk(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	opts := service.ExportOptions{Types: req.Types, Status: req.Status}
	if strings.EqualFold(req.Format, "json") {
		posts, err := h.exports.ExportJSON(c.Request.Context(), opts)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, gin.H{"posts": posts, "total": len(posts)})
		return
	}
	data, filename, err := h.exports.ExportZip(c.Request.Context(), opts)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/zip", data)
}
