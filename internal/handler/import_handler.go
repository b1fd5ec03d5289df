package handler

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mblog/internal/pkg/errcode"
	"github.com/xxxsen/mblog/internal/pkg/response"
	"github.com/xxxsen/mblog/internal/service"
)

type ImportHandler struct {
	imports       *service.ImportService
	maxUploadSize int64
}

func NewImportHandler(imports *service.ImportService, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{imports: imports, maxUploadSize: maxUploadSize}
}

func (h *ImportHandler) Preview(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	preview, err := h.imports.Preview(c.Request.Context(), filename, data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, preview)
}

func (h *ImportHandler) Import(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	opts := service.ImportOptions{
		OverwriteExisting: parseBoolField(c, "overwrite_existing"),
		CreateMissingTags: parseBoolFieldDefault(c, "create_missing_tags", true),
	}
	result, err := h.imports.Import(c.Request.Context(), filename, data, opts)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// readUpload enforces size and extension before reading the payload
// into memory.
func (h *ImportHandler) readUpload(c *gin.Context) (string, []byte, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return "", nil, false
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		response.Error(c, errcode.ErrInvalidFile, "file too large (max "+formatUploadLimit(h.maxUploadSize)+")")
		return "", nil, false
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".zip" && ext != ".md" && ext != ".markdown" {
		response.Error(c, errcode.ErrInvalidFile, "zip or markdown file required")
		return "", nil, false
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return "", nil, false
	}
	defer opened.Close()
	data, err := io.ReadAll(opened)
	if err != nil {
		response.Error(c, errcode.ErrImportFailed, "failed to read file")
		return "", nil, false
	}
	return file.Filename, data, true
}

func parseBoolField(c *gin.Context, name string) bool {
	value, _ := strconv.ParseBool(c.PostForm(name))
	return value
}

func parseBoolFieldDefault(c *gin.Context, name string, fallback bool) bool {
	raw := c.PostForm(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
