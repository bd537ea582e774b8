package handlers

import (
	"io"
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 25 MB, matching the largest scanned attachment the office produces.
const maxUploadBytes = 25 << 20

type FileHandler struct {
	files  *services.FileService
	logger *zap.Logger
}

func NewFileHandler(files *services.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger.With(zap.String("handler", "files")),
	}
}

func (h *FileHandler) Register(g *gin.RouterGroup) {
	g.POST("", h.Upload)
	g.GET("/:id", h.Get)
	g.GET("/:id/associations", h.ListAssociations)
	g.DELETE("/:id", h.Delete)
}

func (h *FileHandler) Upload(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("read uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	file, err := h.files.Upload(c.Request.Context(), p, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *FileHandler) Get(c *gin.Context) {
	file, err := h.files.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// ListAssociations answers "which documents reference this file".
func (h *FileHandler) ListAssociations(c *gin.Context) {
	assocs, err := h.files.ListForFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, assocs)
}

func (h *FileHandler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if err := h.files.DeleteFile(c.Request.Context(), c.Param("id"), p); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
