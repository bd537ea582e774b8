package handlers

import (
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConceptNoteHandler struct {
	notes  *services.ConceptNoteService
	shared *DocumentRoutes
	logger *zap.Logger
}

func NewConceptNoteHandler(notes *services.ConceptNoteService, shared *DocumentRoutes, logger *zap.Logger) *ConceptNoteHandler {
	return &ConceptNoteHandler{
		notes:  notes,
		shared: shared,
		logger: logger.With(zap.String("handler", "concept_notes")),
	}
}

func (h *ConceptNoteHandler) Register(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	h.shared.Register(g)
}

func (h *ConceptNoteHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.ConceptNoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.notes.Create(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *ConceptNoteHandler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	notes, err := h.notes.List(c.Request.Context(), p, models.DocumentStatus(c.Query("status")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *ConceptNoteHandler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.ConceptNoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.notes.Update(c.Request.Context(), c.Param("id"), p, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, note)
}
