package handlers

import (
	"context"
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/casfod/stafff-portal-backend-sub001/internal/render"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LifecycleService is what the shared document routes need from a per-kind
// service: everything except the kind-specific payload operations.
type LifecycleService interface {
	Kind() models.DocumentKind
	Load(ctx context.Context, id string, p lifecycle.Principal) (services.Record, error)
	Transition(ctx context.Context, id string, action lifecycle.Action, p lifecycle.Principal) (services.Record, error)
	Delete(ctx context.Context, id string, p lifecycle.Principal) error
}

// DocumentRoutes mounts the operations every document kind shares: get,
// lifecycle transitions, deletion, the PDF export, the file sub-resource and
// the comment sub-thread. Create/update/list stay on the per-kind handlers
// because their payloads differ.
type DocumentRoutes struct {
	svc        LifecycleService
	comments   *services.CommentService
	files      *services.FileService
	renderer   render.Renderer
	logger     *zap.Logger
	withReview bool
}

func NewDocumentRoutes(
	svc LifecycleService,
	comments *services.CommentService,
	files *services.FileService,
	renderer render.Renderer,
	logger *zap.Logger,
) *DocumentRoutes {
	return &DocumentRoutes{
		svc:        svc,
		comments:   comments,
		files:      files,
		renderer:   renderer,
		logger:     logger.With(zap.String("handler", string(svc.Kind()))),
		withReview: svc.Kind() == models.KindConceptNote,
	}
}

func (r *DocumentRoutes) Register(g *gin.RouterGroup) {
	g.GET("/:id", r.Get)
	g.DELETE("/:id", r.Delete)
	g.POST("/:id/submit", r.transitionHandler(lifecycle.ActionSubmit))
	if r.withReview {
		g.POST("/:id/review", r.transitionHandler(lifecycle.ActionReview))
	}
	g.POST("/:id/approve", r.transitionHandler(lifecycle.ActionApprove))
	g.POST("/:id/reject", r.transitionHandler(lifecycle.ActionReject))
	g.GET("/:id/pdf", r.ExportPDF)

	g.POST("/:id/files", r.AttachFile)
	g.GET("/:id/files", r.ListFiles)
	g.DELETE("/:id/files/:assocId", r.DetachFile)

	g.POST("/:id/comments", r.AddComment)
	g.GET("/:id/comments", r.ListComments)
	g.PUT("/:id/comments/:commentId", r.EditComment)
	g.DELETE("/:id/comments/:commentId", r.DeleteComment)
}

func (r *DocumentRoutes) Get(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	rec, err := r.svc.Load(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *DocumentRoutes) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if err := r.svc.Delete(c.Request.Context(), c.Param("id"), p); err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *DocumentRoutes) transitionHandler(action lifecycle.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		rec, err := r.svc.Transition(c.Request.Context(), c.Param("id"), action, p)
		if err != nil {
			writeError(c, r.logger, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (r *DocumentRoutes) ExportPDF(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	rec, err := r.svc.Load(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	if rec.Core().Status != models.StatusApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "document is not approved"})
		return
	}
	if r.renderer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "document rendering is not configured"})
		return
	}

	pdf, err := r.renderer.Render(c.Request.Context(), rec)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+rec.Core().ReferenceCode+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type attachFileRequest struct {
	FileID    string `json:"file_id" binding:"required"`
	FieldName string `json:"field_name"`
}

func (r *DocumentRoutes) AttachFile(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var req attachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := r.svc.Load(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}

	assoc, err := r.files.Attach(c.Request.Context(), req.FileID, r.svc.Kind(), rec.Core().ID, req.FieldName)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusCreated, assoc)
}

func (r *DocumentRoutes) ListFiles(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	rec, err := r.svc.Load(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}

	var fieldName *string
	if v, ok := c.GetQuery("field_name"); ok {
		fieldName = &v
	}
	assocs, err := r.files.ListFor(c.Request.Context(), r.svc.Kind(), rec.Core().ID, fieldName)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, assocs)
}

func (r *DocumentRoutes) DetachFile(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if _, err := r.svc.Load(c.Request.Context(), c.Param("id"), p); err != nil {
		writeError(c, r.logger, err)
		return
	}
	if err := r.files.Detach(c.Request.Context(), c.Param("assocId")); err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (r *DocumentRoutes) AddComment(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := r.svc.Load(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}

	comment, err := r.comments.Add(c.Request.Context(), r.svc.Kind(), rec.Core().ID, p, req.Text)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (r *DocumentRoutes) ListComments(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	rec, err := r.svc.Load(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}

	// The audit view including soft-deleted rows is admin-only.
	includeDeleted := c.Query("includeDeleted") == "true" && p.Role.AtLeast(models.RoleAdmin)
	comments, err := r.comments.List(c.Request.Context(), r.svc.Kind(), rec.Core().ID, includeDeleted)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (r *DocumentRoutes) EditComment(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := r.svc.Load(c.Request.Context(), c.Param("id"), p); err != nil {
		writeError(c, r.logger, err)
		return
	}

	comment, err := r.comments.Edit(c.Request.Context(), c.Param("commentId"), p, req.Text)
	if err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (r *DocumentRoutes) DeleteComment(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if _, err := r.svc.Load(c.Request.Context(), c.Param("id"), p); err != nil {
		writeError(c, r.logger, err)
		return
	}
	if err := r.comments.Delete(c.Request.Context(), c.Param("commentId"), p); err != nil {
		writeError(c, r.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
