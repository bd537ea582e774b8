package handlers

import (
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseRequestHandler struct {
	requests *services.PurchaseRequestService
	shared   *DocumentRoutes
	logger   *zap.Logger
}

func NewPurchaseRequestHandler(requests *services.PurchaseRequestService, shared *DocumentRoutes, logger *zap.Logger) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{
		requests: requests,
		shared:   shared,
		logger:   logger.With(zap.String("handler", "purchase_requests")),
	}
}

func (h *PurchaseRequestHandler) Register(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	h.shared.Register(g)
}

func (h *PurchaseRequestHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.PurchaseRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := h.requests.Create(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *PurchaseRequestHandler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	reqs, err := h.requests.List(c.Request.Context(), p, models.DocumentStatus(c.Query("status")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *PurchaseRequestHandler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.PurchaseRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := h.requests.Update(c.Request.Context(), c.Param("id"), p, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
