package handlers

import (
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentRequestHandler struct {
	requests *services.PaymentRequestService
	shared   *DocumentRoutes
	logger   *zap.Logger
}

func NewPaymentRequestHandler(requests *services.PaymentRequestService, shared *DocumentRoutes, logger *zap.Logger) *PaymentRequestHandler {
	return &PaymentRequestHandler{
		requests: requests,
		shared:   shared,
		logger:   logger.With(zap.String("handler", "payment_requests")),
	}
}

func (h *PaymentRequestHandler) Register(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	h.shared.Register(g)
}

func (h *PaymentRequestHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.PaymentRequestInput
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

func (h *PaymentRequestHandler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	reqs, err := h.requests.List(c.Request.Context(), p, models.DocumentStatus(c.Query("status")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *PaymentRequestHandler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.PaymentRequestInput
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
