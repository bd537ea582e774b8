package handlers

import (
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StaffStrategyHandler struct {
	strategies *services.StaffStrategyService
	shared     *DocumentRoutes
	logger     *zap.Logger
}

func NewStaffStrategyHandler(strategies *services.StaffStrategyService, shared *DocumentRoutes, logger *zap.Logger) *StaffStrategyHandler {
	return &StaffStrategyHandler{
		strategies: strategies,
		shared:     shared,
		logger:     logger.With(zap.String("handler", "staff_strategies")),
	}
}

func (h *StaffStrategyHandler) Register(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	h.shared.Register(g)
}

func (h *StaffStrategyHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.StaffStrategyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	strategy, err := h.strategies.Create(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, strategy)
}

func (h *StaffStrategyHandler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	strategies, err := h.strategies.List(c.Request.Context(), p, models.DocumentStatus(c.Query("status")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, strategies)
}

func (h *StaffStrategyHandler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var in services.StaffStrategyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	strategy, err := h.strategies.Update(c.Request.Context(), c.Param("id"), p, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, strategy)
}
