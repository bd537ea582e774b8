package api

import (
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/handlers"
	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/config"
	"github.com/casfod/stafff-portal-backend-sub001/internal/render"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	ConceptNotes     *services.ConceptNoteService
	PurchaseRequests *services.PurchaseRequestService
	StaffStrategies  *services.StaffStrategyService
	PaymentRequests  *services.PaymentRequestService
	Comments         *services.CommentService
	Files            *services.FileService
	Renderer         render.Renderer
}

type Router struct {
	engine  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewRouter(
	logger *zap.Logger,
	collector *metrics.Collector,
	cfg *config.Configuration,
	svcs Services,
	db *gorm.DB,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Security.JWTSecret)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "casfod-portal"})
	})
	engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  collector.GetCounters(),
			"latencies": collector.GetLatencies(),
			"sizes":     collector.GetSizes(),
		})
	})

	authHandler := handlers.NewAuthHandler(db, &cfg.Security, logger)
	engine.POST("/api/auth/login", authHandler.Login)

	authorized := engine.Group("/api")
	authorized.Use(authMiddleware.RequireAuth())
	authorized.GET("/auth/me", authHandler.Me)

	handlers.NewFileHandler(svcs.Files, logger).
		Register(authorized.Group("/files"))

	handlers.NewConceptNoteHandler(svcs.ConceptNotes,
		handlers.NewDocumentRoutes(svcs.ConceptNotes, svcs.Comments, svcs.Files, svcs.Renderer, logger),
		logger).
		Register(authorized.Group("/concept-notes"))
	handlers.NewPurchaseRequestHandler(svcs.PurchaseRequests,
		handlers.NewDocumentRoutes(svcs.PurchaseRequests, svcs.Comments, svcs.Files, svcs.Renderer, logger),
		logger).
		Register(authorized.Group("/purchase-requests"))
	handlers.NewStaffStrategyHandler(svcs.StaffStrategies,
		handlers.NewDocumentRoutes(svcs.StaffStrategies, svcs.Comments, svcs.Files, svcs.Renderer, logger),
		logger).
		Register(authorized.Group("/staff-strategies"))
	handlers.NewPaymentRequestHandler(svcs.PaymentRequests,
		handlers.NewDocumentRoutes(svcs.PaymentRequests, svcs.Comments, svcs.Files, svcs.Renderer, logger),
		logger).
		Register(authorized.Group("/payment-requests"))

	return &Router{
		engine:  engine,
		logger:  logger,
		metrics: collector,
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	r.logger.Info("Starting HTTP server", zap.String("address", addr))
	return r.engine.Run(addr)
}
