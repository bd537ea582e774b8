package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api"
	"github.com/casfod/stafff-portal-backend-sub001/internal/config"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/casfod/stafff-portal-backend-sub001/internal/storage"
	"github.com/casfod/stafff-portal-backend-sub001/internal/utils"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/logger"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	flag.Parse()

	var cfg *config.Configuration
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.InitializeDefaultConfig()
	}

	zapLogger, err := logger.New(cfg.Logging.Environment, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := seedUsers(database, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed users", zap.Error(err))
	}

	var store storage.ObjectStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
		if err != nil {
			zapLogger.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		store = s3Store
	} else {
		zapLogger.Warn("No storage bucket configured, file uploads disabled")
	}

	collector := metrics.NewCollector()
	documentService := services.NewDocumentService(database, zapLogger, collector)

	svcs := api.Services{
		ConceptNotes:     services.NewConceptNoteService(database, zapLogger, documentService),
		PurchaseRequests: services.NewPurchaseRequestService(database, zapLogger, documentService),
		StaffStrategies:  services.NewStaffStrategyService(database, zapLogger, documentService),
		PaymentRequests:  services.NewPaymentRequestService(database, zapLogger, documentService),
		Comments:         services.NewCommentService(database, zapLogger, collector),
		Files:            services.NewFileService(database, store, zapLogger, collector),
	}

	router := api.NewRouter(zapLogger, collector, cfg, svcs, database)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	go func() {
		if err := router.Run(":" + port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}

func seedUsers(database *gorm.DB, cfg *config.Configuration, logger *zap.Logger) error {
	var count int64
	database.Model(&models.User{}).Count(&count)
	if count > 0 {
		logger.Info("Users already seeded, skipping")
		return nil
	}
	logger.Info("Seeding initial users")

	seeds := []struct {
		username, email, password string
		role                      models.UserRole
		firstName, lastName, dept string
	}{
		{"dprogram", "dprogram@casfod.org", "changeme-on-first-login", models.RoleSuperAdmin, "Director", "Programs", "Management"},
		{"finadmin", "finadmin@casfod.org", "changeme-on-first-login", models.RoleAdmin, "Finance", "Admin", "Finance"},
		{"mereview", "mereview@casfod.org", "changeme-on-first-login", models.RoleReviewer, "MEAL", "Officer", "MEAL"},
		{"fieldstaff", "fieldstaff@casfod.org", "changeme-on-first-login", models.RoleStaff, "Field", "Officer", "Operations"},
	}

	for _, s := range seeds {
		hash, err := utils.HashPassword(s.password, cfg.Security.BcryptCost)
		if err != nil {
			return err
		}
		user := models.User{
			Username:     s.username,
			Email:        s.email,
			PasswordHash: hash,
			Role:         s.role,
			FirstName:    s.firstName,
			LastName:     s.lastName,
			Department:   s.dept,
			ActiveStatus: true,
		}
		if err := database.Create(&user).Error; err != nil {
			return err
		}
	}

	logger.Info("User seeding completed", zap.Int("count", len(seeds)))
	return nil
}
