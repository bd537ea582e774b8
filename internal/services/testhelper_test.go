package services

import (
	"fmt"
	"testing"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	staff      = lifecycle.Principal{ID: 1, Role: models.RoleStaff}
	otherStaff = lifecycle.Principal{ID: 2, Role: models.RoleStaff}
	reviewer   = lifecycle.Principal{ID: 3, Role: models.RoleReviewer}
	admin      = lifecycle.Principal{ID: 4, Role: models.RoleAdmin}
	otherAdmin = lifecycle.Principal{ID: 5, Role: models.RoleAdmin}
)

// newTestDB opens a private in-memory database. A single connection keeps
// sqlite writes serialized so concurrent test goroutines contend the way
// concurrent requests do against the row locks of the production store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func newDocumentService(t *testing.T) (*gorm.DB, *DocumentService) {
	t.Helper()
	gdb := newTestDB(t)
	return gdb, NewDocumentService(gdb, zap.NewNop(), metrics.NewCollector())
}
