package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casfod/stafff-portal-backend-sub001/internal/config"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/services"
	"github.com/casfod/stafff-portal-backend-sub001/internal/utils"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "portal-test-password"

func newTestRouter(t *testing.T) *gin.Engine {
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

	for _, u := range []struct {
		username string
		role     models.UserRole
	}{
		{"fieldstaff", models.RoleStaff},
		{"mereview", models.RoleReviewer},
		{"finadmin", models.RoleAdmin},
	} {
		hash, err := utils.HashPassword(testPassword, bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, gdb.Create(&models.User{
			Username:     u.username,
			Email:        u.username + "@casfod.org",
			PasswordHash: hash,
			Role:         u.role,
			ActiveStatus: true,
		}).Error)
	}

	cfg := &config.Configuration{
		Security: config.SecurityConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	}

	logger := zap.NewNop()
	collector := metrics.NewCollector()
	docs := services.NewDocumentService(gdb, logger, collector)
	svcs := Services{
		ConceptNotes:     services.NewConceptNoteService(gdb, logger, docs),
		PurchaseRequests: services.NewPurchaseRequestService(gdb, logger, docs),
		StaffStrategies:  services.NewStaffStrategyService(gdb, logger, docs),
		PaymentRequests:  services.NewPaymentRequestService(gdb, logger, docs),
		Comments:         services.NewCommentService(gdb, logger, collector),
		Files:            services.NewFileService(gdb, nil, logger, collector),
	}
	return NewRouter(logger, collector, cfg, svcs, gdb).GetEngine()
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func login(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", "",
		gin.H{"username": username, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin(t *testing.T) {
	engine := newTestRouter(t)

	token := login(t, engine, "fieldstaff")

	w := doJSON(t, engine, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, string(models.RoleStaff), me["role"])

	// Wrong password and unknown user fail identically.
	w = doJSON(t, engine, http.MethodPost, "/api/auth/login", "",
		gin.H{"username": "fieldstaff", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	badPass := w.Body.String()
	w = doJSON(t, engine, http.MethodPost, "/api/auth/login", "",
		gin.H{"username": "nobody", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, badPass, w.Body.String())
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/purchase-requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/purchase-requests", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchaseRequestWorkflow(t *testing.T) {
	engine := newTestRouter(t)
	staffToken := login(t, engine, "fieldstaff")
	reviewerToken := login(t, engine, "mereview")
	adminToken := login(t, engine, "finadmin")

	w := doJSON(t, engine, http.MethodPost, "/api/purchase-requests", staffToken,
		gin.H{"purpose": "field generators", "total_amount": 450000, "currency": "NGN"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	created := decode(t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, string(models.StatusDraft), created["status"])

	w = doJSON(t, engine, http.MethodPost, "/api/purchase-requests/"+id+"/submit", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	submitted := decode(t, w)
	assert.Equal(t, string(models.StatusPending), submitted["status"])
	assert.Equal(t, "PR-CASFOD001", submitted["reference_code"])

	// A reviewer is below the approval gate; the response gives nothing away.
	w = doJSON(t, engine, http.MethodPost, "/api/purchase-requests/"+id+"/approve", reviewerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/purchase-requests/"+id+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	approved := decode(t, w)
	assert.Equal(t, string(models.StatusApproved), approved["status"])

	// Approved is terminal.
	w = doJSON(t, engine, http.MethodPost, "/api/purchase-requests/"+id+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	conflict := decode(t, w)
	assert.Empty(t, conflict["allowed_next"])

	// No renderer is configured in this setup.
	w = doJSON(t, engine, http.MethodGet, "/api/purchase-requests/"+id+"/pdf", staffToken, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestConceptNoteReviewRoute(t *testing.T) {
	engine := newTestRouter(t)
	staffToken := login(t, engine, "fieldstaff")
	reviewerToken := login(t, engine, "mereview")

	w := doJSON(t, engine, http.MethodPost, "/api/concept-notes", staffToken,
		gin.H{"activity": "WASH assessment"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	id, _ := decode(t, w)["id"].(string)

	w = doJSON(t, engine, http.MethodPost, "/api/concept-notes/"+id+"/submit", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/concept-notes/"+id+"/review", reviewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, string(models.StatusReviewed), decode(t, w)["status"])

	// Only concept notes mount the review route.
	w = doJSON(t, engine, http.MethodPost, "/api/purchase-requests/"+id+"/review", reviewerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentRoutes(t *testing.T) {
	engine := newTestRouter(t)
	staffToken := login(t, engine, "fieldstaff")
	adminToken := login(t, engine, "finadmin")

	w := doJSON(t, engine, http.MethodPost, "/api/staff-strategies", staffToken,
		gin.H{"title": "Q4 outreach"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	id, _ := decode(t, w)["id"].(string)

	w = doJSON(t, engine, http.MethodPost, "/api/staff-strategies/"+id+"/comments", staffToken,
		gin.H{"text": "objectives need numbers"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	commentID, _ := decode(t, w)["id"].(string)
	require.NotEmpty(t, commentID)

	w = doJSON(t, engine, http.MethodDelete, "/api/staff-strategies/"+id+"/comments/"+commentID, staffToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/staff-strategies/"+id+"/comments", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// The audit flag is honored for admins only. A staff draft is invisible
	// to others, so the admin path needs a visible document; admins see all.
	w = doJSON(t, engine, http.MethodGet,
		"/api/staff-strategies/"+id+"/comments?includeDeleted=true", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var audit []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
	require.Len(t, audit, 1)
	assert.Equal(t, true, audit[0]["deleted"])

	// Non-admins asking for the audit view get the filtered thread.
	w = doJSON(t, engine, http.MethodGet,
		"/api/staff-strategies/"+id+"/comments?includeDeleted=true", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
