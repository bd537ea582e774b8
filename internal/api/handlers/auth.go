package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/casfod/stafff-portal-backend-sub001/internal/api/middleware"
	"github.com/casfod/stafff-portal-backend-sub001/internal/config"
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.SecurityConfig
	logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.SecurityConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		db:     db,
		cfg:    cfg,
		logger: logger.With(zap.String("handler", "auth")),
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil || !user.ActiveStatus || !utils.VerifyPassword(user.PasswordHash, req.Password) {
		// One message for every failure mode; do not reveal which credential
		// was wrong or whether the account exists.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	now := time.Now()
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.cfg.TokenTTL)),
			Issuer:    "casfod-portal",
		},
		Role: user.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.Error("token signing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.db.Model(&user).UpdateColumn("last_login", now)
	h.logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
}
