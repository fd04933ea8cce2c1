package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"projectpulse/backend/internal/models"
)

// Context keys set by the auth middleware.
const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// generateJWT mints a token carrying the caller identity the services need.
func (h *Handler) generateJWT(userID string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
		"iss":     "projectpulse-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

// MintToken issues a token for a known user. This is the development stand-in
// for the identity service; it verifies the user exists and echoes the role
// stored on the account, not the one requested.
func (h *Handler) MintToken(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	user, err := h.Storage.GetUserByID(req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	token, err := h.generateJWT(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": user.ID, "role": user.Role})
}

// AuthRequired validates the bearer token and stores the caller identity in
// the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		userID, role, err := h.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

func (h *Handler) parseToken(tokenString string) (string, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", jwt.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenMalformed
	}
	userID, _ := claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if userID == "" || !role.Valid() {
		return "", "", jwt.ErrTokenMalformed
	}
	return userID, role, nil
}

// caller returns the identity the middleware stored.
func caller(c *gin.Context) (string, models.Role) {
	return c.GetString(ctxUserID), c.MustGet(ctxRole).(models.Role)
}
