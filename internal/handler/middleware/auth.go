package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"pos-checkout/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxBusinessIDKey = "business_id"
	ctxCashierIDKey  = "cashier_id"
	ctxClaimsKey     = "jwt_claims"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Access token required"},
			})
			return
		}

		identity, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Invalid or expired token"},
			})
			return
		}

		SetTerminal(c, identity)
		c.Next()
	}
}

// SetTerminal stores the authenticated identity on the request context.
func SetTerminal(c *gin.Context, identity usecase.TerminalIdentity) {
	c.Set(ctxBusinessIDKey, identity.BusinessID)
	c.Set(ctxCashierIDKey, identity.CashierID)
	c.Set(ctxClaimsKey, map[string]any{
		"business_id": identity.BusinessID.String(),
		"cashier_id":  identity.CashierID.String(),
		"role":        identity.Role,
	})
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetBusinessID(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, ctxBusinessIDKey)
}

func GetCashierID(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, ctxCashierIDKey)
}

func uuidFromContext(c *gin.Context, key string) (uuid.UUID, bool) {
	v, exists := c.Get(key)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
