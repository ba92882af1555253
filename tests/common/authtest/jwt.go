//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const RoleCashier = "cashier"

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

// GenerateToken issues a terminal token for cashierID at businessID.
func (h *JWTHelper) GenerateToken(t *testing.T, businessID, cashierID uuid.UUID) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(cashierID, businessID, RoleCashier)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, businessID, cashierID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(cashierID, businessID, RoleCashier)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
