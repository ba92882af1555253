package usecase

import (
	"pos-checkout/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TerminalIdentity is who is ringing up the sale.
type TerminalIdentity struct {
	BusinessID uuid.UUID
	CashierID  uuid.UUID
	Role       string
}

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (TerminalIdentity, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (TerminalIdentity, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return TerminalIdentity{}, err
	}
	return TerminalIdentity{
		BusinessID: claims.BusinessID,
		CashierID:  claims.CashierID,
		Role:       claims.Role,
	}, nil
}
