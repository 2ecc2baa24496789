package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/fitmeal/mealplan-backend/internal/types"
)

// MockTokenService is a mock implementation of the ITokenService interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockTokenService) GenerateToken(claims *types.TokenClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}
