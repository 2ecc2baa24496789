package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

// MockPreferenceService is a mock implementation of the IPreferenceService interface
type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) Rate(ctx context.Context, userID uuid.UUID, food string, rating int) (*models.UserFoodPreference, error) {
	args := m.Called(ctx, userID, food, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserFoodPreference), args.Error(1)
}

func (m *MockPreferenceService) PreferenceMap(ctx context.Context, userID uuid.UUID) (model.PreferenceMap, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PreferenceMap), args.Error(1)
}

// MockPairingService is a mock implementation of the IPairingService interface
type MockPairingService struct {
	mock.Mock
}

func (m *MockPairingService) Snapshot(ctx context.Context) (model.PairingTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PairingTable), args.Error(1)
}

func (m *MockPairingService) Retrain(ctx context.Context) (*types.RetrainResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RetrainResponse), args.Error(1)
}
