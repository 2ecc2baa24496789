package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fitmeal/mealplan-backend/internal/types"
)

// MockPlanService is a mock implementation of the IPlanService interface
type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) PlanDay(ctx context.Context, userID uuid.UUID, req *types.PlanRequest) (*types.StoredPlan, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredPlan), args.Error(1)
}

func (m *MockPlanService) PlanWeek(ctx context.Context, userID uuid.UUID, req *types.PlanRequest) (*types.StoredPlan, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredPlan), args.Error(1)
}

func (m *MockPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*types.StoredPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredPlan), args.Error(1)
}
