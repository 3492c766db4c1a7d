package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookstore-server/internal/schemas"
)

type MockBasketManager struct {
	mock.Mock
}

func (m *MockBasketManager) GetBasket(ctx context.Context, basketID string) (*schemas.BasketDTO, error) {
	args := m.Called(ctx, basketID)
	if basket := args.Get(0); basket != nil {
		return basket.(*schemas.BasketDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBasketManager) SetItem(ctx context.Context, basketID, productID string, quantity int) error {
	args := m.Called(ctx, basketID, productID, quantity)
	return args.Error(0)
}

func (m *MockBasketManager) RemoveItem(ctx context.Context, basketID, productID string) error {
	args := m.Called(ctx, basketID, productID)
	return args.Error(0)
}
