package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookstore-server/internal/managers"
)

type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) CreateSession(ctx context.Context, session managers.Session) (string, error) {
	args := m.Called(ctx, session)
	return args.String(0), args.Error(1)
}

func (m *MockSessionManager) GetSession(ctx context.Context, sessionID string) (*managers.Session, error) {
	args := m.Called(ctx, sessionID)
	if session := args.Get(0); session != nil {
		return session.(*managers.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
