package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendActivationMail(email, userName, activationURL string) error {
	args := m.Called(email, userName, activationURL)
	return args.Error(0)
}
