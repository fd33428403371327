package mocks

import (
	"context"

	"github.com/flowforge/flowforge/pkg/protocol"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of protocol.Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, message protocol.Message) (protocol.SendResult, error) {
	args := m.Called(ctx, message)

	return args.Get(0).(protocol.SendResult), args.Error(1)
}

// MockAPICaller is a mock implementation of protocol.APICaller interface.
type MockAPICaller struct {
	mock.Mock
}

func (m *MockAPICaller) Call(ctx context.Context, request protocol.APIRequest) (protocol.APIResponse, error) {
	args := m.Called(ctx, request)

	return args.Get(0).(protocol.APIResponse), args.Error(1)
}
