package mocks

import (
	"context"

	"github.com/lamim/horrorforge/internal/api"
	"github.com/lamim/horrorforge/pkg/models"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock type for the api.Provider type
type MockProvider struct {
	mock.Mock
}

// StartChat provides a mock function with given fields: history
func (_m *MockProvider) StartChat(history []models.Turn) api.ChatSession {
	ret := _m.Called(history)

	var r0 api.ChatSession
	if rf, ok := ret.Get(0).(func([]models.Turn) api.ChatSession); ok {
		r0 = rf(history)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(api.ChatSession)
	}

	return r0
}

// ModelName provides a mock function with no fields
func (_m *MockProvider) ModelName() string {
	ret := _m.Called()
	return ret.String(0)
}

// NewMockProvider creates a new instance of MockProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockChatSession is a mock type for the api.ChatSession type
type MockChatSession struct {
	mock.Mock
}

// SendMessage provides a mock function with given fields: ctx, text
func (_m *MockChatSession) SendMessage(ctx context.Context, text string) (*api.Completion, error) {
	ret := _m.Called(ctx, text)

	var r0 *api.Completion
	if rf, ok := ret.Get(0).(func(context.Context, string) *api.Completion); ok {
		r0 = rf(ctx, text)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*api.Completion)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, text)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockChatSession creates a new instance of MockChatSession. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockChatSession(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockChatSession {
	m := &MockChatSession{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ api.Provider    = (*MockProvider)(nil)
	_ api.ChatSession = (*MockChatSession)(nil)
)
