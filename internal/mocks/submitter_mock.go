package mocks

import (
	"context"

	"github.com/lamim/horrorforge/internal/story"
	"github.com/lamim/horrorforge/pkg/models"

	"github.com/stretchr/testify/mock"
)

// MockSubmitter is a mock type for the story.Submitter type
type MockSubmitter struct {
	mock.Mock
}

// Submit provides a mock function with given fields: ctx, req
func (_m *MockSubmitter) Submit(ctx context.Context, req models.StoryRequest) (*models.StoryResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.StoryResponse
	if rf, ok := ret.Get(0).(func(context.Context, models.StoryRequest) *models.StoryResponse); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.StoryResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, models.StoryRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockSubmitter creates a new instance of MockSubmitter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSubmitter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSubmitter {
	m := &MockSubmitter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ story.Submitter = (*MockSubmitter)(nil)
