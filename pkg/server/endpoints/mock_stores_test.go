package endpoints

import (
	"github.com/stretchr/testify/mock"

	"wrangler-in-go/pkg/store"
)

// MockRunsStore implements store.RunsStore for testing using testify/mock
type MockRunsStore struct {
	mock.Mock
}

func NewMockRunsStore() *MockRunsStore {
	return &MockRunsStore{}
}

func (m *MockRunsStore) CreateRun(run *store.Run, cells []store.CellResult, artifacts []store.Artifact) error {
	args := m.Called(run, cells, artifacts)
	return args.Error(0)
}

func (m *MockRunsStore) GetRun(id string) (*store.Run, []store.CellResult, []store.Artifact, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*store.Run), args.Get(1).([]store.CellResult), args.Get(2).([]store.Artifact), args.Error(3)
}

func (m *MockRunsStore) ListRuns(limit int) ([]store.Run, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Run), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
