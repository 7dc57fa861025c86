package contract

import (
	"context"

	"github.com/chartpress/chartpress/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(_ context.Context, dir string, args ...string) ([]byte, error) {
	mockArgs := make([]interface{}, 0, len(args)+1)
	mockArgs = append(mockArgs, dir)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// RepoRoot implements the GitClient interface.
func (m *MockGitClient) RepoRoot(_ context.Context, contextPath string) (string, error) {
	ret := m.Called(contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// CurrentRef implements the GitClient interface.
func (m *MockGitClient) CurrentRef(_ context.Context, dir string) (string, error) {
	ret := m.Called(dir)
	ref, _ := ret.Get(0).(string)
	return ref, ret.Error(1)
}

// HeadHash implements the GitClient interface.
func (m *MockGitClient) HeadHash(_ context.Context, dir string) (string, error) {
	ret := m.Called(dir)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// RemoteURL implements the GitClient interface.
func (m *MockGitClient) RemoteURL(_ context.Context, dir string, remote string) (string, error) {
	ret := m.Called(dir, remote)
	url, _ := ret.Get(0).(string)
	return url, ret.Error(1)
}

// CloneBranch implements the GitClient interface.
func (m *MockGitClient) CloneBranch(_ context.Context, url, branch, dest string) error {
	ret := m.Called(url, branch, dest)
	return ret.Error(0)
}

// Add implements the GitClient interface.
func (m *MockGitClient) Add(_ context.Context, dir string) error {
	ret := m.Called(dir)
	return ret.Error(0)
}

// Commit implements the GitClient interface.
func (m *MockGitClient) Commit(_ context.Context, dir, message, user, email string) error {
	ret := m.Called(dir, message, user, email)
	return ret.Error(0)
}

// Push implements the GitClient interface.
func (m *MockGitClient) Push(_ context.Context, dir, branch string) error {
	ret := m.Called(dir, branch)
	return ret.Error(0)
}

// MockHelmClient is a testify mock for the HelmClient type.
type MockHelmClient struct {
	mock.Mock
}

var _ HelmClient = &MockHelmClient{} // Compile-time check

// DependencyUpdate implements the HelmClient interface.
func (m *MockHelmClient) DependencyUpdate(_ context.Context, chartDir string) error {
	ret := m.Called(chartDir)
	return ret.Error(0)
}

// Package implements the HelmClient interface.
func (m *MockHelmClient) Package(_ context.Context, chartDir, destDir string) (string, error) {
	ret := m.Called(chartDir, destDir)
	archive, _ := ret.Get(0).(string)
	return archive, ret.Error(1)
}

// RepoIndex implements the HelmClient interface.
func (m *MockHelmClient) RepoIndex(_ context.Context, dir, url, mergeWith string) error {
	ret := m.Called(dir, url, mergeWith)
	return ret.Error(0)
}

// MockHistoryStore is a testify mock for the HistoryStore type.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordRun implements the HistoryStore interface.
func (m *MockHistoryStore) RecordRun(record schema.DeploymentRecord) (int64, error) {
	ret := m.Called(record)
	id, _ := ret.Get(0).(int64)
	return id, ret.Error(1)
}

// ListRuns implements the HistoryStore interface.
func (m *MockHistoryStore) ListRuns(limit int) ([]schema.DeploymentRecord, error) {
	ret := m.Called(limit)
	records, _ := ret.Get(0).([]schema.DeploymentRecord)
	return records, ret.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.HistoryStatus)
	return status, ret.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear() error {
	ret := m.Called()
	return ret.Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockHistoryManager is a trivial HistoryManager backed by a fixed store.
type MockHistoryManager struct {
	Store HistoryStore
}

var _ HistoryManager = &MockHistoryManager{} // Compile-time check

// GetStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetStore() HistoryStore {
	return m.Store
}
