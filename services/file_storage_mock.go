package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockFileStorage is an in-memory FileStorage implementation for testing
type MockFileStorage struct {
	storedFiles map[string][]byte // map of stored name to file content
	mu          sync.RWMutex
}

// NewMockFileStorage creates a new mock storage
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{
		storedFiles: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance for testing
func (m *MockFileStorage) SetAsMockForTesting() {
	SetFileStorage(m)
}

// Save simulates storing an uploaded file
func (m *MockFileStorage) Save(storedName string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.storedFiles[storedName] = content
	m.mu.Unlock()

	return nil
}

// PresignedURL returns "" so downloads take the locally-served path
func (m *MockFileStorage) PresignedURL(storedName string) (string, error) {
	return "", nil
}

// Delete simulates deleting a stored file
func (m *MockFileStorage) Delete(storedName string) error {
	m.mu.Lock()
	delete(m.storedFiles, storedName)
	m.mu.Unlock()
	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockFileStorage) FileExists(storedName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.storedFiles[storedName]
	return exists
}

// StoredFiles returns a copy of all stored files (for testing assertions)
func (m *MockFileStorage) StoredFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.storedFiles))
	for k, v := range m.storedFiles {
		files[k] = v
	}
	return files
}

// Clear removes all files from mock storage
func (m *MockFileStorage) Clear() {
	m.mu.Lock()
	m.storedFiles = make(map[string][]byte)
	m.mu.Unlock()
}
