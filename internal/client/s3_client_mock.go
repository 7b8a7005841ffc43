package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MockS3Client implements S3ClientInterface for testing without AWS
// credentials. By default it keeps objects in memory; individual operations
// can be overridden per test.
type MockS3Client struct {
	Bucket string

	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	stored  map[string]time.Time

	UploadFileFunc                   func(ctx context.Context, key string, body io.Reader, contentType string) error
	DownloadFileFunc                 func(ctx context.Context, key string) ([]byte, error)
	DeleteFileFunc                   func(ctx context.Context, key string) error
	ListFilesFunc                    func(ctx context.Context, prefix string) ([]BlobEntry, error)
	GeneratePresignedDownloadURLFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	GetPublicURLFunc                 func(key string) string
}

// NewMockS3Client creates a new in-memory mock blob store
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		stored:  make(map[string]time.Time),
	}
}

func (m *MockS3Client) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) error {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, body, contentType)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	m.stored[key] = time.Now()
	return nil
}

func (m *MockS3Client) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	if m.DownloadFileFunc != nil {
		return m.DownloadFileFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return bytes.Clone(data), nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	delete(m.stored, key)
	return nil
}

func (m *MockS3Client) ListFiles(ctx context.Context, prefix string) ([]BlobEntry, error) {
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(ctx, prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []BlobEntry
	for key, data := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			entries = append(entries, BlobEntry{
				Key:          key,
				Size:         int64(len(data)),
				LastModified: m.stored[key],
			})
		}
	}
	return entries, nil
}

func (m *MockS3Client) GeneratePresignedDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.GeneratePresignedDownloadURLFunc != nil {
		return m.GeneratePresignedDownloadURLFunc(ctx, key, ttl)
	}
	return fmt.Sprintf("https://%s.s3.test/%s?signed=true&expires=%d", m.Bucket, key, int(ttl.Seconds())), nil
}

func (m *MockS3Client) GetPublicURL(key string) string {
	if m.GetPublicURLFunc != nil {
		return m.GetPublicURLFunc(key)
	}
	return fmt.Sprintf("https://%s.s3.test/%s", m.Bucket, key)
}

// ObjectCount reports the number of stored objects
func (m *MockS3Client) ObjectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// SetLastModified backdates an object, for cleanup job tests
func (m *MockS3Client) SetLastModified(key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[key] = t
}
