package service

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"contact-intake-api/internal/client"
	"contact-intake-api/internal/domain"
	"contact-intake-api/internal/store"
)

// MockSubmissionStore is an in-memory implementation of store.SubmissionStore.
// Individual operations can be overridden per test.
type MockSubmissionStore struct {
	mu       sync.Mutex
	records  map[string]*domain.Submission
	index    []string
	indexCap int

	SaveFunc         func(ctx context.Context, sub *domain.Submission) error
	GetFunc          func(ctx context.Context, id string) (*domain.Submission, error)
	ExistsFunc       func(ctx context.Context, id string) (bool, error)
	PrependIndexFunc func(ctx context.Context, id string) error
	RecentIDsFunc    func(ctx context.Context, limit int) ([]string, error)
	IndexLengthFunc  func(ctx context.Context) (int64, error)
}

func NewMockSubmissionStore(indexCap int) *MockSubmissionStore {
	return &MockSubmissionStore{
		records:  make(map[string]*domain.Submission),
		indexCap: indexCap,
	}
}

func (m *MockSubmissionStore) Save(ctx context.Context, sub *domain.Submission) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sub
	m.records[sub.ID] = &copied
	return nil
}

func (m *MockSubmissionStore) Get(ctx context.Context, id string) (*domain.Submission, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *sub
	copied.Attachments = append([]domain.Attachment(nil), sub.Attachments...)
	return &copied, nil
}

func (m *MockSubmissionStore) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[id]
	return ok, nil
}

func (m *MockSubmissionStore) PrependIndex(ctx context.Context, id string) error {
	if m.PrependIndexFunc != nil {
		return m.PrependIndexFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = append([]string{id}, m.index...)
	if m.indexCap > 0 && len(m.index) > m.indexCap {
		m.index = m.index[:m.indexCap]
	}
	return nil
}

func (m *MockSubmissionStore) RecentIDs(ctx context.Context, limit int) ([]string, error) {
	if m.RecentIDsFunc != nil {
		return m.RecentIDsFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.index) {
		limit = len(m.index)
	}
	return append([]string(nil), m.index[:limit]...), nil
}

func (m *MockSubmissionStore) IndexLength(ctx context.Context) (int64, error) {
	if m.IndexLengthFunc != nil {
		return m.IndexLengthFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.index)), nil
}

// RecordCount reports the number of stored records
func (m *MockSubmissionStore) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// sentEmail captures one Send call
type sentEmail struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []client.EmailAttachment
}

// MockEmailClient records sent emails
type MockEmailClient struct {
	mu   sync.Mutex
	Sent []sentEmail

	SendFunc func(ctx context.Context, to, subject, htmlBody string, attachments []client.EmailAttachment) error
}

func (m *MockEmailClient) Send(ctx context.Context, to, subject, htmlBody string, attachments []client.EmailAttachment) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, htmlBody, attachments)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentEmail{To: to, Subject: subject, HTMLBody: htmlBody, Attachments: attachments})
	return nil
}

func (m *MockEmailClient) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// chatNotification captures one NotifyCareerEntry call
type chatNotification struct {
	Name     string
	Position string
	Email    string
}

// MockChatClient records chat notifications
type MockChatClient struct {
	mu            sync.Mutex
	Notifications []chatNotification

	NotifyCareerEntryFunc func(ctx context.Context, name, position, email string) error
}

func (m *MockChatClient) NotifyCareerEntry(ctx context.Context, name, position, email string) error {
	if m.NotifyCareerEntryFunc != nil {
		return m.NotifyCareerEntryFunc(ctx, name, position, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, chatNotification{Name: name, Position: position, Email: email})
	return nil
}

func (m *MockChatClient) NotificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notifications)
}

// MockImageRepository is an in-memory implementation of repository.ImageRepository
type MockImageRepository struct {
	mu     sync.Mutex
	assets map[string]*domain.ImageAsset

	UpsertFunc                func(ctx context.Context, image *domain.ImageAsset) error
	FindByCategoryAndNameFunc func(ctx context.Context, category, name string) (*domain.ImageAsset, error)
	FindByCategoryFunc        func(ctx context.Context, category string) ([]*domain.ImageAsset, error)
}

func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{assets: make(map[string]*domain.ImageAsset)}
}

func (m *MockImageRepository) Upsert(ctx context.Context, image *domain.ImageAsset) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, image)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *image
	m.assets[image.Category+"/"+image.Name] = &copied
	return nil
}

func (m *MockImageRepository) FindByCategoryAndName(ctx context.Context, category, name string) (*domain.ImageAsset, error) {
	if m.FindByCategoryAndNameFunc != nil {
		return m.FindByCategoryAndNameFunc(ctx, category, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok := m.assets[category+"/"+name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *asset
	return &copied, nil
}

func (m *MockImageRepository) FindByCategory(ctx context.Context, category string) ([]*domain.ImageAsset, error) {
	if m.FindByCategoryFunc != nil {
		return m.FindByCategoryFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ImageAsset
	for key, asset := range m.assets {
		if len(key) > len(category) && key[:len(category)+1] == category+"/" {
			copied := *asset
			out = append(out, &copied)
		}
	}
	return out, nil
}
