package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/repositories"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/storage"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type brktRepoMock struct{ mock.Mock }

var _ repositories.BrktRepository = (*brktRepoMock)(nil)

func (m *brktRepoMock) GetByID(ctx context.Context, id string) (*models.Brkt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Brkt), args.Error(1)
}

func (m *brktRepoMock) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Brkt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Brkt), args.Error(1)
}

func (m *brktRepoMock) SetLocked(ctx context.Context, exec repositories.SQLExecutor, id string, locked bool) error {
	args := m.Called(ctx, exec, id, locked)
	return args.Error(0)
}

type entryRepoMock struct{ mock.Mock }

var _ repositories.BrktEntryRepository = (*entryRepoMock)(nil)

func (m *entryRepoMock) ListByBrkt(ctx context.Context, exec repositories.SQLExecutor, brktID string) ([]models.BrktEntry, error) {
	args := m.Called(ctx, brktID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BrktEntry), args.Error(1)
}

func (m *entryRepoMock) Upsert(ctx context.Context, entry *models.BrktEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *entryRepoMock) Delete(ctx context.Context, brktID, playerID string) error {
	args := m.Called(ctx, brktID, playerID)
	return args.Error(0)
}

type oneBrktRepoMock struct{ mock.Mock }

var _ repositories.OneBrktRepository = (*oneBrktRepoMock)(nil)

func (m *oneBrktRepoMock) ReplaceForBrkt(ctx context.Context, exec repositories.SQLExecutor, brktID string, oneBrkts []models.OneBrkt) error {
	args := m.Called(ctx, exec, brktID, oneBrkts)
	return args.Error(0)
}

func (m *oneBrktRepoMock) ListByBrkt(ctx context.Context, brktID string) ([]models.OneBrkt, error) {
	args := m.Called(ctx, brktID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OneBrkt), args.Error(1)
}

type userRepoMock struct{ mock.Mock }

var _ repositories.UserRepository = (*userRepoMock)(nil)

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type uploaderMock struct{ mock.Mock }

var _ storage.FileUploader = (*uploaderMock)(nil)

func (m *uploaderMock) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, _ := io.ReadAll(reader)
	args := m.Called(ctx, key, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *uploaderMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *uploaderMock) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type recordedMessage struct {
	Room    string
	Message interface{}
}

type broadcasterStub struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (b *broadcasterStub) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, recordedMessage{Room: roomID, Message: message})
}

func (b *broadcasterStub) all() []recordedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedMessage(nil), b.messages...)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) PublishGrid(ctx context.Context, brktID string) {
	m.Called(ctx, brktID)
}
