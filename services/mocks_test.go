package services

import (
	"context"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"
)

// Shared mock repositories for service tests. Kept in one file so the mocks
// are not redeclared per test file within the package.

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetTier(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockProfileRepository) GetProfile(userID string) (*models.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(profile *models.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) ConsumeMessage(userID string, dailyLimit int) (int, bool, error) {
	args := m.Called(userID, dailyLimit)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockUsageRepository) Peek(userID string, dailyLimit int) (int, error) {
	args := m.Called(userID, dailyLimit)
	return args.Int(0), args.Error(1)
}

type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) CheckAndIncrement(userID, actionType string, limit int, window time.Duration) (bool, error) {
	args := m.Called(userID, actionType, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuotaRepository) GetCounter(userID, actionType string) (*models.QuotaCounter, error) {
	args := m.Called(userID, actionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuotaCounter), args.Error(1)
}

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Create(userID, petID string) (*models.Conversation, error) {
	args := m.Called(userID, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetByID(conversationID, userID string) (*models.Conversation, error) {
	args := m.Called(conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationRepository) AppendTurn(conversationID, userID string, userMsg, assistantMsg models.Message) error {
	args := m.Called(conversationID, userID, userMsg, assistantMsg)
	return args.Error(0)
}

func (m *MockConversationRepository) ListByUser(userID string) ([]models.Conversation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) CountSince(userID string, cutoff time.Time) (int64, error) {
	args := m.Called(userID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScanRepository) Record(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockScanRepository) PruneBefore(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockTriageRepository struct {
	mock.Mock
}

func (m *MockTriageRepository) Lookup(imageHash string) (*models.TriageCacheEntry, error) {
	args := m.Called(imageHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TriageCacheEntry), args.Error(1)
}

func (m *MockTriageRepository) Save(entry *models.TriageCacheEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, imageURL string) (models.TriageResult, error) {
	args := m.Called(ctx, imageURL)
	return args.Get(0).(models.TriageResult), args.Error(1)
}

type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

// completionWith builds a single-choice model response.
func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}
