package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/config"
	"github.com/Whypen/Pet-Huddle-sub002/models"
	"github.com/Whypen/Pet-Huddle-sub002/repository"

	openai "github.com/sashabaranov/go-openai"
)

// emergencyKeywords trigger the advisory triage flag on a chat response. The
// flag never blocks a request.
var emergencyKeywords = []string{
	"seizure", "not breathing", "unconscious", "collapsed", "bleeding heavily",
	"poisoned", "poison", "choking", "hit by a car", "hit by car", "swallowed",
	"bloated abdomen", "can't stand", "pale gums", "heatstroke",
}

const vetSystemPrompt = `You are Huddle's AI vet assistant. Give practical, calm guidance for pet health questions. You are not a substitute for a veterinarian: for anything urgent, tell the owner to contact a vet or emergency clinic. Keep answers short and concrete.`

// historyLimit caps how many prior turns are replayed to the model.
const historyLimit = 10

// ChatInput is one AI-vet chat turn from the client.
type ChatInput struct {
	ConversationID string
	UserID         string
	PetProfile     string
	Message        string
	ImageBase64    string
}

// ChatOutput is the orchestrator's response. Remaining is nil for tiers
// exempt from the daily bucket.
type ChatOutput struct {
	ConversationID string
	Message        string
	Triage         bool
	Remaining      *int
}

// UsageInfo mirrors the usage endpoint payload.
type UsageInfo struct {
	Remaining *int
	Tier      string
}

// VetService orchestrates AI-vet requests: resolve tier, check quota, invoke
// the model, persist the turn, respond.
type VetService interface {
	Chat(ctx context.Context, in ChatInput) (*ChatOutput, error)
	Usage(userID string) (*UsageInfo, error)
	StartConversation(userID, petID string) (*models.Conversation, error)
	ListConversations(userID string) ([]models.Conversation, error)
}

type vetService struct {
	profiles      repository.ProfileRepository
	usage         repository.UsageRepository
	quotas        repository.QuotaRepository
	conversations repository.ConversationRepository
	client        ModelClient
	provider      config.ProviderConfig
	quotaCfg      config.QuotaConfig
}

// NewVetService creates a new VetService with injected dependencies.
func NewVetService(
	profiles repository.ProfileRepository,
	usage repository.UsageRepository,
	quotas repository.QuotaRepository,
	conversations repository.ConversationRepository,
	client ModelClient,
	provider config.ProviderConfig,
	quotaCfg config.QuotaConfig,
) VetService {
	return &vetService{
		profiles:      profiles,
		usage:         usage,
		quotas:        quotas,
		conversations: conversations,
		client:        client,
		provider:      provider,
		quotaCfg:      quotaCfg,
	}
}

func (s *vetService) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	if in.UserID == "" || strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("%w: userId and message are required", ErrValidation)
	}

	// ResolveTier: a missing profile (or a failed lookup) defaults to free,
	// which applies the strictest limits.
	tier, err := s.profiles.GetTier(in.UserID)
	if err != nil {
		log.Printf("WARN: [VetService] Tier lookup failed for user %s, treating as free: %v", in.UserID, err)
		tier = models.TierFree
	}

	// CheckQuota: free-tier users draw from the daily message bucket.
	var remaining *int
	if tier == models.TierFree {
		left, allowed, err := s.usage.ConsumeMessage(in.UserID, s.quotaCfg.VetDailyMessages)
		if err != nil {
			return nil, fmt.Errorf("quota check failed: %w", err)
		}
		if !allowed {
			return nil, ErrQuotaExceeded
		}
		remaining = &left
	}

	// Vision attachments consume the per-action ledger for every tier; the
	// bucket exemption does not extend to sub-action quotas.
	if in.ImageBase64 != "" {
		aq := s.quotaCfg.Actions[models.ActionVisionAttachment]
		window := time.Duration(s.quotaCfg.QuotaWindowHours) * time.Hour
		allowed, err := s.quotas.CheckAndIncrement(in.UserID, models.ActionVisionAttachment, aq.Limit, window)
		if err != nil {
			// Fail-open: an unreachable ledger must not take the feature down.
			log.Printf("WARN: [VetService] Vision quota check errored for user %s, allowing: %v", in.UserID, err)
			allowed = true
		}
		if !allowed {
			return nil, ErrQuotaExceeded
		}
	}

	// Load or start the conversation before the model call so history is
	// available for the prompt.
	var conv *models.Conversation
	if in.ConversationID != "" {
		conv, err = s.conversations.GetByID(in.ConversationID, in.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrConversationNotFound) {
				return nil, fmt.Errorf("%w: conversation", ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
	} else {
		conv, err = s.conversations.Create(in.UserID, "")
		if err != nil {
			return nil, fmt.Errorf("failed to start conversation: %w", err)
		}
	}

	// InvokeModel: the vision model is selected only when an attachment is
	// present.
	reply, err := s.invokeModel(ctx, in, conv)
	if err != nil {
		if isProviderQuotaError(err) {
			// Provider throttling is shaped exactly like an internal denial.
			log.Printf("INFO: [VetService] Provider throttled user %s, mapping to quota denial.", in.UserID)
			return nil, ErrQuotaExceeded
		}
		return nil, err
	}

	// PersistTurn is best-effort: the reply is already committed to the
	// client, so a failed append is logged and swallowed.
	userMsg := models.Message{Role: models.RoleUser, Content: in.Message}
	assistantMsg := models.Message{Role: models.RoleAssistant, Content: reply}
	if err := s.conversations.AppendTurn(conv.ID, in.UserID, userMsg, assistantMsg); err != nil {
		log.Printf("WARN: [VetService] Failed to persist turn for conversation %s: %v", conv.ID, err)
	}

	return &ChatOutput{
		ConversationID: conv.ID,
		Message:        reply,
		Triage:         DetectTriage(in.Message),
		Remaining:      remaining,
	}, nil
}

func (s *vetService) invokeModel(ctx context.Context, in ChatInput, conv *models.Conversation) (string, error) {
	systemPrompt := vetSystemPrompt
	if in.PetProfile != "" {
		systemPrompt += "\n\nPet profile provided by the owner:\n" + in.PetProfile
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	history := conv.Messages
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	model := s.provider.TextModel
	if in.ImageBase64 != "" {
		model = s.provider.VisionModel
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: in.Message},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: "data:image/jpeg;base64," + in.ImageBase64,
					},
				},
			},
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: in.Message,
		})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		log.Printf("ERROR: [VetService] Model call failed for user %s (model %s): %v", in.UserID, model, err)
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *vetService) Usage(userID string) (*UsageInfo, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	tier, err := s.profiles.GetTier(userID)
	if err != nil {
		log.Printf("WARN: [VetService] Tier lookup failed for user %s in Usage, treating as free: %v", userID, err)
		tier = models.TierFree
	}
	if tier != models.TierFree {
		// Bucket-exempt tiers report no remaining count.
		return &UsageInfo{Remaining: nil, Tier: tier}, nil
	}
	left, err := s.usage.Peek(userID, s.quotaCfg.VetDailyMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage: %w", err)
	}
	return &UsageInfo{Remaining: &left, Tier: tier}, nil
}

func (s *vetService) StartConversation(userID, petID string) (*models.Conversation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	return s.conversations.Create(userID, petID)
}

func (s *vetService) ListConversations(userID string) ([]models.Conversation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	return s.conversations.ListByUser(userID)
}

// DetectTriage scans a message for emergency terms. Advisory only.
func DetectTriage(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
