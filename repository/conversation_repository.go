package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrConversationNotFound covers both a missing conversation and one owned by
// another user; callers must not be able to tell the two apart.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository persists AI-vet chat threads.
type ConversationRepository interface {
	Create(userID, petID string) (*models.Conversation, error)
	GetByID(conversationID, userID string) (*models.Conversation, error)
	// AppendTurn appends a user/assistant message pair and bumps updated_at.
	AppendTurn(conversationID, userID string, userMsg, assistantMsg models.Message) error
	ListByUser(userID string) ([]models.Conversation, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new instance of ConversationRepository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(userID, petID string) (*models.Conversation, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	now := time.Now().UTC()
	conv := models.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		PetID:     petID,
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := conv.EncodeMessages(); err != nil {
		return nil, fmt.Errorf("failed to encode messages for new conversation: %w", err)
	}
	if err := r.db.Create(&conv).Error; err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to create conversation for user %s: %v", userID, err)
		return nil, err
	}
	log.Printf("INFO: [ConversationRepository] Created conversation %s for user %s.", conv.ID, userID)
	return &conv, nil
}

// GetByID fetches a conversation owned by userID. Ownership is part of the
// lookup key, not a post-check.
func (r *conversationRepository) GetByID(conversationID, userID string) (*models.Conversation, error) {
	if conversationID == "" || userID == "" {
		return nil, errors.New("conversation ID and user ID cannot be empty")
	}
	var conv models.Conversation
	err := r.db.First(&conv, "id = ? AND user_id = ?", conversationID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("ERROR: [ConversationRepository] Failed to fetch conversation %s: %v", conversationID, err)
		return nil, err
	}
	if err := conv.DecodeMessages(); err != nil {
		return nil, fmt.Errorf("failed to decode messages for conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

func (r *conversationRepository) AppendTurn(conversationID, userID string, userMsg, assistantMsg models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		err := tx.First(&conv, "id = ? AND user_id = ?", conversationID, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConversationNotFound
			}
			return err
		}
		if err := conv.DecodeMessages(); err != nil {
			return fmt.Errorf("failed to decode messages for conversation %s: %w", conversationID, err)
		}
		conv.Messages = append(conv.Messages, userMsg, assistantMsg)
		if err := conv.EncodeMessages(); err != nil {
			return fmt.Errorf("failed to encode messages for conversation %s: %w", conversationID, err)
		}
		conv.UpdatedAt = time.Now().UTC()
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"messages":   conv.MessagesJSON,
				"updated_at": conv.UpdatedAt,
			}).Error
	})
}

func (r *conversationRepository) ListByUser(userID string) ([]models.Conversation, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	var convs []models.Conversation
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&convs).Error
	if err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to list conversations for user %s: %v", userID, err)
		return nil, err
	}
	for i := range convs {
		if decErr := convs[i].DecodeMessages(); decErr != nil {
			log.Printf("WARN: [ConversationRepository] Skipping undecodable messages for conversation %s: %v", convs[i].ID, decErr)
			convs[i].Messages = []models.Message{}
		}
	}
	return convs, nil
}
