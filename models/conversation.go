package models

import (
	"encoding/json"
	"time"
)

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn inside a vet conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation holds an AI-vet chat thread. Messages is an append-only list
// serialized into MessagesJSON for storage; it is owned exclusively by the
// requesting user.
type Conversation struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index"`
	PetID        string    `json:"pet_id"`
	MessagesJSON string    `json:"-" gorm:"column:messages"`
	Messages     []Message `json:"messages" gorm:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Conversation model.
func (Conversation) TableName() string {
	return "conversations"
}

// EncodeMessages serializes Messages into MessagesJSON prior to persistence.
func (c *Conversation) EncodeMessages() error {
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	raw, err := json.Marshal(c.Messages)
	if err != nil {
		return err
	}
	c.MessagesJSON = string(raw)
	return nil
}

// DecodeMessages populates Messages from MessagesJSON after a load.
func (c *Conversation) DecodeMessages() error {
	if c.MessagesJSON == "" {
		c.Messages = []Message{}
		return nil
	}
	return json.Unmarshal([]byte(c.MessagesJSON), &c.Messages)
}
