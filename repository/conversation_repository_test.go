package repository

import (
	"testing"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"github.com/stretchr/testify/assert"
)

func TestConversationRepository(t *testing.T) {
	t.Run("Create and fetch round-trips messages", func(t *testing.T) {
		repo := NewConversationRepository(newTestDB(t))

		conv, err := repo.Create("user1", "pet1")
		assert.NoError(t, err)
		assert.NotEmpty(t, conv.ID)
		assert.Empty(t, conv.Messages)

		fetched, err := repo.GetByID(conv.ID, "user1")
		assert.NoError(t, err)
		assert.Equal(t, conv.ID, fetched.ID)
		assert.Equal(t, "pet1", fetched.PetID)
	})

	t.Run("AppendTurn adds the user and assistant pair in order", func(t *testing.T) {
		repo := NewConversationRepository(newTestDB(t))
		conv, err := repo.Create("user1", "")
		assert.NoError(t, err)

		err = repo.AppendTurn(conv.ID, "user1",
			models.Message{Role: models.RoleUser, Content: "Is chocolate bad for dogs?"},
			models.Message{Role: models.RoleAssistant, Content: "Yes, keep it away from them."},
		)
		assert.NoError(t, err)

		err = repo.AppendTurn(conv.ID, "user1",
			models.Message{Role: models.RoleUser, Content: "How much is dangerous?"},
			models.Message{Role: models.RoleAssistant, Content: "Any amount warrants a vet call."},
		)
		assert.NoError(t, err)

		fetched, err := repo.GetByID(conv.ID, "user1")
		assert.NoError(t, err)
		if assert.Len(t, fetched.Messages, 4) {
			assert.Equal(t, models.RoleUser, fetched.Messages[0].Role)
			assert.Equal(t, models.RoleAssistant, fetched.Messages[1].Role)
			assert.Equal(t, "How much is dangerous?", fetched.Messages[2].Content)
		}
	})

	t.Run("Another user's conversation is not found", func(t *testing.T) {
		repo := NewConversationRepository(newTestDB(t))
		conv, err := repo.Create("user1", "")
		assert.NoError(t, err)

		_, err = repo.GetByID(conv.ID, "intruder")
		assert.ErrorIs(t, err, ErrConversationNotFound)

		err = repo.AppendTurn(conv.ID, "intruder",
			models.Message{Role: models.RoleUser, Content: "hi"},
			models.Message{Role: models.RoleAssistant, Content: "hi"},
		)
		assert.ErrorIs(t, err, ErrConversationNotFound)
	})

	t.Run("ListByUser returns only that user's threads", func(t *testing.T) {
		repo := NewConversationRepository(newTestDB(t))
		_, err := repo.Create("user1", "")
		assert.NoError(t, err)
		_, err = repo.Create("user1", "")
		assert.NoError(t, err)
		_, err = repo.Create("user2", "")
		assert.NoError(t, err)

		convs, err := repo.ListByUser("user1")
		assert.NoError(t, err)
		assert.Len(t, convs, 2)
	})
}
