package api

import (
	"log"
	"net/http"

	"github.com/Whypen/Pet-Huddle-sub002/services"
	"github.com/Whypen/Pet-Huddle-sub002/utils"

	"github.com/gin-gonic/gin"
)

// ChatRequest is the POST /ai-vet/chat body.
type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message" binding:"required"`
	PetProfile     string `json:"petProfile"`
	UserID         string `json:"userId" binding:"required"`
	ImageBase64    string `json:"imageBase64"`
}

// ConversationRequest is the POST /ai-vet/conversations body.
type ConversationRequest struct {
	UserID string `json:"userId" binding:"required"`
	PetID  string `json:"petId"`
}

// ChatHandler handles POST /api/ai-vet/chat.
func (h *APIHandler) ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), nil)
		return
	}

	log.Printf("INFO: [ChatHandler] Chat request from user %s (conversation '%s', image attached: %t).",
		req.UserID, req.ConversationID, req.ImageBase64 != "")

	out, err := h.vetService.Chat(c.Request.Context(), services.ChatInput{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		PetProfile:     req.PetProfile,
		Message:        req.Message,
		ImageBase64:    req.ImageBase64,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"conversationId": out.ConversationID,
			"message":        out.Message,
			"triage":         out.Triage,
			"remaining":      out.Remaining,
		},
	})
}

// UsageHandler handles GET /api/ai-vet/usage?userId=.
func (h *APIHandler) UsageHandler(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userId query parameter is required", nil)
		return
	}

	info, err := h.vetService.Usage(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"remaining": info.Remaining,
			"tier":      info.Tier,
		},
	})
}

// CreateConversationHandler handles POST /api/ai-vet/conversations.
func (h *APIHandler) CreateConversationHandler(c *gin.Context) {
	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), nil)
		return
	}

	conv, err := h.vetService.StartConversation(req.UserID, req.PetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": conv})
}

// ListConversationsHandler handles GET /api/ai-vet/conversations?userId=.
func (h *APIHandler) ListConversationsHandler(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userId query parameter is required", nil)
		return
	}

	convs, err := h.vetService.ListConversations(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": convs})
}
