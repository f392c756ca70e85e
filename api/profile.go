package api

import (
	"net/http"

	"github.com/Whypen/Pet-Huddle-sub002/models"
	"github.com/Whypen/Pet-Huddle-sub002/utils"

	"github.com/gin-gonic/gin"
)

// ProfileRequest is the POST /profiles body.
type ProfileRequest struct {
	UserID      string `json:"userId" binding:"required"`
	DisplayName string `json:"displayName"`
	Tier        string `json:"tier"`
}

// UpsertProfileHandler handles POST /api/profiles.
func (h *APIHandler) UpsertProfileHandler(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), nil)
		return
	}
	if req.Tier != "" && !models.ValidTier(req.Tier) {
		utils.SendJSONError(c, http.StatusBadRequest, "tier must be one of free, premium, gold", nil)
		return
	}

	profile := models.Profile{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Tier:        req.Tier,
	}
	if err := h.profileRepo.Upsert(&profile); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// GetProfileHandler handles GET /api/profiles/:userID.
func (h *APIHandler) GetProfileHandler(c *gin.Context) {
	userID := c.Param("userID")
	profile, err := h.profileRepo.GetProfile(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	if profile == nil {
		utils.SendJSONError(c, http.StatusNotFound, "profile not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}
