package api

import (
	"log"
	"net/http"

	"github.com/Whypen/Pet-Huddle-sub002/utils"

	"github.com/gin-gonic/gin"
)

// HazardScanRequest is the POST /hazard-scan body.
type HazardScanRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ImageURL  string `json:"imageUrl" binding:"required"`
	ImageHash string `json:"imageHash" binding:"required"`
}

// HazardScanHandler handles POST /api/hazard-scan.
func (h *APIHandler) HazardScanHandler(c *gin.Context) {
	var req HazardScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), nil)
		return
	}

	imageHash := utils.NormalizeHash(req.ImageHash)
	log.Printf("INFO: [HazardScanHandler] Scan request from user %s for hash %.12s...", req.UserID, imageHash)

	result, err := h.hazardService.Scan(c.Request.Context(), req.UserID, req.ImageURL, imageHash)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cached": result.Cached,
		"result": result.Result,
	})
}
