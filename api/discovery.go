package api

import (
	"net/http"

	"github.com/Whypen/Pet-Huddle-sub002/services"
	"github.com/Whypen/Pet-Huddle-sub002/utils"

	"github.com/gin-gonic/gin"
)

// ProfileCheckHandler handles GET /api/discovery/profile-check?userId=.
// A denied check ships the upsell gate payload so the client can render the
// locked surface without learning any remaining counts.
func (h *APIHandler) ProfileCheckHandler(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userId query parameter is required", nil)
		return
	}

	check, err := h.discoveryService.CheckProfileView(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if check.Allowed {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"allowed": true}})
		return
	}

	gate := h.gateService.BuildGate(services.FeatureDiscovery, "premium")
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"allowed": false,
			"gate":    gate,
		},
	})
}
