package api

import (
	"errors"
	"net/http"

	"github.com/Whypen/Pet-Huddle-sub002/repository"
	"github.com/Whypen/Pet-Huddle-sub002/services"
	"github.com/Whypen/Pet-Huddle-sub002/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	vetService       services.VetService
	hazardService    services.HazardService
	discoveryService services.DiscoveryService
	gateService      services.GateService
	profileRepo      repository.ProfileRepository
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	vetService services.VetService,
	hazardService services.HazardService,
	discoveryService services.DiscoveryService,
	gateService services.GateService,
	profileRepo repository.ProfileRepository,
) *APIHandler {
	return &APIHandler{
		vetService:       vetService,
		hazardService:    hazardService,
		discoveryService: discoveryService,
		gateService:      gateService,
		profileRepo:      profileRepo,
	}
}

// respondServiceError maps service sentinel errors onto the HTTP contract.
// Quota and rate-limit denials are 429 with their fixed machine-readable
// bodies; validation is 400; everything else is a 500 with a generic message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuotaExceeded):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Quota Exceeded"})
	case errors.Is(err, services.ErrRateLimited):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limit_exceeded"})
	case errors.Is(err, services.ErrValidation):
		utils.SendJSONError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(c, http.StatusNotFound, err.Error(), nil)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
	}
}
