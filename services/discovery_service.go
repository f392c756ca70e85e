package services

import (
	"fmt"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/config"
	"github.com/Whypen/Pet-Huddle-sub002/models"
	"github.com/Whypen/Pet-Huddle-sub002/repository"
)

// ProfileViewCheck is the discovery gating decision.
type ProfileViewCheck struct {
	Allowed bool
	Tier    string
}

// DiscoveryService gates social-discovery profile browsing on the quota
// ledger. Bypass tiers never touch the ledger at all.
type DiscoveryService interface {
	CheckProfileView(userID string) (*ProfileViewCheck, error)
}

type discoveryService struct {
	profiles repository.ProfileRepository
	quotas   repository.QuotaRepository
	quotaCfg config.QuotaConfig
}

// NewDiscoveryService creates a new DiscoveryService with injected dependencies.
func NewDiscoveryService(
	profiles repository.ProfileRepository,
	quotas repository.QuotaRepository,
	quotaCfg config.QuotaConfig,
) DiscoveryService {
	return &discoveryService{profiles: profiles, quotas: quotas, quotaCfg: quotaCfg}
}

func (s *discoveryService) CheckProfileView(userID string) (*ProfileViewCheck, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	tier, err := s.profiles.GetTier(userID)
	if err != nil {
		log.Printf("WARN: [DiscoveryService] Tier lookup failed for user %s, treating as free: %v", userID, err)
		tier = models.TierFree
	}

	aq := s.quotaCfg.Actions[models.ActionDiscoveryProfileView]
	for _, bypass := range aq.BypassTiers {
		if tier == bypass {
			// Hard contract override: always allowed, the counter is never
			// consulted or incremented for these tiers.
			return &ProfileViewCheck{Allowed: true, Tier: tier}, nil
		}
	}

	window := time.Duration(s.quotaCfg.QuotaWindowHours) * time.Hour
	allowed, err := s.quotas.CheckAndIncrement(userID, models.ActionDiscoveryProfileView, aq.Limit, window)
	if err != nil {
		// Fail-open: browsing is non-critical and a ledger outage must not
		// lock everyone out.
		log.Printf("WARN: [DiscoveryService] Quota check errored for user %s, allowing: %v", userID, err)
		return &ProfileViewCheck{Allowed: true, Tier: tier}, nil
	}
	return &ProfileViewCheck{Allowed: allowed, Tier: tier}, nil
}
