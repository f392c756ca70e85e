package services

import (
	"github.com/Whypen/Pet-Huddle-sub002/models"
)

// Features that can be locked behind a tier.
const (
	FeatureAIVet      = "ai_vet"
	FeatureHazardScan = "hazard_scan"
	FeatureDiscovery  = "discovery"
)

// GateAction is a single control on the upsell surface.
type GateAction struct {
	Label string `json:"label"`
	Route string `json:"route,omitempty"`
}

// GatePayload is the upsell surface served when a feature is locked. It
// deliberately carries no numeric quota fields: remaining counts must never
// reach the end user, even when the server knows them.
type GatePayload struct {
	Locked       bool       `json:"locked"`
	Feature      string     `json:"feature"`
	RequiredTier string     `json:"required_tier"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	CTA          GateAction `json:"cta"`
	Dismiss      GateAction `json:"dismiss"`
}

// GateService builds upsell gate payloads: exactly one CTA, exactly one
// dismiss, calm copy, no counts.
type GateService interface {
	BuildGate(feature, requiredTier string) GatePayload
}

type gateService struct{}

// NewGateService creates a new GateService.
func NewGateService() GateService {
	return &gateService{}
}

func (g *gateService) BuildGate(feature, requiredTier string) GatePayload {
	if requiredTier != models.TierPremium && requiredTier != models.TierGold {
		requiredTier = models.TierPremium
	}

	var title, message string
	switch feature {
	case FeatureAIVet:
		title = "You've used up today's vet chats"
		message = "Come back tomorrow, or upgrade for unlimited conversations with the AI vet."
	case FeatureHazardScan:
		title = "Scans are taking a breather"
		message = "You can scan again soon, or upgrade for more frequent hazard checks."
	case FeatureDiscovery:
		title = "That's everyone for today"
		message = "More pet pals are waiting tomorrow, or upgrade to keep browsing now."
	default:
		title = "This feature needs an upgrade"
		message = "Upgrade your plan to unlock this feature."
	}

	return GatePayload{
		Locked:       true,
		Feature:      feature,
		RequiredTier: requiredTier,
		Title:        title,
		Message:      message,
		CTA: GateAction{
			Label: "See plans",
			Route: "/subscription?tab=" + requiredTier,
		},
		Dismiss: GateAction{Label: "Not now"},
	}
}
