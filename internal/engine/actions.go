package engine

import (
	"fmt"
	"strings"

	"nba-insights-go/internal/types"
)

// requiredConfigKeys lists the config keys every action of a given type must
// carry. Checked at construction so a malformed template fails loudly in
// tests instead of reaching a messaging channel.
var requiredConfigKeys = map[types.ActionType][]string{
	types.ActionSendMessage:    {"message_type"},
	types.ActionSendOffer:      {"offer_type"},
	types.ActionAddToSequence:  {"sequence_type"},
	types.ActionAssignTag:      {"tag"},
	types.ActionMoveStage:      {"stage"},
	types.ActionScheduleCall:   {"call_type"},
	types.ActionSendSurvey:     {"survey_type"},
	types.ActionWaitAndObserve: {},
}

// ValidateActionConfig reports whether an action carries every config key its
// type requires.
func ValidateActionConfig(a types.RecommendedAction) error {
	keys, ok := requiredConfigKeys[a.Type]
	if !ok {
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	for _, k := range keys {
		if _, present := a.Config[k]; !present {
			return fmt.Errorf("action %q missing config key %q", a.Type, k)
		}
	}
	return nil
}

func newAction(a types.RecommendedAction) types.RecommendedAction {
	if err := ValidateActionConfig(a); err != nil {
		panic(err)
	}
	return a
}

// generateConversionActions maps a conversion score band to its action set.
func generateConversionActions(c *types.ContactContext, score float64) []types.RecommendedAction {
	switch {
	case score > 0.7:
		return []types.RecommendedAction{
			newAction(types.RecommendedAction{
				Type:             types.ActionSendMessage,
				Priority:         9,
				Title:            "Send closing message",
				Description:      "Contact shows strong buying signals, reach out with a direct close",
				Config:           map[string]any{"message_type": "closing"},
				SuggestedCopy:    generatePersonalizedCopy(c, copyClosing),
				SuggestedChannel: "whatsapp",
			}),
			newAction(types.RecommendedAction{
				Type:        types.ActionSendOffer,
				Priority:    8,
				Title:       "Send time-limited offer",
				Description: "Pair the close with a deadline to convert intent into action",
				Config:      map[string]any{"offer_type": "time_limited", "expires_hours": 48},
			}),
		}
	case score > 0.5:
		return []types.RecommendedAction{
			newAction(types.RecommendedAction{
				Type:             types.ActionSendMessage,
				Priority:         6,
				Title:            "Send value content",
				Description:      "Warm the contact with proof and value before asking for the sale",
				Config:           map[string]any{"message_type": "value_content"},
				SuggestedCopy:    generatePersonalizedCopy(c, copyNurture),
				SuggestedChannel: "whatsapp",
			}),
			newAction(types.RecommendedAction{
				Type:        types.ActionScheduleCall,
				Priority:    5,
				Title:       "Schedule consultative call",
				Description: "A short call resolves objections the contact has not voiced",
				Config:      map[string]any{"call_type": "consultative", "duration_minutes": 20},
			}),
		}
	default:
		return []types.RecommendedAction{
			newAction(types.RecommendedAction{
				Type:        types.ActionAddToSequence,
				Priority:    3,
				Title:       "Add to nurture sequence",
				Description: "Signals are weak, keep the contact warm with long-form nurture",
				Config:      map[string]any{"sequence_type": "long_nurture"},
			}),
		}
	}
}

// generateChurnPreventionActions maps a churn risk band to its action set.
func generateChurnPreventionActions(c *types.ContactContext, risk float64) []types.RecommendedAction {
	if risk > 0.7 {
		return []types.RecommendedAction{
			newAction(types.RecommendedAction{
				Type:             types.ActionSendMessage,
				Priority:         10,
				Title:            "Urgent reactivation message",
				Description:      "Customer is slipping away, reach out before the next billing cycle",
				Config:           map[string]any{"message_type": "reactivation"},
				SuggestedCopy:    generatePersonalizedCopy(c, copyNurture),
				SuggestedChannel: "whatsapp",
			}),
			newAction(types.RecommendedAction{
				Type:        types.ActionScheduleCall,
				Priority:    9,
				Title:       "Schedule relationship call",
				Description: "A personal call from the account owner rebuilds trust fastest",
				Config:      map[string]any{"call_type": "relationship"},
			}),
		}
	}
	return []types.RecommendedAction{
		newAction(types.RecommendedAction{
			Type:        types.ActionSendSurvey,
			Priority:    6,
			Title:       "Send satisfaction survey",
			Description: "Surface dissatisfaction while there is still time to act on it",
			Config:      map[string]any{"survey_type": "satisfaction"},
		}),
		newAction(types.RecommendedAction{
			Type:        types.ActionSendOffer,
			Priority:    5,
			Title:       "Send loyalty offer",
			Description: "Reward continuity to raise the cost of leaving",
			Config:      map[string]any{"offer_type": "loyalty"},
		}),
	}
}

// generateUpsellActions always returns the same two actions; the potential
// score only decides whether the upsell heuristic fires at all.
func generateUpsellActions(c *types.ContactContext) []types.RecommendedAction {
	return []types.RecommendedAction{
		newAction(types.RecommendedAction{
			Type:             types.ActionSendOffer,
			Priority:         7,
			Title:            "Send cross-sell offer",
			Description:      "Buying history suggests appetite for a complementary product",
			Config:           map[string]any{"offer_type": "cross_sell"},
			SuggestedChannel: "email",
		}),
		newAction(types.RecommendedAction{
			Type:        types.ActionAddToSequence,
			Priority:    6,
			Title:       "Invite to VIP tier",
			Description: "High-value customers respond to exclusivity over discounts",
			Config:      map[string]any{"sequence_type": "vip_invite"},
		}),
	}
}

func generateEngagementActions() []types.RecommendedAction {
	return []types.RecommendedAction{
		newAction(types.RecommendedAction{
			Type:        types.ActionSendSurvey,
			Priority:    5,
			Title:       "Send interest survey",
			Description: "Active but unconverted, ask what they are looking for",
			Config:      map[string]any{"survey_type": "interest"},
		}),
		newAction(types.RecommendedAction{
			Type:        types.ActionAddToSequence,
			Priority:    4,
			Title:       "Add to engagement sequence",
			Description: "Keep the momentum with content matched to their activity",
			Config:      map[string]any{"sequence_type": "engagement"},
		}),
	}
}

// --------------------------------------------
// Personalized copy templates
// --------------------------------------------

type copyKind int

const (
	copyClosing copyKind = iota
	copyNurture
)

// Index 0 = direct tone, index 1 = consultative tone. {product} is replaced
// with the contact's most recent quiz outcome. String templating only, not
// generation.
var copyTemplates = map[copyKind][2]string{
	copyClosing: {
		"Hi! I noticed you're ready to move forward with {product}. Want to lock in your spot today?",
		"Hi! I saw you've been exploring {product}. Happy to answer any questions before you decide.",
	},
	copyNurture: {
		"Hey! Here's something on {product} I think you'll want to see. Worth two minutes of your day.",
		"Hey! I put together some material on {product} that matches what you've been looking at. No rush, it's here when you are.",
	},
}

const genericProduct = "our program"

func generatePersonalizedCopy(c *types.ContactContext, kind copyKind) string {
	idx := 1
	if c.Profile != nil && c.Profile.TraitVector.Max("direct", "assertive") > 0.6 {
		idx = 0
	}
	product := genericProduct
	if q := c.LatestQuizResult(); q != nil && q.OutcomeName != "" {
		product = q.OutcomeName
	}
	return strings.ReplaceAll(copyTemplates[kind][idx], "{product}", product)
}
