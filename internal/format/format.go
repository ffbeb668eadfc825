// Package format maps engine enumerations to the display labels, icons and
// color classes the dashboard renders. Pure lookup tables; unknown values
// fall back to a neutral entry rather than erroring.
package format

import "nba-insights-go/internal/types"

type Display struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var riskLevels = map[types.RiskLevel]Display{
	types.RiskLow:      {Label: "Low", Icon: "check-circle", Color: "text-green-600"},
	types.RiskMedium:   {Label: "Medium", Icon: "alert-circle", Color: "text-yellow-600"},
	types.RiskHigh:     {Label: "High", Icon: "alert-triangle", Color: "text-orange-600"},
	types.RiskCritical: {Label: "Critical", Icon: "alert-octagon", Color: "text-red-600"},
}

var predictionTypes = map[types.PredictionType]Display{
	types.PredictionConversion:    {Label: "Likely to Convert", Icon: "trending-up", Color: "text-green-600"},
	types.PredictionChurn:         {Label: "Churn Risk", Icon: "user-minus", Color: "text-red-600"},
	types.PredictionUpsell:        {Label: "Upsell Opportunity", Icon: "arrow-up-circle", Color: "text-blue-600"},
	types.PredictionCrossSell:     {Label: "Cross-sell Opportunity", Icon: "shuffle", Color: "text-blue-600"},
	types.PredictionInterestShift: {Label: "Interest Shift", Icon: "refresh-cw", Color: "text-purple-600"},
	types.PredictionEngagement:    {Label: "Actively Engaged", Icon: "activity", Color: "text-teal-600"},
	types.PredictionReactivation:  {Label: "Reactivation Window", Icon: "rotate-ccw", Color: "text-orange-600"},
	types.PredictionNurture:       {Label: "Needs Nurturing", Icon: "droplet", Color: "text-gray-600"},
}

var actionTypes = map[types.ActionType]Display{
	types.ActionSendMessage:    {Label: "Send Message", Icon: "message-circle", Color: "text-blue-600"},
	types.ActionSendOffer:      {Label: "Send Offer", Icon: "tag", Color: "text-green-600"},
	types.ActionAddToSequence:  {Label: "Add to Sequence", Icon: "list-plus", Color: "text-purple-600"},
	types.ActionAssignTag:      {Label: "Assign Tag", Icon: "bookmark", Color: "text-gray-600"},
	types.ActionMoveStage:      {Label: "Move Stage", Icon: "arrow-right-circle", Color: "text-indigo-600"},
	types.ActionScheduleCall:   {Label: "Schedule Call", Icon: "phone", Color: "text-orange-600"},
	types.ActionSendSurvey:     {Label: "Send Survey", Icon: "clipboard-list", Color: "text-teal-600"},
	types.ActionWaitAndObserve: {Label: "Wait and Observe", Icon: "eye", Color: "text-gray-500"},
}

var unknown = Display{Label: "Unknown", Icon: "help-circle", Color: "text-gray-400"}

func RiskLevel(r types.RiskLevel) Display {
	if d, ok := riskLevels[r]; ok {
		return d
	}
	return unknown
}

func PredictionType(t types.PredictionType) Display {
	if d, ok := predictionTypes[t]; ok {
		return d
	}
	return unknown
}

func ActionType(t types.ActionType) Display {
	if d, ok := actionTypes[t]; ok {
		return d
	}
	return unknown
}
