package dataset

import (
	"nba-insights-go/internal/types"
)

type Summary struct {
	TotalContacts int            `json:"total_contacts"`
	ByStatus      map[string]int `json:"by_status"`
	TotalRevenue  float64        `json:"total_revenue"`
	WithProfile   int            `json:"with_profile"`
}

// Summarize produces the portfolio headline figures logged at startup and
// echoed in reports.
func Summarize(contacts []types.ContactContext) Summary {
	s := Summary{
		TotalContacts: len(contacts),
		ByStatus:      map[string]int{},
	}
	for i := range contacts {
		c := &contacts[i]
		status := string(c.Status)
		if status == "" {
			status = "unknown"
		}
		s.ByStatus[status]++
		s.TotalRevenue += c.TotalRevenue
		if c.Profile != nil {
			s.WithProfile++
		}
	}
	return s
}
