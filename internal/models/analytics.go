// internal/models/analytics.go
package models

// AnalyticsSummary is the admin dashboard aggregate, computed server-side.
type AnalyticsSummary struct {
	TotalUsers          int            `json:"totalUsers"`
	TotalScholarships   int            `json:"totalScholarships"`
	TotalApplications   int            `json:"totalApplications"`
	TotalReviews        int            `json:"totalReviews"`
	TotalRevenue        int            `json:"totalRevenue"`
	ApplicationsByState map[string]int `json:"applicationsByState,omitempty"`
	UsersByRole         map[string]int `json:"usersByRole,omitempty"`
}
