package models

// DashboardStats holds the aggregate numbers shown on the admin dashboard.
// Both values are derived from the articles table.
type DashboardStats struct {
	TotalArticles int64 `json:"total_articles"`
	TotalViews    int64 `json:"total_views"`
}
