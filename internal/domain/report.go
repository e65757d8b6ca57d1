package domain

// RevenueSummary aggregates paid payments inside a date window. Derived
// only; reports recompute from the remaining rows after any deletion.
type RevenueSummary struct {
	Total              int64            `json:"total"`
	Count              int              `json:"count"`
	AverageTransaction int64            `json:"average_transaction"` // 0 when Count is 0
	ByMethod           map[string]int64 `json:"by_method"`
}

// DashboardStats is the landing-page rollup.
type DashboardStats struct {
	TotalMembers     int64 `json:"total_members"`
	ActiveMembers    int64 `json:"active_members"`
	MonthlyRevenue   int64 `json:"monthly_revenue"`
	TodayCheckIns    int64 `json:"today_check_ins"`
	ExpiringSoon     int64 `json:"expiring_soon"`
	ExpiringSoonDays int   `json:"expiring_soon_days"`
}

// ExpiringMembership joins an expiring membership with the member
// identity for display.
type ExpiringMembership struct {
	Membership *Membership `json:"membership"`
	Member     *Member     `json:"member"`
}
