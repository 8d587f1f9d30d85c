// Package dto carries the budget report shapes returned by the application
// layer and rendered by the CLI.
package dto

import "time"

// Window identifiers used in usage reports and CSV export.
const (
	WindowDaily   = "daily"
	WindowWeekly  = "weekly"
	WindowMonthly = "monthly"
)

// Dimension identifiers for the budgeted usage dimensions.
const (
	DimensionTokens       = "tokens"
	DimensionVideoSeconds = "video_seconds"
	DimensionPublications = "publications"
)

// DimensionUsage is usage versus limit for one dimension in one window.
// Pct and Remaining are nil when the dimension is unlimited (zero limit).
type DimensionUsage struct {
	Dimension string
	Used      int64
	Limit     int64
	Pct       *float64
	Remaining *int64
}

// WindowUsage groups the dimension rows of one aggregation window together
// with the window's spend ceiling from the budget row.
type WindowUsage struct {
	Window       string
	From         time.Time
	To           time.Time
	SpendCeiling float64
	Dimensions   []DimensionUsage
}

// UsageReport is the point-in-time usage-versus-budget view for a project.
// IsBlocked reflects the daily window only, since only the daily window
// gates admission.
type UsageReport struct {
	ProjectID   uint
	BudgetID    uint
	GeneratedAt time.Time
	Windows     []WindowUsage
	IsBlocked   bool
}

// DailyWindow returns the daily window of the report, or nil.
func (r *UsageReport) DailyWindow() *WindowUsage {
	for i := range r.Windows {
		if r.Windows[i].Window == WindowDaily {
			return &r.Windows[i]
		}
	}
	return nil
}
