package dto

import "time"

// AsOfParams selects a point-in-time report. A zero AsOf means now.
type AsOfParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02"`
}

// DateRangeParams selects a report over an inclusive date range.
type DateRangeParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}
