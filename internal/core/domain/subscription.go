package domain

import "time"

// SubscriptionState is the resolved state of a company's subscription at a point in time.
type SubscriptionState string

const (
	SubscriptionActive  SubscriptionState = "ACTIVE"
	SubscriptionGrace   SubscriptionState = "GRACE"
	SubscriptionExpired SubscriptionState = "EXPIRED"
	SubscriptionFree    SubscriptionState = "FREE"
)

// Plan holds the usage limits of a subscription. A nil limit means unlimited.
type Plan struct {
	PlanCode              string `json:"planCode"`
	Name                  string `json:"name"`
	DailyTransactionLimit *int64 `json:"dailyTransactionLimit,omitempty"`
	MonthlyBackupLimit    *int64 `json:"monthlyBackupLimit,omitempty"`
}

// Subscription binds a company to a plan for a period.
type Subscription struct {
	CompanyID string     `json:"companyID"`
	Plan      Plan       `json:"plan"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"` // nil for open-ended
}

// StateAt resolves the subscription state at now, given the grace window after EndsAt.
// A subscription that has not started yet leaves the company on the free plan.
func (s *Subscription) StateAt(now time.Time, grace time.Duration) SubscriptionState {
	if s == nil || now.Before(s.StartsAt) {
		return SubscriptionFree
	}
	if s.EndsAt == nil || now.Before(*s.EndsAt) {
		return SubscriptionActive
	}
	if now.Before(s.EndsAt.Add(grace)) {
		return SubscriptionGrace
	}
	return SubscriptionExpired
}

// UsageCounters are the per-day and per-month counters of a company.
type UsageCounters struct {
	CompanyID    string `json:"companyID"`
	Day          string `json:"day"`   // 2006-01-02
	Month        string `json:"month"` // 2006-01
	JournalCount int64  `json:"journalCount"`
	BackupCount  int64  `json:"backupCount"`
}

// DayKey and MonthKey format the counter keys in UTC.
func DayKey(t time.Time) string   { return t.UTC().Format("2006-01-02") }
func MonthKey(t time.Time) string { return t.UTC().Format("2006-01") }

// UsageReport summarizes a company's usage for the usage endpoint.
type UsageReport struct {
	State                 SubscriptionState `json:"state"`
	Plan                  *Plan             `json:"plan,omitempty"`
	Counters              UsageCounters     `json:"counters"`
	DailyTransactionLimit *int64            `json:"dailyTransactionLimit,omitempty"`
	MonthlyBackupLimit    *int64            `json:"monthlyBackupLimit,omitempty"`
}
