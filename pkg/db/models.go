package db

import "time"

// Trade statuses assigned by rule evaluation and by reviewers.
const (
	StatusNormal  = "Normal"
	StatusReview  = "Review"
	StatusFlagged = "Flagged"
)

// User represents an application user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trade represents an observed transaction subject to compliance review.
type Trade struct {
	ID        int64     `json:"id"`
	ClientID  string    `json:"client_id"`
	PAN       string    `json:"pan"`
	Symbol    string    `json:"symbol"`
	Volume    int64     `json:"volume"`
	Value     float64   `json:"value"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Rule is a named threshold condition used to classify trades.
type Rule struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	RuleType    string    `json:"rule_type"`
	Threshold   float64   `json:"threshold"`
	CreatedAt   time.Time `json:"created_at"`
}

// WatchlistEntry is a client flagged for heightened scrutiny.
type WatchlistEntry struct {
	ID       int64     `json:"id"`
	ClientID string    `json:"client_id"`
	Reason   string    `json:"reason"`
	AddedBy  string    `json:"added_by"`
	AddedOn  time.Time `json:"added_on"`
}

// AlertSummary aggregates trade statuses for the dashboard.
type AlertSummary struct {
	TotalAlerts     int64 `json:"total_alerts"`
	Flagged         int64 `json:"flagged"`
	InReview        int64 `json:"in_review"`
	HighRiskClients int64 `json:"high_risk_clients"`
}
