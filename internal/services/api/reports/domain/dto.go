// Package domain holds DTOs for reports http and service contracts
package domain

// WeeklyInput asks for a subscriber's compliance over one week
type WeeklyInput struct {
	SubscriberID string `json:"subscriber_id" validate:"required,uuid"`
	WeekStart    string `json:"week_start" validate:"required,datetime=2006-01-02" example:"2025-03-02"`
}

// StatusTotals counts occurrences by compliance state
type StatusTotals struct {
	Scheduled int64 `json:"scheduled"`
	OnTime    int64 `json:"on_time"`
	Late      int64 `json:"late"`
	Missed    int64 `json:"missed"`
	Pending   int64 `json:"pending"`
}

// DayBreakdown is one day of the weekly report
type DayBreakdown struct {
	Date   string       `json:"date"`
	Totals StatusTotals `json:"totals"`
}

// WeeklyReport is a subscriber's compliance for one week
type WeeklyReport struct {
	SubscriberID string         `json:"subscriber_id"`
	WeekStart    string         `json:"week_start"`
	WeekEnd      string         `json:"week_end"`
	Totals       StatusTotals   `json:"totals"`
	AdherencePct float64        `json:"adherence_pct"`
	Days         []DayBreakdown `json:"days"`
}

// ByProductInput asks for per-product compliance over a date range
type ByProductInput struct {
	SubscriberID string `json:"subscriber_id" validate:"required,uuid"`
	Start        string `json:"start" validate:"required,datetime=2006-01-02"`
	End          string `json:"end" validate:"required,datetime=2006-01-02"`
}

// ProductReport is one product's compliance over the range
type ProductReport struct {
	ProductID    string       `json:"product_id"`
	Name         string       `json:"name"`
	Totals       StatusTotals `json:"totals"`
	AdherencePct float64      `json:"adherence_pct"`
}
