// Package domain holds DTOs for compliance http and service contracts
package domain

// CompleteInput marks one occurrence as done
type CompleteInput struct {
	OccurrenceID string `json:"occurrence_id" validate:"required,uuid"`

	// CompletedAt is the completion instant in RFC 3339; empty means now
	CompletedAt string `json:"completed_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// SweepInput triggers the expiry sweep
type SweepInput struct {
	// AsOf is the sweep cutoff in RFC 3339; empty means now
	AsOf string `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// SweepOutput reports the sweep result
type SweepOutput struct {
	Missed int64  `json:"missed"`
	AsOf   string `json:"as_of"`
}

// DayPlanInput asks for a subscriber's occurrences on one date
type DayPlanInput struct {
	SubscriberID string `json:"subscriber_id" validate:"required,uuid"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02" example:"2025-03-05"`
}

// Occurrence is the wire form of a scheduled occurrence
type Occurrence struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	SubscriberID   string  `json:"subscriber_id"`
	ScheduledDate  string  `json:"scheduled_date"`
	TimeOfDay      string  `json:"time_of_day"`
	OnTimeDeadline string  `json:"on_time_deadline"`
	GracePeriodEnd string  `json:"grace_period_end"`
	CompletedAt    *string `json:"completed_at,omitempty"`
	Status         string  `json:"status"`
}
