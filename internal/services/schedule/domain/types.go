// Package domain defines the schedule engine's entities and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
)

// Status is the compliance state of one occurrence.
// pending is the only non-terminal state
type Status string

// Occurrence statuses
const (
	StatusPending Status = "pending"
	StatusOnTime  Status = "on_time"
	StatusLate    Status = "late"
	StatusMissed  Status = "missed"
)

// Terminal reports whether s admits no further transitions
func (s Status) Terminal() bool { return s != StatusPending }

// RoutineStatus is the publication state of a routine
type RoutineStatus string

// Routine statuses
const (
	RoutineDraft     RoutineStatus = "draft"
	RoutinePublished RoutineStatus = "published"
)

// Routine is a named container of products for one subscriber
type Routine struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	Name         string
	Status       RoutineStatus
	Timezone     string
	StartDate    civil.Date
	EndDate      *civil.Date
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoutineProduct is one step in a routine
type RoutineProduct struct {
	ID           uuid.UUID
	RoutineID    uuid.UUID
	SubscriberID uuid.UUID
	Name         string
	TimeOfDay    cadence.TimeOfDay
	Frequency    cadence.Frequency
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Occurrence is one concrete dated instance of a product, the compliance record
type Occurrence struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	SubscriberID   uuid.UUID
	ScheduledDate  civil.Date
	TimeOfDay      cadence.TimeOfDay
	OnTimeDeadline time.Time
	GracePeriodEnd time.Time
	CompletedAt    *time.Time
	Status         Status
	CreatedAt      time.Time
}

// ProductDiff says which schedule-relevant fields an update touched.
// Renames and reorders set neither flag and cause no occurrence churn
type ProductDiff struct {
	FrequencyChanged bool
	TimeOfDayChanged bool
}

// ScheduleAffecting reports whether the update requires regeneration
func (d ProductDiff) ScheduleAffecting() bool {
	return d.FrequencyChanged || d.TimeOfDayChanged
}
