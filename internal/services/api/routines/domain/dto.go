// Package domain holds DTOs for routines http and service contracts
package domain

// FrequencyInput is the wire form of a product cadence
type FrequencyInput struct {
	Kind        string `json:"kind" validate:"required,oneof=daily weekdays" example:"weekdays"`
	WeekdayMask int    `json:"weekday_mask,omitempty" validate:"required_if=Kind weekdays,omitempty,weekday_mask" example:"42"`
}

// FrequencyOutput is the wire form of a stored product cadence
type FrequencyOutput struct {
	Kind        string `json:"kind"`
	WeekdayMask int    `json:"weekday_mask,omitempty"`
}

// CreateRoutineInput is the input for creating a routine (always a draft)
type CreateRoutineInput struct {
	SubscriberID string `json:"subscriber_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required,min=1,max=120" example:"Evening Repair"`
	Timezone     string `json:"timezone" validate:"required,timezone" example:"America/New_York"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02" example:"2025-01-01"`
	EndDate      string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateRoutineInput replaces a routine's editable fields
type UpdateRoutineInput struct {
	RoutineID string `json:"routine_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Timezone  string `json:"timezone" validate:"required,timezone"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// RoutineRef addresses one routine
type RoutineRef struct {
	RoutineID string `json:"routine_id" validate:"required,uuid"`
}

// ListRoutinesInput lists a subscriber's routines
type ListRoutinesInput struct {
	SubscriberID string `json:"subscriber_id" validate:"required,uuid"`
}

// AddProductInput appends a product step to a routine
type AddProductInput struct {
	RoutineID string         `json:"routine_id" validate:"required,uuid"`
	Name      string         `json:"name" validate:"required,min=1,max=120" example:"Retinol Serum"`
	TimeOfDay string         `json:"time_of_day" validate:"required,time_of_day" example:"evening"`
	Frequency FrequencyInput `json:"frequency" validate:"required"`
	Position  int            `json:"position,omitempty" validate:"omitempty,min=1"`
}

// UpdateProductInput replaces a product's editable fields
type UpdateProductInput struct {
	ProductID string         `json:"product_id" validate:"required,uuid"`
	Name      string         `json:"name" validate:"required,min=1,max=120"`
	TimeOfDay string         `json:"time_of_day" validate:"required,time_of_day"`
	Frequency FrequencyInput `json:"frequency" validate:"required"`
	Position  int            `json:"position,omitempty" validate:"omitempty,min=1"`
}

// ProductRef addresses one product
type ProductRef struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// Routine is the wire form of a routine
type Routine struct {
	ID           string  `json:"id"`
	SubscriberID string  `json:"subscriber_id"`
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	Timezone     string  `json:"timezone"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// Product is the wire form of a routine product
type Product struct {
	ID        string          `json:"id"`
	RoutineID string          `json:"routine_id"`
	Name      string          `json:"name"`
	TimeOfDay string          `json:"time_of_day"`
	Frequency FrequencyOutput `json:"frequency"`
	Position  int             `json:"position"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// RoutineDetail is a routine with its product steps
type RoutineDetail struct {
	Routine
	Products []Product `json:"products"`
}
