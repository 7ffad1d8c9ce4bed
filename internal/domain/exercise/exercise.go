package exercise

import "time"

type Type string

const (
	TimeBased   Type = "TIME_BASED"
	WeightBased Type = "WEIGHT_BASED"
)

// check to see if the exercise type is a known constant
func (t Type) IsValid() bool {
	switch t {
	case TimeBased, WeightBased:
		return true
	default:
		return false
	}
}

// Types lists the declared variants in a stable order.
func Types() []Type {
	return []Type{TimeBased, WeightBased}
}

type Exercise struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         Type      `json:"exerciseType"`
	MuscleGroup  string    `json:"muscleGroup,omitempty"`
	Equipment    string    `json:"equipment,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// with pointers if optional, it will be nil
type Draft struct {
	Name         string
	Description  string
	Type         Type
	MuscleGroup  string
	Equipment    string
	Instructions string
	Active       *bool
}
