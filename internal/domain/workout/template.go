package workout

import "time"

// Template is a reusable workout plan owned by the user in CreatedBy.
type Template struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft carries parsed template fields. Nil timestamps are filled with the
// current time when the template is built.
type Draft struct {
	Name        string
	Description string
	IsPublic    bool
	CreatedBy   int64
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}
