package user

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	FullName     string    `json:"fullName"`
	IsActive     bool      `json:"isActive"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Draft is a validated user request. Password is still plaintext here and
// only lives until the factory hashes it.
type Draft struct {
	Email    string
	Username string
	Password string
	FullName string
	Admin    bool
}
