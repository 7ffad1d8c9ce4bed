package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
)

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Email          string    `bun:"email,type:varchar(255),notnull,unique"`
	Username       string    `bun:"username,type:varchar(255),notnull,unique"`
	HashedPassword string    `bun:"hashed_password,type:varchar(255),notnull"`
	FullName       string    `bun:"full_name,type:varchar(255),notnull"`
	IsActive       bool      `bun:"is_active,notnull"`
	IsAdmin        bool      `bun:"is_admin,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

type exerciseRow struct {
	bun.BaseModel `bun:"table:exercises"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,type:varchar(255),notnull"`
	Description  string    `bun:"description,type:text,notnull"`
	ExerciseType string    `bun:"exercise_type,type:varchar(32),notnull"`
	MuscleGroup  string    `bun:"muscle_group,type:varchar(255),notnull"`
	Equipment    string    `bun:"equipment,type:varchar(255),notnull"`
	Instructions string    `bun:"instructions,type:text,notnull"`
	IsActive     bool      `bun:"is_active,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

type templateRow struct {
	bun.BaseModel `bun:"table:workout_templates"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,type:varchar(255),notnull"`
	Description string    `bun:"description,type:text,notnull"`
	IsPublic    bool      `bun:"is_public,notnull"`
	CreatedBy   int64     `bun:"created_by,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func fromUser(u *user.User) *userRow {
	return &userRow{
		Email:          u.Email,
		Username:       u.Username,
		HashedPassword: u.PasswordHash,
		FullName:       u.FullName,
		IsActive:       u.IsActive,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		PasswordHash: r.HashedPassword,
		FullName:     r.FullName,
		IsActive:     r.IsActive,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromExercise(e *exercise.Exercise) *exerciseRow {
	return &exerciseRow{
		Name:         e.Name,
		Description:  e.Description,
		ExerciseType: string(e.Type),
		MuscleGroup:  e.MuscleGroup,
		Equipment:    e.Equipment,
		Instructions: e.Instructions,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func fromTemplate(t *workout.Template) *templateRow {
	return &templateRow{
		Name:        t.Name,
		Description: t.Description,
		IsPublic:    t.IsPublic,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
