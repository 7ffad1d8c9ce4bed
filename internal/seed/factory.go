package seed

import (
	"time"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
)

// Hasher turns a plaintext password into an opaque hash.
type Hasher interface {
	Hash(plain string) (string, error)
}

// Factory builds entities from validated drafts and applies defaults. It
// never touches the store.
type Factory struct {
	Hasher Hasher
	Now    func() time.Time
}

func (f Factory) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now().UTC()
}

// User builds a regular account. IsAdmin is only set when the draft asks for it.
func (f Factory) User(d user.Draft) (user.User, error) {
	hash, err := f.Hasher.Hash(d.Password)
	if err != nil {
		return user.User{}, err
	}

	fullName := d.FullName
	if fullName == "" {
		fullName = d.Username
	}

	now := f.now()
	return user.User{
		Email:        d.Email,
		Username:     d.Username,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
		IsAdmin:      d.Admin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Admin builds the privileged variant.
func (f Factory) Admin(d user.Draft) (user.User, error) {
	d.Admin = true
	return f.User(d)
}

func (f Factory) Exercise(d exercise.Draft) exercise.Exercise {
	active := true
	if d.Active != nil {
		active = *d.Active
	}

	now := f.now()
	return exercise.Exercise{
		Name:         d.Name,
		Description:  d.Description,
		Type:         d.Type,
		MuscleGroup:  d.MuscleGroup,
		Equipment:    d.Equipment,
		Instructions: d.Instructions,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (f Factory) Template(d workout.Draft) workout.Template {
	now := f.now()

	createdAt := now
	if d.CreatedAt != nil {
		createdAt = *d.CreatedAt
	}

	updatedAt := now
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return workout.Template{
		Name:        d.Name,
		Description: d.Description,
		IsPublic:    d.IsPublic,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}
