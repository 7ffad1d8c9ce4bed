package seed

import (
	"strings"
	"time"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
	"github.com/geocoder89/workoutseed/internal/validate"
)

// UserInput is a user creation request as it arrives from the CLI or the
// default catalog.
type UserInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"max=255"`
	Admin    bool   `json:"is_admin"`
}

type ExerciseInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description"`
	Type         string `json:"exercise_type"`
	MuscleGroup  string `json:"muscle_group" validate:"max=255"`
	Equipment    string `json:"equipment" validate:"max=255"`
	Instructions string `json:"instructions"`
	Active       *bool  `json:"is_active"`
}

// TemplateInput keeps every field as text, the way it is typed on the
// command line. Owner names the creator by username and is only consulted
// when CreatedBy is empty.
type TemplateInput struct {
	Name        string
	Description string
	IsPublic    string
	CreatedBy   string
	CreatedAt   string
	UpdatedAt   string
	Owner       string
}

// Plan lists the items of one run. Users are seeded first, then exercises,
// then templates.
type Plan struct {
	Users     []UserInput
	Exercises []ExerciseInput
	Templates []TemplateInput
}

func (p Plan) Len() int {
	return len(p.Users) + len(p.Exercises) + len(p.Templates)
}

func parseUser(in UserInput) (user.Draft, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := validate.Struct(in); err != nil {
		return user.Draft{}, err
	}

	return user.Draft{
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
		FullName: in.FullName,
		Admin:    in.Admin,
	}, nil
}

func parseExercise(in ExerciseInput) (exercise.Draft, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.MuscleGroup = strings.TrimSpace(in.MuscleGroup)
	in.Equipment = strings.TrimSpace(in.Equipment)
	in.Instructions = strings.TrimSpace(in.Instructions)

	if err := validate.Struct(in); err != nil {
		return exercise.Draft{}, err
	}

	t, err := validate.ExerciseType(in.Type)
	if err != nil {
		return exercise.Draft{}, err
	}

	return exercise.Draft{
		Name:         in.Name,
		Description:  in.Description,
		Type:         t,
		MuscleGroup:  in.MuscleGroup,
		Equipment:    in.Equipment,
		Instructions: in.Instructions,
		Active:       in.Active,
	}, nil
}

// parseTemplate checks fields in a fixed order (name, description,
// is_public, created_by) and reports the first failure. Timestamps never
// fail; unparsable ones come back as warnings.
func parseTemplate(in TemplateInput, now func() time.Time) (workout.Draft, []*validate.TimestampWarning, error) {
	name, err := validate.TemplateName(in.Name)
	if err != nil {
		return workout.Draft{}, nil, err
	}

	desc, err := validate.Description(in.Description)
	if err != nil {
		return workout.Draft{}, nil, err
	}

	public, err := validate.Bool("is_public", in.IsPublic)
	if err != nil {
		return workout.Draft{}, nil, err
	}

	var createdBy int64
	if strings.TrimSpace(in.CreatedBy) != "" || strings.TrimSpace(in.Owner) == "" {
		createdBy, err = validate.Int("created_by", in.CreatedBy)
		if err != nil {
			return workout.Draft{}, nil, err
		}
	}

	var warnings []*validate.TimestampWarning

	createdAt, warn := validate.ParseTimestamp("created_at", in.CreatedAt, now)
	if warn != nil {
		warnings = append(warnings, warn)
	}

	updatedAt, warn := validate.ParseTimestamp("updated_at", in.UpdatedAt, now)
	if warn != nil {
		warnings = append(warnings, warn)
	}

	return workout.Draft{
		Name:        name,
		Description: desc,
		IsPublic:    public,
		CreatedBy:   createdBy,
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
	}, warnings, nil
}
