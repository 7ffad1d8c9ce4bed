package seed

// DefaultOwner is the username default templates are attributed to: the
// first regular account of the default catalog.
const DefaultOwner = "regularuser"

func DefaultUsers() []UserInput {
	return []UserInput{
		{Email: "user@example.com", Username: "regularuser", Password: "user123", FullName: "Regular User Test"},
		{Email: "maria@example.com", Username: "maria", Password: "maria123", FullName: "Maria Garcia"},
		{Email: "carlos@example.com", Username: "carlos", Password: "carlos123", FullName: "Carlos Rodriguez"},
	}
}

func DefaultExercises() []ExerciseInput {
	return []ExerciseInput{
		{
			Name:         "Cardio",
			Description:  "General cardio exercise",
			Type:         "TIME_BASED",
			MuscleGroup:  "Full Body",
			Equipment:    "None",
			Instructions: "Run, cycle or row.",
		},
		{
			Name:         "Bench Press",
			Description:  "Chest press with barbell",
			Type:         "WEIGHT_BASED",
			MuscleGroup:  "Chest",
			Equipment:    "Barbell",
			Instructions: "Lie on bench, press bar up.",
		},
		{
			Name:         "Squat",
			Description:  "Leg exercise",
			Type:         "WEIGHT_BASED",
			MuscleGroup:  "Legs",
			Equipment:    "Barbell",
			Instructions: "Keep back straight, lower hips.",
		},
	}
}

func DefaultTemplates() []TemplateInput {
	return []TemplateInput{
		{Name: "Template Público A", Description: "Rutina general para principiantes", IsPublic: "true", Owner: DefaultOwner},
		{Name: "Template Privado B", Description: "Rutina personalizada para fuerza", IsPublic: "false", Owner: DefaultOwner},
		{Name: "Template Público C", Description: "Rutina de movilidad y estiramiento", IsPublic: "true", Owner: DefaultOwner},
	}
}

// DefaultPlan is the full baseline: the admin account, the default users,
// the exercise catalog and the templates, in that order. An admin with an
// empty email or password is left out.
func DefaultPlan(admin UserInput) Plan {
	users := DefaultUsers()
	if admin.Email != "" && admin.Password != "" {
		admin.Admin = true
		users = append([]UserInput{admin}, users...)
	}

	return Plan{
		Users:     users,
		Exercises: DefaultExercises(),
		Templates: DefaultTemplates(),
	}
}
