package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/geocoder89/workoutseed/internal/seed"
)

func newRootCmd(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Populate the workout store with baseline data",
		Long: `seed creates the admin account, the default users, the exercise catalog
and the default workout templates. Items that already exist are skipped, so
running it again is safe.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return cmd.Usage()
			}
			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				return a.seed(ctx, "all", seed.DefaultPlan(a.adminInput()))
			})
		},
	}

	root.SetOut(d.out)
	root.SetErr(d.out)

	pf := root.PersistentFlags()
	pf.String("env", "", "environment name (dev enables debug logs)")
	pf.String("db-driver", "", "store backend: postgres, sqlite or mysql")
	pf.String("db-url", "", "connection URL or DSN")
	pf.String("lang", "", "report language (en, es)")
	pf.String("redis-addr", "", "Redis address for the run lock")
	pf.String("pushgateway", "", "Prometheus Pushgateway URL")

	root.AddCommand(
		newUsersCmd(d),
		newTemplatesCmd(d),
		newExercisesCmd(d),
		newAdminCmd(d),
		newListUsersCmd(d),
		newInitDBCmd(d),
	)

	return root
}

func newUsersCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "users [email username password [full_name]]",
		Short: "Seed the default users, or one custom user",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan seed.Plan
			switch {
			case len(args) == 0:
				plan.Users = seed.DefaultUsers()
			case len(args) >= 3:
				in := seed.UserInput{Email: args[0], Username: args[1], Password: args[2]}
				if len(args) > 3 {
					in.FullName = args[3]
				}
				plan.Users = []seed.UserInput{in}
			default:
				return cmd.Usage()
			}

			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				return a.seed(ctx, "users", plan)
			})
		},
	}
}

func newTemplatesCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "templates [name description is_public created_by [created_at] [updated_at]]",
		Short: "Seed the default workout templates, or one custom template",
		Long: `With no arguments, seeds the default templates owned by "` + seed.DefaultOwner + `".
is_public takes true or false; created_by is a user id; timestamps are ISO-8601
and default to now. Arguments past updated_at are ignored.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan seed.Plan
			switch {
			case len(args) == 0:
				plan.Templates = seed.DefaultTemplates()
			case len(args) >= 4:
				in := seed.TemplateInput{
					Name:        args[0],
					Description: args[1],
					IsPublic:    args[2],
					CreatedBy:   args[3],
				}
				if len(args) > 4 {
					in.CreatedAt = args[4]
				}
				if len(args) > 5 {
					in.UpdatedAt = args[5]
				}
				plan.Templates = []seed.TemplateInput{in}
			default:
				return cmd.Usage()
			}

			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				return a.seed(ctx, "templates", plan)
			})
		},
	}
}

func newExercisesCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "Seed the default exercise catalog",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return cmd.Usage()
			}
			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				return a.seed(ctx, "exercises", seed.Plan{Exercises: seed.DefaultExercises()})
			})
		},
	}
}

func newAdminCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Seed the admin account from ADMIN_* settings",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return cmd.Usage()
			}
			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				return a.seed(ctx, "admin", seed.Plan{Users: []seed.UserInput{a.adminInput()}})
			})
		},
	}
}

func newListUsersCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List users with their role and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				users, err := a.orch.ListUsers(ctx)
				if err != nil {
					return err
				}
				return a.printer.Users(users)
			})
		},
	}
}

func newInitDBCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the users, exercises and workout_templates tables if absent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, d, func(ctx context.Context, a *app) error {
				if err := a.store.EnsureSchema(ctx); err != nil {
					return err
				}
				a.printer.SchemaReady()
				return nil
			})
		},
	}
}
