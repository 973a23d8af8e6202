package main

import (
	"mannadome_backend/internal/identity"
	"mannadome_backend/internal/model"
	"mannadome_backend/pkg/database"
	"mannadome_backend/pkg/seed"

	"github.com/spf13/cobra"
)

func allModels() []interface{} {
	return append(model.Models(), identity.Models()...)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			return database.Migrate(rt.db, rt.log, allModels()...)
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and sample testimonials",
		RunE: func(cmd *cobra.Command, args []string) error {
			withTestimonials, _ := cmd.Flags().GetBool("testimonials")

			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()
			if err := database.Migrate(rt.db, rt.log, allModels()...); err != nil {
				return err
			}
			if err := seed.SeedAdmin(ctx, rt.db, rt.ids, rt.cfg.Auth.DefaultAdminEmail, rt.cfg.Auth.DefaultAdminPassword, rt.log); err != nil {
				return err
			}
			if withTestimonials {
				return seed.SeedTestimonials(ctx, rt.db, rt.log)
			}
			return nil
		},
	}
	cmd.Flags().Bool("testimonials", true, "also insert sample testimonials when the table is empty")
	return cmd
}
