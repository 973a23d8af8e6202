package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mannadome_backend/internal/auth"
	"mannadome_backend/internal/identity"
	"mannadome_backend/internal/repository"

	"github.com/spf13/cobra"
)

// The CLI keeps its session on disk, like a browser keeps it in local storage.
func sessionDir() string {
	if dir := os.Getenv("MANNADOME_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mannadome"
	}
	return filepath.Join(home, ".mannadome")
}

func withManager(run func(cmd *cobra.Command, rt *services, m *auth.Manager) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		m := auth.NewManager(rt.db, rt.ids, auth.NewFileStorage(sessionDir()), rt.log)
		return run(cmd, rt, m)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts and the local admin session",
	}
	cmd.PersistentFlags().String("email", "", "admin email")
	cmd.PersistentFlags().String("password", "", "admin password")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "signup",
			Short: "Register an admin account",
			RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
				email, _ := cmd.Flags().GetString("email")
				password, _ := cmd.Flags().GetString("password")

				session, err := m.SignUp(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				if session == nil {
					fmt.Println("Account created. Confirm the email address before logging in.")
					return nil
				}
				return printJSON(session.User.GetPublicProfile())
			}),
		},
		&cobra.Command{
			Use:   "login",
			Short: "Sign in and store the session",
			RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
				email, _ := cmd.Flags().GetString("email")
				password, _ := cmd.Flags().GetString("password")

				session, err := m.SignIn(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Printf("Signed in as %s until %s\n", session.User.Email, session.Expires.Local().Format("2006-01-02 15:04"))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Revoke and remove the stored session",
			RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
				return m.SignOut(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the stored session",
			RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
				user, err := m.RequireAuth()
				if err != nil {
					fmt.Println(m.State())
					return err
				}
				return printJSON(user.GetPublicProfile())
			}),
		},
		&cobra.Command{
			Use:   "confirm",
			Short: "Mark an admin email as confirmed",
			RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
				email, _ := cmd.Flags().GetString("email")
				return rt.ids.Confirm(cmd.Context(), email)
			}),
		},
		setActiveCmd(),
		setPasswordCmd(),
	)
	return cmd
}

func setActiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-active",
		Short: "Enable or disable back-office access for an admin",
		RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
			email, _ := cmd.Flags().GetString("email")
			active, _ := cmd.Flags().GetBool("active")

			err := repository.NewAdminUserRepo(rt.db).SetActive(cmd.Context(), email, active)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no admin user with email %q", email)
			}
			return err
		}),
	}
	cmd.Flags().Bool("active", true, "whether the admin may sign in")
	return cmd
}

func setPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Replace the password of an admin identity",
		RunE: withManager(func(cmd *cobra.Command, rt *services, m *auth.Manager) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			if err := resetPassword(cmd.Context(), rt.ids, email, password); err != nil {
				return err
			}
			fmt.Printf("Password updated for %s\n", email)
			return nil
		}),
	}
}

func resetPassword(ctx context.Context, ids *identity.Service, email, password string) error {
	err := ids.SetPassword(ctx, email, password)
	switch {
	case errors.Is(err, identity.ErrUnknownIdentity):
		return fmt.Errorf("no identity with email %q", email)
	case errors.Is(err, identity.ErrWeakPassword):
		return fmt.Errorf("password must be at least %d characters", identity.MinPasswordLength)
	}
	return err
}
