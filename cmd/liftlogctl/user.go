package main

import (
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/pkg"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagUsername string
	flagPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user with a bcrypt hashed password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagUsername == "" || flagPassword == "" {
			return errors.New("--username and --password are required")
		}

		hash, err := pkg.HashPassword(flagPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user, err := auth.NewUsersRepo(dbPool).Add(cmd.Context(), flagUsername, hash)
		if err != nil {
			if errors.Is(err, auth.ErrUserExists) {
				color.Yellow("user %s already exists", flagUsername)
			}
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "user %s created: %s\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&flagUsername, "username", "", "username")
	userAddCmd.Flags().StringVar(&flagPassword, "password", "", "plain text password, stored hashed")

	userCmd.AddCommand(userAddCmd)
}
