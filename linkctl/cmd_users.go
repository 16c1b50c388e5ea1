package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/d3ce1t/turtlelink/model"
	"github.com/spf13/cobra"
)

func printUser(cmd *cobra.Command, user *model.User) {
	fmt.Fprintf(cmd.OutOrStdout(), "id:       %d\n", user.Id())
	fmt.Fprintf(cmd.OutOrStdout(), "username: %s\n", user.Username())
	fmt.Fprintf(cmd.OutOrStdout(), "admin:    %v\n", user.IsAdmin())
	fmt.Fprintf(cmd.OutOrStdout(), "created:  %v\n", user.CreatedDate().UTC().Format(time.RFC3339))
}

// user create|show
func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the users that own links",
	}
	cmd.AddCommand(newUserCreateCommand(), newUserShowCommand())
	return cmd
}

// user create <username> --password <password>
func newUserCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			admin, _ := cmd.Flags().GetBool("admin")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.model.Users.CreateUser(args[0], password, admin)
			if err != nil {
				return err
			}

			printUser(cmd, user)

			return nil
		},
	}
	cmd.Flags().String("password", "", "Password of the new user")
	cmd.Flags().Bool("admin", false, "Grant admin rights")
	cmd.MarkFlagRequired("password")
	return cmd
}

// user show <id|username>
func newUserShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|username>",
		Short: "Print a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var user *model.User
			if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
				user, err = a.model.Users.GetUser(id)
			} else {
				user, err = a.model.Users.GetUserByUsername(args[0])
			}
			if err != nil {
				return err
			}

			printUser(cmd, user)

			return nil
		},
	}
}
