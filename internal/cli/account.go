package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/client"
)

func newRegisterCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.Register(args[0], args[1], role); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Registered %s as %s", args[0], role))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "player", "Account role: player, developer")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Verify credentials and save them for later commands",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			login, err := c.Login(args[0], args[1], role)
			if err != nil {
				return err
			}
			_ = c.Logout()

			if err := cfg.SaveCredentials(args[0], args[1], login.Role); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Logged in as %s (%s)", login.Username, login.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Expected account role: player, developer")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget saved credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearCredentials(); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}

func newOnlineCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "online",
		Short: "List online users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				users, err := c.ListOnline(role)
				if err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(users)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Filter by role: player, developer")
	return cmd
}
