// Package cli implements the gamehub command-line client.
//
// A login session lives only as long as its connection, so each command
// dials, logs in with the saved credentials, performs its operation, and
// logs out again. Room membership needs a held connection; that lives in
// the interactive `gamehub lobby` shell.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/client"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "gamehub",
		Short: "CLI client for the gamehub lobby server",
		Long: `gamehub is a client for the gamehub lobby server.

Players browse and download games, sit in rooms, and play matches; developers
publish and maintain their games. Credentials saved by "gamehub login" are
used by every other command. Room play happens in the interactive
"gamehub lobby" shell, which holds one connection open.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.LoadCredentials()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Lobby server address (env: GAMEHUB_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Username, "user", cfg.Username, "Username (overrides saved credentials)")
	rootCmd.PersistentFlags().StringVar(&cfg.Password, "pass", cfg.Password, "Password (overrides saved credentials)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newOnlineCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newRoomsCmd())
	rootCmd.AddCommand(newLobbyCmd())
	rootCmd.AddCommand(newRecordsCmd())
	rootCmd.AddCommand(newReviewCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// withSession dials the lobby, logs in with the configured credentials,
// runs fn, and logs out. Used by every one-shot command.
func withSession(fn func(c *client.Client) error) error {
	if cfg.Username == "" {
		return fmt.Errorf("not logged in: run `gamehub login` first")
	}

	c, err := client.Dial(cfg.ServerAddr)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if _, err := c.Login(cfg.Username, cfg.Password, cfg.Role); err != nil {
		return fmt.Errorf("login as %s: %w", cfg.Username, err)
	}
	defer func() { _ = c.Logout() }()

	return fn(c)
}
