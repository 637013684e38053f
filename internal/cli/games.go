package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/client"
	"github.com/mcoot/gamehub/internal/protocol"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse and manage catalog games",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesInfoCmd())
	cmd.AddCommand(newGamesDownloadCmd())
	cmd.AddCommand(newGamesUploadCmd())
	cmd.AddCommand(newGamesUpdateCmd())
	cmd.AddCommand(newGamesRemoveCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				var (
					games []protocol.GameSummary
					err   error
				)
				if mine {
					games, err = c.ListMyGames()
				} else {
					games, err = c.ListGames()
				}
				if err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(games)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "List your own games, removed ones included (developers)")
	return cmd
}

func newGamesInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show a game's versions, rating, and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				info, err := c.GetGameInfo(args[0])
				if err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(info)
				return nil
			})
		},
	}
}

func newGamesDownloadCmd() *cobra.Command {
	var version, outPath string

	cmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a game package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				info, data, err := c.DownloadGame(args[0], version)
				if err != nil {
					return err
				}

				path := outPath
				if path == "" {
					path = fmt.Sprintf("%s-%s.zip", info.Name, info.Version)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write package: %w", err)
				}

				NewOutput(cfg.Output).PrintMessage(
					fmt.Sprintf("Downloaded %s %s (%d bytes) to %s", info.Name, info.Version, info.Size, path))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Version to download (default: current)")
	cmd.Flags().StringVarP(&outPath, "out", "f", "", "Output file path")
	return cmd
}

func newGamesUploadCmd() *cobra.Command {
	var description, gameType string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "upload <name> <package.zip>",
		Short: "Publish a new game (developers)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read package %s: %w", args[1], err)
			}

			return withSession(func(c *client.Client) error {
				if err := c.UploadGame(protocol.UploadGameRequest{
					Name:        args[0],
					Description: description,
					Type:        gameType,
					MaxPlayers:  maxPlayers,
				}, pkg); err != nil {
					return err
				}
				NewOutput(cfg.Output).PrintMessage(
					fmt.Sprintf("Published %s (%s)", args[0], filepath.Base(args[1])))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Game description")
	cmd.Flags().StringVar(&gameType, "type", "cli", "Game type")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 2, "Maximum players per match")
	return cmd
}

func newGamesUpdateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "update <name> <version> <package.zip>",
		Short: "Publish a new version of your game (developers)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("read package %s: %w", args[2], err)
			}

			return withSession(func(c *client.Client) error {
				if err := c.UpdateGame(protocol.UpdateGameRequest{
					Name:        args[0],
					Version:     args[1],
					Description: description,
				}, pkg); err != nil {
					return err
				}
				NewOutput(cfg.Output).PrintMessage(
					fmt.Sprintf("Updated %s to %s", args[0], args[1]))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Version description")
	return cmd
}

func newGamesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove your game from the catalog (developers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				if err := c.RemoveGame(args[0]); err != nil {
					return err
				}
				NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Removed %s from the catalog", args[0]))
				return nil
			})
		},
	}
}
