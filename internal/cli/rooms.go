package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/client"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List open rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				rooms, err := c.ListRooms()
				if err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(rooms)
				return nil
			})
		},
	}
}

// newLobbyCmd is the interactive shell. Room membership is tied to the
// connection, so joining and starting matches only make sense while one
// connection stays open.
func newLobbyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lobby",
		Short: "Interactive lobby shell (create/join rooms, start matches)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Username == "" {
				return fmt.Errorf("not logged in: run `gamehub login` first")
			}

			c, err := client.Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			login, err := c.Login(cfg.Username, cfg.Password, cfg.Role)
			if err != nil {
				return fmt.Errorf("login as %s: %w", cfg.Username, err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Connected as %s. Type 'help' for commands.", login.Username))

			shell := &lobbyShell{client: c, out: out}
			return shell.run()
		},
	}
}

type lobbyShell struct {
	client *client.Client
	out    *Output

	// roomID tracks the room joined through this shell, for bare
	// leave/start commands
	roomID string
}

func (sh *lobbyShell) run() error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("gamehub> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := sh.handle(cmd, args); err != nil {
			sh.out.PrintError(err)
		}
	}
}

func (sh *lobbyShell) handle(cmd string, args []string) error {
	switch cmd {
	case "help":
		sh.printHelp()
		return nil

	case "games":
		games, err := sh.client.ListGames()
		if err != nil {
			return err
		}
		sh.out.Print(games)
		return nil

	case "rooms":
		rooms, err := sh.client.ListRooms()
		if err != nil {
			return err
		}
		sh.out.Print(rooms)
		return nil

	case "online":
		users, err := sh.client.ListOnline("")
		if err != nil {
			return err
		}
		sh.out.Print(users)
		return nil

	case "create":
		if len(args) < 1 {
			return fmt.Errorf("usage: create <game> [version]")
		}
		version := ""
		if len(args) > 1 {
			version = args[1]
		}
		room, err := sh.client.CreateRoom(args[0], version)
		if err != nil {
			return err
		}
		sh.roomID = room.RoomID
		sh.out.PrintMessage(fmt.Sprintf("Created room %s for %s %s (max %d players)",
			room.RoomID, room.GameName, room.GameVersion, room.MaxPlayers))
		return nil

	case "join":
		if len(args) != 1 {
			return fmt.Errorf("usage: join <room>")
		}
		joined, err := sh.client.JoinRoom(args[0])
		if err != nil {
			return err
		}
		sh.roomID = joined.RoomID
		sh.out.PrintMessage(fmt.Sprintf("Joined room %s (%s) with %s",
			joined.RoomID, joined.GameName, strings.Join(joined.Players, ", ")))
		return nil

	case "leave":
		roomID, err := sh.targetRoom(args)
		if err != nil {
			return err
		}
		if err := sh.client.LeaveRoom(roomID); err != nil {
			return err
		}
		sh.roomID = ""
		sh.out.PrintMessage("Left room " + roomID)
		return nil

	case "start":
		roomID, err := sh.targetRoom(args)
		if err != nil {
			return err
		}
		match, err := sh.client.StartGame(roomID)
		if err != nil {
			return err
		}
		sh.out.PrintMessage(fmt.Sprintf("Game server up on port %d for %s",
			match.GameServerPort, strings.Join(match.Players, ", ")))
		return nil

	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// targetRoom resolves the room argument, falling back to the room joined
// through this shell
func (sh *lobbyShell) targetRoom(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if sh.roomID == "" {
		return "", fmt.Errorf("no room given and none joined yet")
	}
	return sh.roomID, nil
}

func (sh *lobbyShell) printHelp() {
	fmt.Print(`Commands:
  games                 List available games
  rooms                 List open rooms
  online                List online users
  create <game> [ver]   Create a room (you become host)
  join <room>           Join a room
  leave [room]          Leave a room
  start [room]          Start the match (host only)
  quit                  Disconnect and exit
`)
}
