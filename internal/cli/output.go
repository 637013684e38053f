package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/mcoot/gamehub/internal/protocol"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		errorColor.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		successColor.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []protocol.GameSummary:
		o.printGames(v)
	case *protocol.GameInfoData:
		o.printGameInfo(v)
	case []protocol.RoomData:
		o.printRooms(v)
	case []protocol.RecordData:
		o.printRecords(v)
	case *protocol.GetReviewsData:
		o.printReviews(v)
	case []string:
		for _, item := range v {
			fmt.Println(item)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGames(games []protocol.GameSummary) {
	if len(games) == 0 {
		warnColor.Println("No games available")
		return
	}

	headerColor.Printf("%-20s %-12s %-8s %-8s %-7s %s\n",
		"NAME", "DEVELOPER", "VERSION", "PLAYERS", "RATING", "DESCRIPTION")
	for _, g := range games {
		rating := "-"
		if g.RatingCount > 0 {
			rating = fmt.Sprintf("%.1f", g.Rating)
		}
		name := g.Name
		if !g.IsActive {
			name += " (removed)"
		}
		fmt.Printf("%-20s %-12s %-8s %-8d %-7s %s\n",
			name, g.Developer, g.CurrentVersion, g.MaxPlayers, rating, g.Description)
	}
}

func (o *Output) printGameInfo(info *protocol.GameInfoData) {
	headerColor.Printf("%s", info.Name)
	fmt.Printf(" by %s\n", info.Developer)
	if info.Description != "" {
		fmt.Println(info.Description)
	}
	fmt.Printf("Type: %s  Max players: %d  Current version: %s\n",
		info.Type, info.MaxPlayers, info.CurrentVersion)
	if info.RatingCount > 0 {
		fmt.Printf("Rating: %.1f (%d reviews)\n", info.Rating, info.RatingCount)
	}

	if len(info.Versions) > 0 {
		headerColor.Println("\nVersions:")
		for _, v := range info.Versions {
			fmt.Printf("  %-8s %s  %s\n",
				v.Version, v.UploadedAt.Format("2006-01-02"), v.Description)
		}
	}
	if len(info.Reviews) > 0 {
		headerColor.Println("\nRecent reviews:")
		for _, r := range info.Reviews {
			fmt.Printf("  %s %s: %s\n", stars(r.Rating), r.Player, r.Comment)
		}
	}
}

func (o *Output) printRooms(rooms []protocol.RoomData) {
	if len(rooms) == 0 {
		warnColor.Println("No rooms open")
		return
	}

	headerColor.Printf("%-10s %-20s %-10s %-9s %s\n",
		"ROOM", "GAME", "HOST", "STATUS", "PLAYERS")
	for _, r := range rooms {
		status := r.Status
		if r.GameServerPort != 0 {
			status = fmt.Sprintf("%s:%d", r.Status, r.GameServerPort)
		}
		fmt.Printf("%-10s %-20s %-10s %-9s %d/%d %s\n",
			r.RoomID, r.GameName, r.Host, status,
			len(r.Players), r.MaxPlayers, strings.Join(r.Players, ", "))
	}
}

func (o *Output) printRecords(records []protocol.RecordData) {
	if len(records) == 0 {
		warnColor.Println("No games played yet")
		return
	}

	headerColor.Printf("%-20s %-8s %-17s %s\n", "GAME", "VERSION", "PLAYED", "REVIEWED")
	for _, r := range records {
		reviewed := "no"
		if r.HasReviewed {
			reviewed = "yes"
		}
		fmt.Printf("%-20s %-8s %-17s %s\n",
			r.GameName, r.GameVersion, r.PlayedAt.Format("2006-01-02 15:04"), reviewed)
	}
}

func (o *Output) printReviews(data *protocol.GetReviewsData) {
	if data.RatingCount == 0 {
		warnColor.Println("No reviews yet")
		return
	}

	fmt.Printf("Average rating: %.1f (%d reviews)\n\n", data.AverageRating, data.RatingCount)
	for _, r := range data.Reviews {
		fmt.Printf("%s %s  %s\n", stars(r.Rating), r.Player, r.CreatedAt.Format("2006-01-02"))
		if r.Comment != "" {
			fmt.Printf("  %s\n", r.Comment)
		}
	}
}

func stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
