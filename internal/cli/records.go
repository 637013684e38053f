package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/client"
)

func newRecordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Show your play history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				records, err := c.GetPlayerRecords()
				if err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(records)
				return nil
			})
		},
	}
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Read and write game reviews",
	}

	cmd.AddCommand(newReviewAddCmd())
	cmd.AddCommand(newReviewListCmd())

	return cmd
}

func newReviewAddCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "add <game> <rating>",
		Short: "Review a game you have played (rating 1-5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number 1-5")
			}

			return withSession(func(c *client.Client) error {
				if err := c.AddReview(args[0], rating, comment); err != nil {
					return err
				}
				NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Reviewed %s: %d/5", args[0], rating))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Review comment")
	return cmd
}

func newReviewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game>",
		Short: "List a game's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(c *client.Client) error {
				reviews, err := c.GetReviews(args[0])
				if err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(reviews)
				return nil
			})
		},
	}
}
