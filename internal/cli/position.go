package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pos",
		Short: "Position tracking commands",
	}

	cmd.AddCommand(newPositionSendCmd())
	cmd.AddCommand(newPositionGetCmd())
	cmd.AddCommand(newPositionListCmd())

	return cmd
}

func newPositionSendCmd() *cobra.Command {
	var x, y, z float64

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the logged-in player's position",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]float64{"x": x, "y": y, "z": z}
			var result Position

			if err := client.Post("/api/v1/positions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "X coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Y coordinate")
	cmd.Flags().Float64Var(&z, "z", 0, "Z coordinate")

	return cmd
}

func newPositionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Get a player's position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player := args[0]
			if player == "" {
				return fmt.Errorf("player id is required")
			}

			var result Position
			if err := client.Get("/api/v1/positions/"+player, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPositionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all known positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PositionList

			if err := client.Get("/api/v1/positions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
