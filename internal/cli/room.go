package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Manage rooms",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomPlayersCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomQuotaCmd())
	cmd.AddCommand(newRoomDeleteCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and join it as leader",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"display_name": name}

			var result Room
			if err := client.Post("/api/v1/rooms", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the leader")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			if err := client.Get("/api/v1/rooms/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"display_name": name}

			var result Room
			if err := client.Post("/api/v1/rooms/"+args[0]+"/join", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")

	return cmd
}

func newRoomPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players <code>",
		Short: "List a room's players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Roster
			if err := client.Get("/api/v1/rooms/"+args[0]+"/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the game (leader only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			if err := client.Post("/api/v1/rooms/"+args[0]+"/start", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomQuotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota <code> <role=count>...",
		Short: "Replace the room's role quota (leader only)",
		Long: `Replace the room's role quota with the given role counts.

Example:
  lobos room quota A1B2C3 lobo=2 vidente=1 bruja=1 aldeano=4`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quota := make(map[string]int)
			for _, arg := range args[1:] {
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid role count %q, expected role=count", arg)
				}
				count, err := strconv.Atoi(parts[1])
				if err != nil {
					return fmt.Errorf("invalid count for role %q: %w", parts[0], err)
				}
				quota[parts[0]] = count
			}

			body := map[string]any{"configuracion": quota}

			var result Room
			if err := client.Put("/api/v1/rooms/"+args[0]+"/quota", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a room (leader only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/rooms/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Room deleted")
			return nil
		},
	}
}
