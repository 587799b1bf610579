package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"seatd/internal/seatproto"
)

func newSeatCmd() *cobra.Command {
	seatCmd := &cobra.Command{
		Use:   "seat",
		Short: "Seat-level operations",
	}
	seatCmd.AddCommand(newSeatShowCmd())
	return seatCmd
}

func newSeatShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <seat-basename>",
		Short: "Dump a seat's kind, sessions, active session, and whether it is managed (devices are not shown)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basename := args[0]
			resp, err := call(cmd, basename, &seatproto.Request{Op: "seat_show"})
			if err != nil {
				return err
			}
			var info seatproto.SeatInfo
			if err := decode(resp, &info); err != nil {
				return fmt.Errorf("decode seat_show response: %w", err)
			}

			fmt.Printf("Seat:   %s\n", info.ID)
			fmt.Printf("Kind:   %s\n", info.Kind)
			fmt.Printf("Managed: %v\n", info.Managed)
			if info.ActiveSession != "" {
				fmt.Printf("Active: %s\n", info.ActiveSession)
			} else {
				fmt.Printf("Active: (none)\n")
			}
			fmt.Printf("Sessions (%d):\n", len(info.Sessions))
			for _, id := range info.Sessions {
				marker := " "
				if id == info.ActiveSession {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, id)
			}
			return nil
		},
	}
}
