package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"seatd/internal/seatproto"
	"seatd/internal/seatsock"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every seat with a reachable control socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString("socket-dir")
			if err != nil {
				return err
			}
			entries, err := seatsock.List(dir)
			if err != nil {
				return fmt.Errorf("list sockets under %s: %w", dir, err)
			}
			if len(entries) == 0 {
				fmt.Println("No seats found.")
				return nil
			}
			for _, e := range entries {
				resp, err := callIn(dir, e.SeatBasename, &seatproto.Request{Op: "seat_show"})
				if err != nil {
					fmt.Printf("  %s \033[31m(unreachable: %v)\033[0m\n", e.SeatBasename, err)
					continue
				}
				var info seatproto.SeatInfo
				if err := decode(resp, &info); err != nil {
					fmt.Printf("  %s \033[31m(bad response: %v)\033[0m\n", e.SeatBasename, err)
					continue
				}
				active := "none"
				if info.ActiveSession != "" {
					active = info.ActiveSession
				}
				fmt.Printf("  %s [%s] sessions=%d active=%s managed=%v\n",
					info.ID, info.Kind, len(info.Sessions), active, info.Managed)
			}
			return nil
		},
	}
}
