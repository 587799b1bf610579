package cmd

import (
	"github.com/spf13/cobra"

	"seatd/internal/seatsock"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "seatctl",
		Short: "Inspect and drive the seatd seat coordinator",
		Long:  "seatctl lists seats known to a running seatd, dumps a single seat's state, and adds dynamic sessions to it.",
	}
	rootCmd.PersistentFlags().String("socket-dir", seatsock.DefaultDir, "directory containing seatd's per-seat control sockets")

	rootCmd.AddCommand(
		newListCmd(),
		newSeatCmd(),
		newSessionCmd(),
	)

	return rootCmd
}
