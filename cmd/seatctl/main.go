// Command seatctl is the operator CLI for seatd: it lists reachable
// seats, dumps a single seat's state, and mints dynamic sessions,
// talking to the daemon over its per-seat Unix socket.
package main

import (
	"fmt"
	"os"

	"seatd/cmd/seatctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
