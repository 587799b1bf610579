package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"seatd/internal/seatproto"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Session-level operations",
	}
	sessionCmd.AddCommand(newSessionAddCmd())
	return sessionCmd
}

func newSessionAddCmd() *cobra.Command {
	var seatBasename, sessionType, displayDevice, x11DisplayDevice, templateName, displayVariables string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a dynamic session (no backing definition file) to a seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seatBasename == "" {
				return fmt.Errorf("--seat is required")
			}
			if sessionType == "" {
				return fmt.Errorf("--type is required")
			}
			resp, err := call(cmd, seatBasename, &seatproto.Request{
				Op: "session_add",
				Args: map[string]string{
					"type":                  sessionType,
					"display_device":        displayDevice,
					"x11_display_device":    x11DisplayDevice,
					"display_template_name": templateName,
					"display_variables":     displayVariables,
				},
			})
			if err != nil {
				return err
			}
			var id string
			if err := decode(resp, &id); err != nil {
				return fmt.Errorf("decode session_add response: %w", err)
			}
			fmt.Println(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&seatBasename, "seat", "", "seat to add the session to")
	cmd.Flags().StringVar(&sessionType, "type", "", "session type (e.g. LoginWindow, X11)")
	cmd.Flags().StringVar(&displayDevice, "display-device", "", "text display device")
	cmd.Flags().StringVar(&x11DisplayDevice, "x11-display-device", "", "X11 display device")
	cmd.Flags().StringVar(&templateName, "display-template", "", "display template name")
	cmd.Flags().StringVar(&displayVariables, "display-variables", "", "semicolon-separated k=v pairs")

	return cmd
}
