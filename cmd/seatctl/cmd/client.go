package cmd

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"seatd/internal/seatproto"
	"seatd/internal/seatsock"
)

// decode unmarshals resp's Data payload into v.
func decode(resp *seatproto.Response, v any) error {
	return json.Unmarshal(resp.Data, v)
}

// call dials the socket for seatBasename under the command's configured
// socket-dir flag, sends req, and returns the decoded response.
func call(cmd *cobra.Command, seatBasename string, req *seatproto.Request) (*seatproto.Response, error) {
	dir, err := cmd.Flags().GetString("socket-dir")
	if err != nil {
		return nil, err
	}
	return callIn(dir, seatBasename, req)
}

func callIn(dir, seatBasename string, req *seatproto.Request) (*seatproto.Response, error) {
	path, err := seatsock.Find(dir, seatBasename)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialTimeout("unix", path, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to seat %q: %w", seatBasename, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(15 * time.Second))

	if err := seatproto.WriteRequest(conn, req); err != nil {
		return nil, fmt.Errorf("send request to seat %q: %w", seatBasename, err)
	}
	resp, err := seatproto.ReadResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("read response from seat %q: %w", seatBasename, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("seat %q: %s", seatBasename, resp.Error)
	}
	return resp, nil
}
