// Command seatd is the seat coordinator daemon: it builds a Seat for
// every seat definition file under its sysconfdir, claims the
// org.freedesktop.login1 bus name and emits each seat's signals on the
// system bus, and serves seatctl's per-seat control socket. It does not
// export seat objects or answer bus method calls.
package main

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"

	"seatd/internal/displaytemplate"
	"seatd/internal/seatdconf"
	"seatd/internal/seatfactory"
	"seatd/internal/seatfile"
	"seatd/internal/seatlog"
	"seatd/internal/seatserver"
	"seatd/internal/seatset"
	"seatd/internal/seatsock"
	"seatd/internal/transport"
	"seatd/internal/transport/dbustransport"
	"seatd/internal/vtmonitor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seatd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := seatdconf.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect to system bus: %w", err)
	}
	defer conn.Close()
	if _, err := conn.RequestName("org.freedesktop.login1", dbus.NameFlagDoNotQueue); err != nil {
		return fmt.Errorf("request bus name: %w", err)
	}

	log := seatlog.New(cfg.LogPath != "", cfg.LogPath, "")
	defer log.Close()

	templates := displaytemplate.NewRegistry(cfg.DisplaysDir())
	set := seatset.New()

	seatsDir := cfg.SeatsDir()
	factory := seatfactory.New(seatfactory.Config{
		Dir:       seatsDir,
		Templates: templates,
		TransportFor: func(basename string) transport.Transport {
			return dbustransport.New(conn, dbus.ObjectPath(seatfactory.BusPath(basename)))
		},
		VTFor: func(basename string) vtmonitor.Monitor {
			if basename != cfg.DefaultSeatID {
				return nil
			}
			vt, err := vtmonitor.OpenLinux()
			if err != nil {
				return nil
			}
			return vt
		},
		Log: log,
	})

	entries, err := os.ReadDir(seatsDir)
	if err != nil {
		return fmt.Errorf("read seats dir %s: %w", seatsDir, err)
	}

	if err := os.MkdirAll(seatsock.DefaultDir, 0o755); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	var servers []*seatserver.Server
	defer func() {
		for _, srv := range servers {
			srv.Close()
		}
	}()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		basename := entry.Name()

		s, _, ok, err := factory.Build(basename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seatd: building seat %s: %v\n", basename, err)
			continue
		}
		if !ok {
			continue
		}
		set.Add(s)

		sockPath := seatsock.Path(seatsock.DefaultDir, basename)
		os.Remove(sockPath)
		srv, err := seatserver.Listen(sockPath, basename, s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seatd: listening for seat %s: %v\n", basename, err)
			continue
		}
		servers = append(servers, srv)
		go srv.Serve()
	}

	watcher, err := seatfile.Watch(seatsDir, func() {
		log.OpenRequestSkipped("", "seat directory changed; restart seatd to pick up changes")
	})
	if err == nil {
		defer watcher.Close()
	}

	select {}
}
