//go:build linux

package main

import (
	"log"
	"log/slog"

	"github.com/screenmachine/winctl/internal/backend"
	"github.com/screenmachine/winctl/internal/display"
	"github.com/screenmachine/winctl/internal/x11"
)

// platformBackends connects to the X server when one is available. Without
// one the daemon runs with the synthetic fallback display and a no-op window
// backend.
func platformBackends(logger *slog.Logger) (display.Querier, backend.Backend, func()) {
	conn, err := x11.NewConnection()
	if err != nil {
		log.Printf("No X server available, running headless: %v", err)
		return nil, backend.Noop{}, func() {}
	}

	logger.Info("connected to X server")
	return display.NewXRandRQuerier(conn), backend.NewX11Backend(conn), conn.Close
}
