//go:build !linux

package main

import (
	"log"
	"log/slog"

	"github.com/screenmachine/winctl/internal/backend"
	"github.com/screenmachine/winctl/internal/display"
)

func platformBackends(_ *slog.Logger) (display.Querier, backend.Backend, func()) {
	log.Println("No display control available on this platform, running headless")
	return nil, backend.Noop{}, func() {}
}
