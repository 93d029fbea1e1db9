// Package builtin wires every shipped driver into a registry.
package builtin

import (
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/driver/kofi"
	"liveoverlay.app/hooks/internal/driver/patreon"
)

func NewRegistry() *driver.Registry {
	return driver.NewRegistry(
		kofi.New(),
		patreon.New(),
	)
}
