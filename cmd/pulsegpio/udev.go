package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jochenvg/go-udev"
)

// waitForChip blocks until the named GPIO chip character device appears
// under /dev, or ctx is done. It uses udev's netlink monitor rather than
// polling the filesystem - the same device-presence pattern used for
// serial/USB device waits.
func waitForChip(ctx context.Context, chip string) error {
	if _, err := os.Stat("/dev/" + chip); err == nil {
		return nil
	}

	u := udev.Udev{}
	m := u.NewMonitorFromNetlink("udev")
	if err := m.FilterAddMatchSubsystem("gpio"); err != nil {
		return fmt.Errorf("filtering udev monitor: %w", err)
	}

	ch, errCh, err := m.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("starting udev monitor: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return fmt.Errorf("udev monitor: %w", err)
		case dev := <-ch:
			if dev != nil && filepath.Base(dev.Devnode()) == chip {
				return nil
			}
		}
	}
}
