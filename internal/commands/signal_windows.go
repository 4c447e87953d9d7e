//go:build windows

package commands

import (
	"context"
	"os"
	"os/signal"
)

// signalContext is cancelled on interrupt. Windows has no SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
