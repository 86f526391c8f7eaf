// Package signal wires process termination signals into context
// cancellation for the command-line tools.
package signal

import (
	"context"
	"os"
	gosignal "os/signal"
	"syscall"
	"time"
)

// gracePeriod is how long a run may keep draining after the second signal
// before the process is forced out.
const gracePeriod = 5 * time.Second

// InterruptCtx returns a context that is cancelled on SIGINT, SIGHUP,
// SIGTERM or SIGQUIT. A second signal after cancellation force-exits once
// the grace period elapses, in case a transport read never unblocks.
func InterruptCtx(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 10)
	gosignal.Notify(sigCh, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
			return
		}
		// A second signal force-exits after the grace period.
		<-sigCh
		time.Sleep(gracePeriod)
		os.Exit(1)
	}()
	return ctx, cancel
}
