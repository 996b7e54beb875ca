package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/assetnote/kitecurl/pkg/log"
)

var (
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
)

// AddInterruptCancellation cancels ctx on the first SIGINT or SIGTERM. A second signal exits immediately,
// since an in flight fasthttp request cannot be aborted
func AddInterruptCancellation(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		interrupts := 0
		for {
			select {
			case <-c:
				interrupts++
				if interrupts > 1 {
					log.Info().Msg("received multiple interrupt signals. exiting")
					os.Exit(1)
				}
				log.Info().Msg("received interrupt signal. cancelling request")
				cancel()
			case <-ctx.Done():
				signal.Stop(c)
				return
			}
		}
	}()
}

// Context returns the process wide context, cancelled on interrupt. Safe for concurrent use
func Context() context.Context {
	once.Do(func() {
		ctx, cancel = context.WithCancel(context.Background())
		AddInterruptCancellation(ctx, cancel)
	})
	return ctx
}
