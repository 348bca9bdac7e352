package application

import (
	"context"
	"time"

	"raffle/service"

	log "github.com/sirupsen/logrus"
)

// DrawResolver is the part of the draw service the worker drives
type DrawResolver interface {
	ResolveDueDraws(ctx context.Context) (*service.BatchResolution, error)
	GetNextDrawTime(ctx context.Context) (*time.Time, error)
}

// DrawResolutionWorker resolves draws as their draw time passes
type DrawResolutionWorker struct {
	resolver    DrawResolver
	idleBackoff time.Duration
	retryDelay  time.Duration
}

// NewDrawResolutionWorker creates a worker that rechecks every idleBackoff when nothing is scheduled
// and waits retryDelay before retrying draws that are overdue or failed to resolve.
func NewDrawResolutionWorker(resolver DrawResolver, idleBackoff, retryDelay time.Duration) *DrawResolutionWorker {
	if idleBackoff <= 0 {
		idleBackoff = time.Hour
	}
	if retryDelay <= 0 {
		retryDelay = 30 * time.Second
	}
	if retryDelay > idleBackoff {
		retryDelay = idleBackoff
	}
	return &DrawResolutionWorker{
		resolver:    resolver,
		idleBackoff: idleBackoff,
		retryDelay:  retryDelay,
	}
}

// Start begins the worker loop and returns a function that stops it
func (w *DrawResolutionWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Draw resolution worker started")

		for {
			failed := w.resolveDue(ctx)

			wait := w.idleBackoff
			nextDrawTime, err := w.resolver.GetNextDrawTime(ctx)
			switch {
			case err != nil:
				log.Errorf("Failed to get next draw time: %v", err)
			case nextDrawTime == nil:
				log.Infof("No pending draws, checking again in %v", w.idleBackoff)
			default:
				wait = time.Until(*nextDrawTime)
				if wait > w.idleBackoff {
					// draws created after this point are picked up on the next wake
					wait = w.idleBackoff
				}
			}

			// a draw that is still overdue after a pass was not resolved by it
			if failed || wait <= 0 {
				wait = w.retryDelay
				log.Warnf("Unresolved due draws remain, retrying in %v", wait)
			} else if nextDrawTime != nil && err == nil {
				log.Infof("Next draw at %v (in %v)", nextDrawTime.UTC(), wait)
			}

			select {
			case <-ctx.Done():
				log.Info("Draw resolution worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Draw resolution worker shutting down (stop requested)...")
				return
			case <-time.After(wait):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// resolveDue runs one resolution pass and reports whether anything failed
func (w *DrawResolutionWorker) resolveDue(ctx context.Context) bool {
	batch, err := w.resolver.ResolveDueDraws(ctx)
	if err != nil {
		log.Errorf("Error resolving due draws: %v", err)
		return true
	}
	if batch.Failed > 0 {
		log.WithField("failed", batch.Failed).Warn("Some due draws could not be resolved")
		return true
	}
	return false
}
