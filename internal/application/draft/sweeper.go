package draft

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper algo que expira borradores abandonados.
type Sweeper interface {
	Sweep() int
}

// RunSweeper ejecuta Sweep en cada store cada interval hasta que ctx se cancele.
func RunSweeper(ctx context.Context, interval time.Duration, log zerolog.Logger, stores ...Sweeper) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, s := range stores {
				removed += s.Sweep()
			}
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("borradores expirados eliminados")
			}
		}
	}
}
