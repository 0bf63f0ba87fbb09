package utils

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vnkhanh/sloka-backend/logger"
)

// Pruner drops entries older than a cutoff and reports how many went.
type Pruner interface {
	Prune(maxAge time.Duration) int
}

// StartCleanupJob prunes sessions older than maxAge on the given cron spec.
// The returned cron must be stopped on shutdown.
func StartCleanupJob(spec string, p Pruner, maxAge time.Duration, log *logger.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := p.Prune(maxAge); n > 0 {
			log.Info("pruned stale sessions", "removed", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info("session cleanup job started", "spec", spec, "max_age", maxAge.String())
	return c, nil
}
