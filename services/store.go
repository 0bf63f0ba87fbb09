package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vnkhanh/sloka-backend/apperr"
)

// DefaultQueryTimeout bounds a single store operation when none is configured.
const DefaultQueryTimeout = 5 * time.Second

type storeOptions struct {
	timeout time.Duration
}

type StoreOption func(*storeOptions)

// WithQueryTimeout sets the deadline for each store operation. Non-positive
// values keep DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{timeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// storeErr annotates err with op. An expired deadline becomes a Timeout.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	err = fmt.Errorf("%s: %w", op, err)
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, "The database did not respond in time. Please try again.", err)
	}
	return err
}
