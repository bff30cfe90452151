package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Connector owns the bounded startup retry loop for a store connection.
type Connector struct {
	Attempts int
	Interval time.Duration
	Logger   *logrus.Logger
}

// Connect calls dial until it succeeds, Attempts is exhausted or ctx ends.
// It returns the last dial error on failure.
func (c Connector) Connect(ctx context.Context, name string, dial func(context.Context) error) error {
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}
	attempt := 0
	op := func() error {
		attempt++
		err := dial(ctx)
		if err != nil && c.Logger != nil {
			c.Logger.WithFields(logrus.Fields{
				"store":    name,
				"attempt":  attempt,
				"attempts": attempts,
			}).WithError(err).Warn("store connection failed")
		}
		return err
	}
	// WithMaxRetries counts retries after the first try.
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.Interval), uint64(attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"store": name, "attempt": attempt}).Info("store connected")
	}
	return nil
}
