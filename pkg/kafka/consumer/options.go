package consumer

import "time"

type Option func(*Consumer)

func ConnAttempts(attempts int) Option {
	return func(c *Consumer) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *Consumer) {
		c.connTimeout = timeout
	}
}

func MaxWait(wait time.Duration) Option {
	return func(c *Consumer) {
		c.maxWait = wait
	}
}

// StartOffset applies when the group has no committed offset yet:
// kafka.FirstOffset (default) or kafka.LastOffset.
func StartOffset(offset int64) Option {
	return func(c *Consumer) {
		c.startOffset = offset
	}
}
