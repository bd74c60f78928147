package signal

import "errors"

var (
	// ErrThresholdExceeded is returned when a window count passes the configured threshold.
	ErrThresholdExceeded = errors.New("rejection threshold exceeded")
	// ErrRedisUnavailable wraps Redis transport or command failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
