package goGuard

import (
	"errors"

	"github.com/MrEthical07/goGuard/internal/signal"
	"github.com/MrEthical07/goGuard/rules"
	"github.com/MrEthical07/goGuard/token"
)

var (
	// ErrUnknownRule is returned by Monitor.Validate for unregistered rule ids.
	// It marks a caller bug, never bad user input.
	ErrUnknownRule = rules.ErrUnknownRule
	// ErrEntropyUnavailable is returned by Monitor.GenerateToken when the system
	// random source cannot be read.
	ErrEntropyUnavailable = token.ErrEntropyUnavailable
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid goGuard config")
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrRedisRequired is returned when signals are enabled without a Redis client.
	ErrRedisRequired = errors.New("signals require a redis client")
	// ErrSignalsDisabled is returned by RejectionCount when signal tracking is off.
	ErrSignalsDisabled = errors.New("rejection signals disabled")
	// ErrRejectionBurst is reported to the logger when a signal window overflows.
	ErrRejectionBurst = signal.ErrThresholdExceeded
)
