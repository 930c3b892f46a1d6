package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReopenStaleAssignmentsCommandIsNotConstructed = errors.New(
	"ReopenStaleAssignmentsCommand must be created via NewReopenStaleAssignmentsCommand constructor",
)

const defaultStaleBatchSize = 100

// ReopenStaleAssignmentsCommand reopens deliveries left ASSIGNED without acceptance
// for longer than timeout. It is issued by the scheduler.
type ReopenStaleAssignmentsCommand struct {
	timeout   time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

// NewReopenStaleAssignmentsCommand uses a batch of 100 when batchSize is not positive.
func NewReopenStaleAssignmentsCommand(timeout time.Duration, batchSize int) (ReopenStaleAssignmentsCommand, error) {
	if timeout <= 0 {
		return ReopenStaleAssignmentsCommand{}, errs.NewValueIsOutOfRangeError("timeout", timeout, "1ns", "unbounded")
	}
	if batchSize <= 0 {
		batchSize = defaultStaleBatchSize
	}
	return ReopenStaleAssignmentsCommand{
		timeout:   timeout,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReopenStaleAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrReopenStaleAssignmentsCommandIsNotConstructed)
}

func (c ReopenStaleAssignmentsCommand) Timeout() time.Duration { return c.timeout }
func (c ReopenStaleAssignmentsCommand) BatchSize() int         { return c.batchSize }
