package applications

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// sagaStep is one stage of a multi-write sequence that has no
// surrounding transaction. Rollback is the compensating action undoing
// run's effect; it is nil for steps that need no compensation.
type sagaStep struct {
	name     string
	run      func(ctx context.Context) error
	rollback func(ctx context.Context) error
}

type saga struct {
	steps  []sagaStep
	logger *zap.Logger
}

// execute runs the steps in order. On a step failure it runs the
// rollbacks of every previously completed step in reverse order, then
// returns the original failure wrapped with the failing step's name.
// Rollback failures are logged and do not mask the original error.
func (s saga) execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.run(ctx); err != nil {
			s.compensate(ctx, i-1)
			return fmt.Errorf("step %s: %w", step.name, err)
		}
	}
	return nil
}

func (s saga) compensate(ctx context.Context, from int) {
	for i := from; i >= 0; i-- {
		step := s.steps[i]
		if step.rollback == nil {
			continue
		}
		if err := step.rollback(ctx); err != nil {
			s.logger.Error("saga rollback failed",
				zap.String("step", step.name),
				zap.Error(err))
		}
	}
}
