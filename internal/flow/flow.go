// Package flow runs named orchestration steps in order. A failed step
// aborts the run and the returned error is tagged with the step it failed
// at, so callers and logs can tell "identity failed" from "insert failed".
package flow

import (
	"context"

	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/logger"
)

type Step struct {
	Name    string
	Execute func(ctx context.Context) error
}

func NewStep(name string, execute func(ctx context.Context) error) Step {
	return Step{
		Name:    name,
		Execute: execute,
	}
}

// Run executes steps sequentially, logging each boundary. The error of a
// failed step comes back as an AppError with a "failed_step" detail.
func Run(ctx context.Context, log *logger.Logger, flowName string, steps []Step) error {
	for _, step := range steps {
		log.Debug("Flow step starting", "flow", flowName, "step", step.Name)
		if err := step.Execute(ctx); err != nil {
			log.Warn("Flow step failed",
				"flow", flowName,
				"step", step.Name,
				"error", err,
			)
			return apperrors.AsAppError(err).WithDetail("failed_step", step.Name)
		}
		log.Debug("Flow step completed", "flow", flowName, "step", step.Name)
	}
	return nil
}
