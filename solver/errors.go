package solver

import (
	"fmt"

	"q.log/qpsimplex/model"
)

var (
	// ErrInvalidConfig reports a rejected Config field.
	ErrInvalidConfig = fmt.Errorf("%w: invalid solver config", model.ErrConfiguration)

	// ErrSingularSystem reports a singular or ill-conditioned KKT system.
	ErrSingularSystem = fmt.Errorf("%w: singular KKT system", model.ErrNumerical)

	// ErrLineSearch reports a backtracking search that found no acceptable
	// step, or a direction along which f does not decrease.
	ErrLineSearch = fmt.Errorf("%w: line search failed", model.ErrNumerical)

	// ErrUnboundedStep reports a direction with no curvature and no
	// blocking bound.
	ErrUnboundedStep = fmt.Errorf("%w: unbounded step", model.ErrNumerical)
)
