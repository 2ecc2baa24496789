package planner

import "errors"

var (
	// ErrEmptyPool is returned when no food at all can fill a meal.
	ErrEmptyPool = errors.New("food pool has no usable candidates")
	// ErrInvalidTarget is returned for non-positive targets or meal counts.
	ErrInvalidTarget = errors.New("invalid nutrition target")
	// ErrUnknownGoal is returned for a goal outside lean, diet, bulk and maintain.
	ErrUnknownGoal = errors.New("unknown goal")
	// ErrInfeasible is returned by a Solver when no point satisfies the constraints.
	ErrInfeasible = errors.New("linear program is infeasible")
)
