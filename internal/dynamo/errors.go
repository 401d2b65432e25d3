package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a node position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates a SetParam call with an unsupported name.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrUnknownVariant indicates a variant or topology name that is not registered.
	ErrUnknownVariant = errors.New("dynamo: unknown variant")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick    int
	Node    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d node %d: %v", e.Tick, e.Node, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// BoundsError reports which parameter was rejected and why.
func BoundsError(name string, value float64, rule string) error {
	return fmt.Errorf("%w: %s=%g (%s)", ErrParameterBounds, name, value, rule)
}
