package nbody

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrShapeMismatch indicates parallel scene arrays with different row counts.
	ErrShapeMismatch = errors.New("nbody: mismatched array lengths in scene")

	// ErrInvalidValue indicates a scene value outside its valid range (NaN, Inf, mass <= 0, radius < 0).
	ErrInvalidValue = errors.New("nbody: invalid scene value")

	// ErrEmptyScene indicates a scene with neither bodies nor particles.
	ErrEmptyScene = errors.New("nbody: scene has no bodies or particles")

	// ErrParameterBounds indicates a runtime parameter outside its valid range.
	ErrParameterBounds = errors.New("nbody: parameter out of valid bounds")

	// ErrUnstable indicates the committed state contains NaN or Inf.
	ErrUnstable = errors.New("nbody: simulation unstable (non-finite state)")
)

// ConfigError wraps a scene validation error with the offending location.
type ConfigError struct {
	Group   string // "bodies" or "particles"
	Field   string
	Index   int // -1 when the error concerns a whole array
	Wrapped error
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s.%s: %v", e.Group, e.Field, e.Wrapped)
	}
	return fmt.Sprintf("%s.%s[%d]: %v", e.Group, e.Field, e.Index, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// StepError wraps a tick failure with simulation context.
type StepError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
