package sim

import "fmt"

// ConfigError reports an invalid simulation parameter. It is returned
// eagerly from validation, before any random draw happens.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s %s", e.Field, e.Reason)
}

// ComputationError reports numerical degeneracy detected during a
// scenario run or metric reduction. A scenario that produced one never
// returns partial results.
type ComputationError struct {
	Stage  string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed during %s: %s", e.Stage, e.Reason)
}
