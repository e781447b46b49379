package effects

import "fmt"

// CompileError reports an unknown command word. Token is the first word of the
// whole program, which is what the sandbox has always printed; Offending and
// Index point at the word that actually failed.
type CompileError struct {
	Token     string
	Offending string
	Index     int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile program: %s", e.Token)
}

// InitializationError means the graphics context or its resources could not be
// acquired. Nothing else should be attempted after one.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize graphics: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
