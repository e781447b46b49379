// Package source delivers program text to the sandbox. A Source calls its
// handler with the full current program every time the program changes.
package source

import "context"

// Handler evaluates one version of the program. The error it returns is
// reported by sources that have somewhere to show it.
type Handler func(program string) error

// Source is an external editor of the program text.
type Source interface {
	// Run blocks, calling h on every change, until ctx is done or the
	// source is exhausted.
	Run(ctx context.Context, h Handler) error
}
