package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Lines treats every line read from R as a complete new version of the program.
type Lines struct {
	R io.Reader
}

func (l *Lines) Run(ctx context.Context, h Handler) error {
	scanner := bufio.NewScanner(l.R)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		// handler errors belong to the program, not to the source
		_ = h(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read program lines: %w", err)
	}
	return nil
}
