package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext returns a background context bounded by timeout. Tests set
// CONTEXT_TEST to opt out of the deadline.
func NewContext(timeout time.Duration) context.Context {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.Background()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
