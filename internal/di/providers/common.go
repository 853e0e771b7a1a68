package providers

import (
	"context"
	"time"
)

// shutdownTimeout bounds how long one handle may take to drain: the HTTP
// server finishing requests, or the SSE manager closing client streams.
const shutdownTimeout = 30 * time.Second

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}
