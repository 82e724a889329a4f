// Package gateway is the boundary between the orchestration core and the model endpoint.
package gateway

import "context"

// Gateway sends one request to the model and returns the raw reply text.
// Failures are *TransientError or *FatalError. A cancelled caller context is returned as ctx.Err().
type Gateway interface {
	Send(ctx context.Context, req Request) (RawReply, error)
}
