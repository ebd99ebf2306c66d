// Package delivery defines the contract every transport (HTTP, etc.) fulfils.
package delivery

import "context"

// Delivery is a long-running transport that serves requests until the
// context is cancelled or the process shuts down.
type Delivery interface {
	Serve(ctx context.Context) error
}
