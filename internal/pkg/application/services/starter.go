package services

import "context"

// Starter is the contract for long running ingest services. The returned
// channel receives a single value when the service has stopped.
type Starter interface {
	Start(ctx context.Context) (done chan struct{}, err error)
}
