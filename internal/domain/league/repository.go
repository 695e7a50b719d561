package league

import "context"

// Repository describes league persistence needs from use cases.
//
// Create must assign the ID and persist the record as one atomic step:
// concurrent callers never observe the same ID and no append is lost.
type Repository interface {
	Create(ctx context.Context, l League) (League, error)
	List(ctx context.Context) ([]League, error)
}
