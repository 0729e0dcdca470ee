package ports

import "context"

// Locker provides mutual exclusion scoped to a single key. Lock blocks until
// the key is free or ctx is done; the returned func releases the key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
