package resilience

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Group coalesces concurrent loads of the same key into one call whose
// result, value or error, is handed to every waiter.
type Group[T any] struct {
	g singleflight.Group
}

// Do runs fn once per key at a time. The shared call runs detached from the
// caller's cancellation so one impatient caller cannot fail the others; a caller
// whose ctx ends stops waiting and gets ctx.Err().
func (g *Group[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	detached := context.WithoutCancel(ctx)
	ch := g.g.DoChan(key, func() (out any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("singleflight %q panicked: %v", key, r)
			}
		}()
		return fn(detached)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		value, ok := res.Val.(T)
		if !ok && res.Val != nil {
			return zero, res.Shared, fmt.Errorf("singleflight %q: unexpected value type %T", key, res.Val)
		}
		return value, res.Shared, nil
	}
}

// Forget drops an in-flight key so the next caller starts a fresh call.
func (g *Group[T]) Forget(key string) {
	g.g.Forget(key)
}
