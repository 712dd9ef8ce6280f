package kunci

import "context"

type heldKeysCtxKey struct{}

// withHeldKey annotates ctx with a lock key held by the current logical
// caller. The set is copied so sibling goroutines sharing a parent context
// never observe each other's holdings.
func withHeldKey(ctx context.Context, key string) context.Context {
	held := make(map[string]struct{})
	if prev, ok := ctx.Value(heldKeysCtxKey{}).(map[string]struct{}); ok {
		for k := range prev {
			held[k] = struct{}{}
		}
	}
	held[key] = struct{}{}

	return context.WithValue(ctx, heldKeysCtxKey{}, held)
}

func holdsKey(ctx context.Context, key string) bool {
	held, ok := ctx.Value(heldKeysCtxKey{}).(map[string]struct{})
	if !ok {
		return false
	}

	_, ok = held[key]
	return ok
}
