// Package cache provides a small generic LRU with TTL, used by the HTTP
// layer to avoid re-rendering group views between ledger changes.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}
