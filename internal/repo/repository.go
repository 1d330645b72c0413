package repo

import "context"

// TimelineStore is the key/value port the history engine persists through.
// Get reports ok=false when the key has never been written.
type TimelineStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}
