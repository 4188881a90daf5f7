// Package store is the shared remote collection store the sync engines run
// against. A store keeps named collections of JSON records, each record under
// a slot key the store assigns on append, and pushes the full collection to
// every subscriber after each change. The store is the single source of
// truth; nothing else holds authoritative state.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable wraps any backend read/write/subscribe failure. Callers
// surface it once and do not retry.
var ErrUnavailable = errors.New("store unavailable")

// Snapshot is the full current value of a collection: slot key to raw
// record. Snapshots are complete replacements, never deltas.
type Snapshot map[string]json.RawMessage

// Store is the contract every backend implements.
//
// Subscribe fires the callback immediately with the current snapshot and
// again after every change to the collection. Callbacks for one collection
// are delivered serially. Cancelling the returned subscription is idempotent,
// stops further deliveries, and leaves other subscribers untouched.
type Store interface {
	ReadAll(ctx context.Context, collection string) (Snapshot, error)
	WriteAll(ctx context.Context, collection string, snap Snapshot) error
	Append(ctx context.Context, collection string, record any) error
	Subscribe(collection string, fn func(Snapshot)) (*Subscription, error)
}

// Clone returns an independent copy of the snapshot so a subscriber can
// mutate what it received without racing other subscribers.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
