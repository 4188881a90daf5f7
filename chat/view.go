package chat

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"teamsync/models"
	"teamsync/store"
	"teamsync/utils"
)

// View is a live, ordered rendering of one channel. Each value on C is the
// complete channel contents, ascending by timestamp; it replaces whatever
// the consumer held before. C has latest-wins semantics: if the consumer is
// slow, stale batches are dropped and only the newest is kept.
type View[M any] struct {
	C    chan []M
	sub  *store.Subscription
	once sync.Once
}

// Close unsubscribes and then closes C. Idempotent; after it returns nothing
// more is emitted. Other views on the same channel are unaffected.
func (v *View[M]) Close() {
	v.once.Do(func() {
		v.sub.Cancel()
		// no producer can run past Cancel; discard any batch still buffered
		select {
		case <-v.C:
		default:
		}
		close(v.C)
	})
}

func observe[M any](st store.Store, collection string, timestampOf func(M) string) (*View[M], error) {
	view := &View[M]{C: make(chan []M, 1)}

	sub, err := st.Subscribe(collection, func(snap store.Snapshot) {
		batch := decodeSorted(snap, timestampOf)
		for {
			select {
			case view.C <- batch:
				return
			default:
				// full: drop the stale batch and retry
				select {
				case <-view.C:
				default:
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	view.sub = sub
	return view, nil
}

// decodeSorted turns a snapshot into an ascending timeline. The store
// delivers unordered maps and gives no cross-writer ordering, so every batch
// is re-sorted here; slot keys are time-ordered per writer and break ties.
func decodeSorted[M any](snap store.Snapshot, timestampOf func(M) string) []M {
	type entry struct {
		key string
		msg M
	}
	entries := make([]entry, 0, len(snap))
	for key, raw := range snap {
		var msg M
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Skipping undecodable message %s: %v", key, err)
			continue
		}
		entries = append(entries, entry{key, msg})
	}

	sort.Slice(entries, func(i, j int) bool {
		ti := utils.ParseTimestamp(timestampOf(entries[i].msg))
		tj := utils.ParseTimestamp(timestampOf(entries[j].msg))
		if ti.Equal(tj) {
			return entries[i].key < entries[j].key
		}
		return ti.Before(tj)
	})

	batch := make([]M, len(entries))
	for i, e := range entries {
		batch[i] = e.msg
	}
	return batch
}

func decodeMembers(snap store.Snapshot) []models.Member {
	members := make([]models.Member, 0, len(snap))
	for key, raw := range snap {
		var member models.Member
		if err := json.Unmarshal(raw, &member); err != nil {
			log.Printf("Skipping undecodable roster record %s: %v", key, err)
			continue
		}
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})
	return members
}
