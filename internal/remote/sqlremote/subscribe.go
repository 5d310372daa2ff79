package sqlremote

import (
	"context"
	"sync"

	"github.com/dori/duotask/internal/model"
)

// subscription is one live query. dirty holds at most one pending
// refresh, so bursts of writes coalesce into a single snapshot.
type subscription struct {
	userID string
	dirty  chan struct{}
}

func (s *subscription) mark() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// SubscribeToTasks implements remote.Store
func (d *DB) SubscribeToTasks(userID string, onUpdate func([]model.Task), onError func(error)) func() {
	return d.subscribe(userID, func(ctx context.Context) (func(), error) {
		tasks, err := d.Tasks(ctx, userID)
		if err != nil {
			return nil, err
		}
		return func() { onUpdate(tasks) }, nil
	}, onError)
}

// SubscribeToTags implements remote.Store
func (d *DB) SubscribeToTags(userID string, onUpdate func([]model.Tag), onError func(error)) func() {
	return d.subscribe(userID, func(ctx context.Context) (func(), error) {
		tags, err := d.Tags(ctx, userID)
		if err != nil {
			return nil, err
		}
		return func() { onUpdate(tags) }, nil
	}, onError)
}

// subscribe runs query once now and again whenever the user's rows change
func (d *DB) subscribe(userID string, query func(context.Context) (func(), error), onError func(error)) func() {
	ctx, cancel := context.WithCancel(d.ctx)
	sub := &subscription{userID: userID, dirty: make(chan struct{}, 1)}
	sub.mark()

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subs[id] = sub
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.dirty:
			}

			deliver, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				d.logger.Printf("sqlremote: snapshot for %s failed: %v", userID, err)
				if onError != nil {
					onError(err)
				}
				continue
			}
			deliver()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
		})
	}
}

// markDirty schedules a snapshot for every subscription of the user
func (d *DB) markDirty(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.subs {
		if sub.userID == userID {
			sub.mark()
		}
	}
}

// markAllDirty schedules a snapshot for every subscription
func (d *DB) markAllDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.subs {
		sub.mark()
	}
}
