package services

import (
	"sync"

	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/logger"
	"github.com/velocart/velocart/pkg/workerpool"
)

// BoardUpdate is one push to a rider's delivery board.
type BoardUpdate struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
}

// DeliveryBoard fans order status changes out to connected rider clients
// over SSE. Subscribers register per rider; broadcasts run on a bounded
// worker pool so a slow consumer cannot pile up goroutines.
type DeliveryBoard struct {
	mu   sync.Mutex
	subs map[uint]map[chan BoardUpdate]struct{} // rider ID → subscriber channels
	pool *workerpool.Pool
}

// NewDeliveryBoard creates the board and hooks it onto the event bus.
func NewDeliveryBoard(bus *event.Bus) *DeliveryBoard {
	b := &DeliveryBoard{
		subs: map[uint]map[chan BoardUpdate]struct{}{},
		pool: workerpool.New(32),
	}

	bus.Listen(EventOrderStatusChanged, func(payload interface{}) {
		change, ok := payload.(OrderStatusChanged)
		if !ok || change.RiderID == nil {
			return
		}
		b.publish(*change.RiderID, BoardUpdate{
			OrderID: change.Order.ID,
			Status:  change.Order.Status,
			Total:   change.Order.Total,
		})
	})

	return b
}

// Subscribe registers a rider client. The returned cancel func must be
// called when the client disconnects.
func (b *DeliveryBoard) Subscribe(riderID uint) (<-chan BoardUpdate, func()) {
	ch := make(chan BoardUpdate, 16)

	b.mu.Lock()
	if b.subs[riderID] == nil {
		b.subs[riderID] = map[chan BoardUpdate]struct{}{}
	}
	b.subs[riderID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[riderID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, riderID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Close shuts down the broadcast pool.
func (b *DeliveryBoard) Close() {
	b.pool.Shutdown()
}

func (b *DeliveryBoard) publish(riderID uint, update BoardUpdate) {
	b.mu.Lock()
	targets := make([]chan BoardUpdate, 0, len(b.subs[riderID]))
	for ch := range b.subs[riderID] {
		targets = append(targets, ch)
	}
	b.mu.Unlock()

	for _, ch := range targets {
		ch := ch
		err := b.pool.Submit(func() {
			// Drop rather than block: the next update supersedes this one.
			select {
			case ch <- update:
			default:
			}
		})
		if err != nil {
			logger.Warn("delivery board: broadcast dropped", "rider_id", riderID, "error", err)
		}
	}
}
