package store

import (
	"context"
	"sync"
	"time"
)

// progressTask is the per-order stand-in for a kitchen and dispatch backend.
// Each placed order gets its own ticker that advances the order one step per
// tick; the task stops itself once the order is terminal, so a cancelled
// order is never pushed back into the progression.
type progressTask struct {
	orderID  int64
	quit     chan struct{}
	stopOnce sync.Once
}

func (t *progressTask) stop() {
	t.stopOnce.Do(func() { close(t.quit) })
}

// startProgressLocked registers and launches the auto-progression task for an
// order. Callers hold s.mu.
func (s *OrderStore) startProgressLocked(orderID int64) {
	task := &progressTask{
		orderID: orderID,
		quit:    make(chan struct{}),
	}
	s.tasks[orderID] = task
	s.wg.Add(1)
	go s.runProgress(task)
}

// stopProgressLocked signals an order's task to stop, if one is still
// running. Callers hold s.mu.
func (s *OrderStore) stopProgressLocked(orderID int64) {
	if task, ok := s.tasks[orderID]; ok {
		task.stop()
		delete(s.tasks, orderID)
	}
}

func (s *OrderStore) runProgress(task *progressTask) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-task.quit:
			return
		case <-ticker.C:
			terminal, err := s.tickOrder(task.orderID)
			if err != nil {
				s.log.Warnw("auto-progression tick failed", "order_id", task.orderID, "error", err)
				continue
			}
			if terminal {
				return
			}
		}
	}
}

// tickOrder advances the order one step. It reports terminal=true when there
// is nothing left to do, either because the order finished or because it was
// cancelled (or removed) between ticks.
func (s *OrderStore) tickOrder(orderID int64) (terminal bool, err error) {
	s.mu.Lock()
	order, ok := s.index[orderID]
	if !ok || order.IsTerminal() {
		s.stopProgressLocked(orderID)
		s.mu.Unlock()
		return true, nil
	}

	next := order.NextStatus()
	ev, err := s.advanceLocked(context.Background(), order, next)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	terminal = order.IsTerminal()
	s.mu.Unlock()

	s.emit(ev)
	return terminal, nil
}
