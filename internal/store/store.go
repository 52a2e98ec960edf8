package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fooddash/fooddash/internal/models"
	"github.com/fooddash/fooddash/internal/storage"
)

// Amounts are the order totals, precomputed by the cart before placement and
// frozen on the order afterwards.
type Amounts struct {
	Subtotal    float64
	DeliveryFee float64
	Tax         float64
	Total       float64
}

// ComputeAmounts applies the storefront pricing rules: flat delivery fee on
// any non-empty cart, percentage tax on the subtotal.
func ComputeAmounts(items []models.CartItem, deliveryFee, taxRate float64) Amounts {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	fee := 0.0
	if subtotal > 0 {
		fee = deliveryFee
	}
	tax := subtotal * taxRate
	return Amounts{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}
}

type PlaceOrderRequest struct {
	Items        []models.CartItem
	DeliveryInfo models.DeliveryInfo
	Restaurant   models.RestaurantInfo
	Amounts      Amounts
}

// OrderStore owns the order collection and the ID counter. It is constructed
// once and passed to consumers; all state lives behind its lock, and the full
// snapshot is persisted after every mutation.
type OrderStore struct {
	mu      sync.Mutex
	orders  []*models.Order
	index   map[int64]*models.Order
	counter int64
	subs    []func(Event)
	tasks   map[int64]*progressTask
	closed  bool
	wg      sync.WaitGroup

	st               storage.Store
	log              *zap.SugaredLogger
	now              func() time.Time
	progressInterval time.Duration
	deliveryEstimate time.Duration
}

// New restores the order collection and counter from durable storage. A
// snapshot that cannot be decoded is discarded and the store starts empty;
// any other storage failure is fatal.
func New(ctx context.Context, st storage.Store, cfg *models.Config, logger *zap.Logger) (*OrderStore, error) {
	log := logger.Sugar()

	snap, err := st.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptData) {
			return nil, fmt.Errorf("failed to load order snapshot: %w", err)
		}
		log.Warnw("discarding corrupt order snapshot, starting empty", "error", err)
		snap = &storage.Snapshot{}
	}

	counter := snap.Counter
	if counter < cfg.CounterSeed {
		counter = cfg.CounterSeed
	}

	s := &OrderStore{
		orders:           snap.Orders,
		index:            make(map[int64]*models.Order, len(snap.Orders)),
		counter:          counter,
		tasks:            make(map[int64]*progressTask),
		st:               st,
		log:              log,
		now:              time.Now,
		progressInterval: cfg.ProgressInterval,
		deliveryEstimate: cfg.DeliveryEstimate,
	}
	for _, order := range s.orders {
		s.index[order.ID] = order
		// A save torn between the two keys can leave the counter behind the
		// highest persisted ID; take the max so an ID is never reissued.
		if order.ID > s.counter {
			s.counter = order.ID
		}
	}

	log.Infow("order store restored", "orders", len(s.orders), "counter", s.counter)
	return s, nil
}

// PlaceOrder copies the cart, delivery info, restaurant snapshot and
// precomputed amounts into a new confirmed order, persists it and starts the
// order's auto-progression task. Returns the assigned ID.
func (s *OrderStore) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (int64, error) {
	if err := validatePlaceOrder(req); err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrStoreClosed
	}

	s.counter++
	now := s.now()
	order := &models.Order{
		ID:                s.counter,
		Status:            models.OrderStatusConfirmed,
		Items:             append([]models.CartItem(nil), req.Items...),
		DeliveryInfo:      req.DeliveryInfo,
		Restaurant:        req.Restaurant,
		Subtotal:          req.Amounts.Subtotal,
		DeliveryFee:       req.Amounts.DeliveryFee,
		Tax:               req.Amounts.Tax,
		Total:             req.Amounts.Total,
		OrderTime:         now,
		EstimatedDelivery: now.Add(s.deliveryEstimate),
		TrackingSteps:     models.NewTrackingSteps(now),
	}
	s.orders = append(s.orders, order)
	s.index[order.ID] = order

	if err := s.persistLocked(ctx); err != nil {
		s.orders = s.orders[:len(s.orders)-1]
		delete(s.index, order.ID)
		s.counter--
		s.mu.Unlock()
		return 0, err
	}

	ev := s.eventLocked(EventOrderPlaced, order, "", models.OrderStatusConfirmed)
	s.startProgressLocked(order.ID)
	s.mu.Unlock()

	s.emit(ev)
	s.log.Infow("order placed",
		"order_id", order.ID,
		"restaurant", order.Restaurant.Name,
		"total", order.Total,
	)
	return order.ID, nil
}

// GetOrder returns a snapshot of the order, or ErrOrderNotFound.
func (s *OrderStore) GetOrder(id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	return order.Clone(), nil
}

// GetAllOrders returns snapshots of every order, most recent first. Orders
// placed at the same instant keep their insertion order.
func (s *OrderStore) GetAllOrders() []*models.Order {
	s.mu.Lock()
	result := make([]*models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, order.Clone())
	}
	s.mu.Unlock()

	sortOrdersByTimeDesc(result)
	return result
}

// GetRestaurantOrders returns the dashboard view: all orders placed against
// one restaurant, most recent first.
func (s *OrderStore) GetRestaurantOrders(restaurantID string) []*models.Order {
	s.mu.Lock()
	var result []*models.Order
	for _, order := range s.orders {
		if order.Restaurant.ID == restaurantID {
			result = append(result, order.Clone())
		}
	}
	s.mu.Unlock()

	sortOrdersByTimeDesc(result)
	return result
}

// UpdateOrderStatus advances the order to newStatus. Only the next status in
// the fixed sequence is accepted; anything else, including updates to a
// cancelled or delivered order, fails with ErrInvalidTransition.
func (s *OrderStore) UpdateOrderStatus(ctx context.Context, id int64, newStatus string) error {
	s.mu.Lock()
	order, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	ev, err := s.advanceLocked(ctx, order, newStatus)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.emit(ev)
	return nil
}

// advanceLocked applies one forward status transition and persists it.
// Callers hold s.mu.
func (s *OrderStore) advanceLocked(ctx context.Context, order *models.Order, newStatus string) (Event, error) {
	if order.IsTerminal() {
		return Event{}, fmt.Errorf("%w: order %d is already %s", ErrInvalidTransition, order.ID, order.Status)
	}
	next := order.NextStatus()
	if newStatus != next {
		return Event{}, fmt.Errorf("%w: order %d is %s, next step is %q, got %q",
			ErrInvalidTransition, order.ID, order.Status, next, newStatus)
	}

	step := order.Step(newStatus)
	if step == nil {
		// Restored data can decode cleanly yet lack the step.
		return Event{}, fmt.Errorf("%w: order %d has no %q tracking step",
			ErrInvalidTransition, order.ID, newStatus)
	}
	prev := order.Status
	t := s.now()
	step.Completed = true
	step.Timestamp = &t
	order.Status = newStatus

	if err := s.persistLocked(ctx); err != nil {
		step.Completed = false
		step.Timestamp = nil
		order.Status = prev
		return Event{}, err
	}

	if order.IsTerminal() {
		s.stopProgressLocked(order.ID)
	}
	s.log.Infow("order status updated", "order_id", order.ID, "from", prev, "to", newStatus)
	return s.eventLocked(EventStatusUpdated, order, prev, newStatus), nil
}

// CancelOrder cancels an order still in confirmed or preparing, appending the
// synthetic cancelled step after the fixed sequence. The order's progression
// task is stopped so a pending tick can never resurrect it.
func (s *OrderStore) CancelOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	order, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if !order.CanCancel() {
		status := order.Status
		s.mu.Unlock()
		return fmt.Errorf("%w: order %d is %s, cancellation requires confirmed or preparing",
			ErrInvalidTransition, id, status)
	}

	prev := order.Status
	t := s.now()
	order.Status = models.OrderStatusCancelled
	order.TrackingSteps = append(order.TrackingSteps, models.TrackingStep{
		Status:    models.OrderStatusCancelled,
		Message:   models.StepMessages[models.OrderStatusCancelled],
		Timestamp: &t,
		Completed: true,
	})

	if err := s.persistLocked(ctx); err != nil {
		order.Status = prev
		order.TrackingSteps = order.TrackingSteps[:len(order.TrackingSteps)-1]
		s.mu.Unlock()
		return err
	}

	s.stopProgressLocked(id)
	ev := s.eventLocked(EventOrderCancelled, order, prev, models.OrderStatusCancelled)
	s.mu.Unlock()

	s.emit(ev)
	s.log.Infow("order cancelled", "order_id", id, "from", prev)
	return nil
}

// Close stops every progression task and waits for them to finish. The order
// collection stays readable.
func (s *OrderStore) Close() {
	s.mu.Lock()
	s.closed = true
	for id := range s.tasks {
		s.stopProgressLocked(id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *OrderStore) persistLocked(ctx context.Context) error {
	snap := &storage.Snapshot{Orders: s.orders, Counter: s.counter}
	if err := s.st.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to persist orders: %w", err)
	}
	return nil
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return &ValidationError{Field: "cart", Reason: "must contain at least one item"}
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "cart", Reason: fmt.Sprintf("item %q has non-positive quantity", item.Name)}
		}
	}
	if req.DeliveryInfo.Address == "" {
		return &ValidationError{Field: "delivery_info", Reason: "address is required"}
	}
	if req.DeliveryInfo.Name == "" {
		return &ValidationError{Field: "delivery_info", Reason: "name is required"}
	}
	if req.DeliveryInfo.Phone == "" {
		return &ValidationError{Field: "delivery_info", Reason: "phone is required"}
	}
	return nil
}

func sortOrdersByTimeDesc(orders []*models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderTime.After(orders[j].OrderTime)
	})
}
