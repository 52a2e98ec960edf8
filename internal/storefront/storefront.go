// Package storefront drives the order store the way the browser UI does:
// checkouts place orders, the tracking view polls one order, the restaurant
// dashboard polls the whole collection. It exists so the lifecycle can be
// watched end to end without any real frontend.
package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/fooddash/fooddash/internal/factories"
	"github.com/fooddash/fooddash/internal/models"
	"github.com/fooddash/fooddash/internal/store"
)

type Storefront struct {
	cfg   *models.Config
	store *store.OrderStore
	log   *zap.SugaredLogger
}

func New(cfg *models.Config, s *store.OrderStore, logger *zap.Logger) *Storefront {
	return &Storefront{
		cfg:   cfg,
		store: s,
		log:   logger.Sugar(),
	}
}

// Run places the configured number of demo orders and watches them until
// every one is terminal, then prints the dashboard summary.
func (sf *Storefront) Run(ctx context.Context) error {
	restaurantFactory := &factories.RestaurantFactory{}
	cartFactory := &factories.CartFactory{}
	deliveryFactory := &factories.DeliveryInfoFactory{}

	restaurants := make([]models.RestaurantInfo, sf.cfg.DemoRestaurants)
	for i := range restaurants {
		restaurants[i] = restaurantFactory.CreateRestaurant()
	}

	ids := make([]int64, 0, sf.cfg.DemoOrders)
	for i := 0; i < sf.cfg.DemoOrders; i++ {
		items := cartFactory.CreateItems(4)
		req := store.PlaceOrderRequest{
			Items:        items,
			DeliveryInfo: deliveryFactory.CreateDeliveryInfo(),
			Restaurant:   restaurants[i%len(restaurants)],
			Amounts:      store.ComputeAmounts(items, sf.cfg.DeliveryFee, sf.cfg.TaxRate),
		}
		id, err := sf.store.PlaceOrder(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to place demo order: %w", err)
		}
		ids = append(ids, id)

		if i == 0 {
			go sf.watchOrder(ctx, id)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sf.cfg.OrderSpacing):
		}
	}

	if err := sf.watchDashboard(ctx); err != nil {
		return err
	}
	sf.printSummary()
	return nil
}

// watchOrder mirrors the customer tracking view: poll one order on a fixed
// interval and report each status change.
func (sf *Storefront) watchOrder(ctx context.Context, id int64) {
	ticker := time.NewTicker(sf.cfg.TrackingPollInterval)
	defer ticker.Stop()

	lastStatus := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			order, err := sf.store.GetOrder(id)
			if err != nil {
				sf.log.Warnw("tracking poll failed", "order_id", id, "error", err)
				return
			}
			if order.Status != lastStatus {
				sf.log.Infow("tracking update", "order_id", id, "status", order.Status)
				lastStatus = order.Status
			}
			if order.IsTerminal() {
				return
			}
		}
	}
}

// watchDashboard mirrors the restaurant dashboard: poll the full collection
// until every order reaches a terminal status.
func (sf *Storefront) watchDashboard(ctx context.Context) error {
	total := sf.cfg.DemoOrders * len(models.StatusSequence)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("order progression"),
		progressbar.OptionShowCount(),
	)

	ticker := time.NewTicker(sf.cfg.DashboardPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			orders := sf.store.GetAllOrders()
			completed := 0
			remaining := 0
			for _, order := range orders {
				for _, step := range order.TrackingSteps {
					if step.Completed {
						completed++
					}
				}
				if !order.IsTerminal() {
					remaining++
				}
			}
			_ = bar.Set(completed)
			if remaining == 0 {
				fmt.Println()
				return nil
			}
		}
	}
}

func (sf *Storefront) printSummary() {
	orders := sf.store.GetAllOrders()
	counts := make(map[string]int)
	var revenue float64
	for _, order := range orders {
		counts[order.Status]++
		if order.Status == models.OrderStatusDelivered {
			revenue += order.Total
		}
	}
	sf.log.Infow("dashboard summary",
		"orders", len(orders),
		"delivered", counts[models.OrderStatusDelivered],
		"cancelled", counts[models.OrderStatusCancelled],
		"in_progress", len(orders)-counts[models.OrderStatusDelivered]-counts[models.OrderStatusCancelled],
		"revenue", revenue,
	)
}
