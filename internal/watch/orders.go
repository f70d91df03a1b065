package watch

import (
	"context"
	"fmt"
	"log"

	"github.com/exfador/starvell-monitor/internal/starvell"
)

// OrderWatcher polls the sell-side order list and runs two independent checks
// per cycle: first appearance of a CREATED order, and any status transition
// with COMPLETED being the one worth a notification.
type OrderWatcher struct {
	Source OrderSource
	Ledger Ledger
	Notify Notifier

	// Debug turns on per-cycle detail logging.
	Debug bool
}

func (w *OrderWatcher) Check(ctx context.Context, creds starvell.Credentials) error {
	orders, err := w.Source.FetchSells(ctx, creds)
	if err != nil {
		return fmt.Errorf("fetch sells: %v", err)
	}
	if w.Debug {
		log.Printf("order cycle: %d orders fetched", len(orders))
	}

	w.checkNew(orders)
	w.checkTransitions(orders)
	return nil
}

func (w *OrderWatcher) checkNew(orders []starvell.Order) {
	for _, order := range orders {
		if order.ID.Empty() || order.Status != starvell.OrderCreated {
			continue
		}
		orderID := order.ID.String()

		notified, err := w.Ledger.IsOrderNotified(orderID)
		if err != nil {
			log.Printf("order %s: notified-flag read failed: %v", orderID, err)
			continue
		}
		if notified {
			continue
		}
		if err := w.Notify.NotifyNewOrder(order); err != nil {
			log.Printf("order %s: new-order notify failed: %v", orderID, err)
			continue
		}
		// One-way flag, set only after the dispatch went out.
		if err := w.Ledger.MarkOrderNotified(orderID); err != nil {
			log.Printf("order %s: LEDGER WRITE FAILED after notifying, duplicates expected: %v", orderID, err)
		}
	}
}

func (w *OrderWatcher) checkTransitions(orders []starvell.Order) {
	for _, order := range orders {
		if order.ID.Empty() || order.Status == "" {
			continue
		}
		orderID := order.ID.String()

		prev, ok, err := w.Ledger.GetOrderStatus(orderID)
		if err != nil {
			log.Printf("order %s: status read failed: %v", orderID, err)
			continue
		}
		if !ok {
			// First sight records the status silently, even if the order is
			// already COMPLETED: only prospective transitions notify.
			if err := w.Ledger.SetOrderStatus(orderID, order.Status); err != nil {
				log.Printf("order %s: LEDGER WRITE FAILED, first-sight status not recorded: %v", orderID, err)
			}
			continue
		}
		if prev == order.Status {
			continue
		}

		if order.Status == starvell.OrderCompleted {
			if err := w.Notify.NotifyOrderCompleted(order); err != nil {
				// Leave the recorded status alone so the transition fires
				// again next cycle.
				log.Printf("order %s: completed notify failed: %v", orderID, err)
				continue
			}
		}
		if err := w.Ledger.SetOrderStatus(orderID, order.Status); err != nil {
			log.Printf("order %s: LEDGER WRITE FAILED after status change, duplicates expected: %v", orderID, err)
		}
	}
}
