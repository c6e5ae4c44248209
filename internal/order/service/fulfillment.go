package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridloal/e-commerce-storefront/internal/order/domain"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

// FulfillmentJob completes processing orders once they are older than a
// configured age. Orders never change status unless it is started.
type FulfillmentJob struct {
	store     OrderStore
	clock     clock.Clock
	after     time.Duration
	scheduler *cron.Cron
}

func NewFulfillmentJob(store OrderStore, clk clock.Clock, after time.Duration) *FulfillmentJob {
	return &FulfillmentJob{store: store, clock: clk, after: after}
}

// Start schedules the job with a standard cron spec or descriptor such as "@every 1m".
func (j *FulfillmentJob) Start(spec string) error {
	j.scheduler = cron.New()
	if _, err := j.scheduler.AddFunc(spec, func() {
		j.ProcessStaleOrders(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid fulfillment schedule %q: %w", spec, err)
	}
	j.scheduler.Start()
	logger.Info("Fulfillment scheduler initialized with spec '%s' completing orders after %v", spec, j.after)
	return nil
}

// Stop waits for a running pass to finish.
func (j *FulfillmentJob) Stop() {
	if j.scheduler != nil {
		<-j.scheduler.Stop().Done()
	}
}

// ProcessStaleOrders marks processing orders older than the configured age
// as completed and returns how many it updated.
func (j *FulfillmentJob) ProcessStaleOrders(ctx context.Context) int {
	cutoff := j.clock.Now().Add(-j.after)
	updated := 0
	for _, o := range j.store.Orders() {
		if o.Status != domain.StatusProcessing || o.CreatedAt.After(cutoff) {
			continue
		}
		if err := j.store.UpdateStatus(ctx, o.ID, domain.StatusCompleted); err != nil {
			logger.Error("ProcessStaleOrders: failed to complete order %s", err, o.ID)
			continue
		}
		updated++
	}
	if updated > 0 {
		logger.Info("ProcessStaleOrders: completed %d orders", updated)
	}
	return updated
}
