package ports

import "context"

// ReplayGuard deduplicates webhook deliveries. FirstDelivery returns true the
// first time a delivery id is seen within the guard's retention window.
type ReplayGuard interface {
	FirstDelivery(ctx context.Context, deliveryID string) (bool, error)
}
