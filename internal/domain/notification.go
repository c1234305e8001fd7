package domain

import "context"

// NotificationService defines the interface for notification services
type NotificationService interface {
	// SendRefreshFailed reports that a live catalog started failing to refresh
	SendRefreshFailed(ctx context.Context, status RefreshStatus) error

	// SendRefreshRecovered reports that a failing live catalog refreshed again
	SendRefreshRecovered(ctx context.Context, status RefreshStatus) error
}

// RefreshStatus describes the outcome of a live catalog refresh.
type RefreshStatus struct {
	Source      string
	URL         string
	Items       int
	ServedItems int
	Err         error
}
