package store

import "context"

// Notification is a dashboard notification for the merchant.
type Notification struct {
	ID        int32
	StoreID   int32
	Kind      string // order | review | stock | system
	Body      string
	Read      bool
	CreatedTs int64
}

// FindNotification filters for ListNotifications.
type FindNotification struct {
	StoreID *int32
	Read    *bool
}

// CreateNotification persists a new notification.
func (s *Store) CreateNotification(ctx context.Context, create *Notification) (*Notification, error) {
	return s.driver.CreateNotification(ctx, create)
}

// ListNotifications lists notifications matching the filter, newest first.
func (s *Store) ListNotifications(ctx context.Context, find *FindNotification) ([]*Notification, error) {
	return s.driver.ListNotifications(ctx, find)
}
