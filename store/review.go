package store

import "context"

// Review statuses.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review is a product review awaiting or past moderation.
type Review struct {
	ID         int32
	StoreID    int32
	ProductID  int32
	CustomerID int32
	Rating     int32 // 1..5
	Status     string
	Body       string
	CreatedTs  int64
}

// FindReview filters for ListReviews.
type FindReview struct {
	StoreID   *int32
	ID        *int32
	ProductID *int32
	Status    *string
}

// UpdateReview carries the mutable fields; nil means unchanged.
type UpdateReview struct {
	ID      int32
	StoreID int32
	Status  *string
}

// CreateReview persists a new review.
func (s *Store) CreateReview(ctx context.Context, create *Review) (*Review, error) {
	return s.driver.CreateReview(ctx, create)
}

// UpdateReview updates a review's moderation status.
func (s *Store) UpdateReview(ctx context.Context, update *UpdateReview) (*Review, error) {
	return s.driver.UpdateReview(ctx, update)
}

// ListReviews lists reviews matching the filter.
func (s *Store) ListReviews(ctx context.Context, find *FindReview) ([]*Review, error) {
	return s.driver.ListReviews(ctx, find)
}
