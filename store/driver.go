package store

import "context"

// Driver is the set of persistence operations a dialect must implement.
type Driver interface {
	EnsureTables(ctx context.Context) error
	Close() error

	// Products.
	CreateProduct(ctx context.Context, create *Product) (*Product, error)
	UpdateProduct(ctx context.Context, update *UpdateProduct) (*Product, error)
	ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error)
	GetProduct(ctx context.Context, find *FindProduct) (*Product, error)
	DeleteProducts(ctx context.Context, storeID int32, ids []int32) (int64, error)

	// Orders.
	CreateOrder(ctx context.Context, create *Order) (*Order, error)
	UpdateOrder(ctx context.Context, update *UpdateOrder) (*Order, error)
	ListOrders(ctx context.Context, find *FindOrder) ([]*Order, error)
	GetOrder(ctx context.Context, find *FindOrder) (*Order, error)

	// Customers.
	CreateCustomer(ctx context.Context, create *Customer) (*Customer, error)
	ListCustomers(ctx context.Context, find *FindCustomer) ([]*Customer, error)
	GetCustomer(ctx context.Context, find *FindCustomer) (*Customer, error)

	// Coupons.
	CreateCoupon(ctx context.Context, create *Coupon) (*Coupon, error)
	UpdateCoupon(ctx context.Context, update *UpdateCoupon) (*Coupon, error)
	ListCoupons(ctx context.Context, find *FindCoupon) ([]*Coupon, error)
	DeleteCoupon(ctx context.Context, storeID int32, code string) error

	// Reviews.
	CreateReview(ctx context.Context, create *Review) (*Review, error)
	UpdateReview(ctx context.Context, update *UpdateReview) (*Review, error)
	ListReviews(ctx context.Context, find *FindReview) ([]*Review, error)

	// Abandoned carts.
	CreateAbandonedCart(ctx context.Context, create *AbandonedCart) (*AbandonedCart, error)
	ListAbandonedCarts(ctx context.Context, find *FindAbandonedCart) ([]*AbandonedCart, error)

	// Notifications.
	CreateNotification(ctx context.Context, create *Notification) (*Notification, error)
	ListNotifications(ctx context.Context, find *FindNotification) ([]*Notification, error)

	// Assistant conversations.
	CreateSession(ctx context.Context, create *Session) (*Session, error)
	ListSessions(ctx context.Context, find *FindSession) ([]*Session, error)
	GetSession(ctx context.Context, find *FindSession) (*Session, error)
	UpdateSession(ctx context.Context, update *UpdateSession) (*Session, error)
	DeleteSession(ctx context.Context, uid string) error
	CreateMessage(ctx context.Context, create *CreateMessage) (*Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error)
	DeleteMessages(ctx context.Context, sessionID int32) error
}
