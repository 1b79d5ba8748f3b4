package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.EnsureTables(context.Background()))
	return db
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	created, err := db.CreateProduct(ctx, &store.Product{
		UID:     "prod-1",
		StoreID: 1,
		Title:   "Ceramic Mug",
		Price:   29900,
		Stock:   10,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotZero(t, created.ID)
	require.Equal(t, store.ProductStatusDraft, created.Status)
	require.Equal(t, int32(14), created.LeadTimeDays)
	require.NotZero(t, created.CreatedTs)

	title := "Ceramic Mug (Large)"
	status := store.ProductStatusPublished
	stock := int32(0)
	updated, err := db.UpdateProduct(ctx, &store.UpdateProduct{
		ID:      created.ID,
		StoreID: 1,
		Title:   &title,
		Status:  &status,
		Stock:   &stock,
	})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, store.ProductStatusPublished, updated.Status)
	require.Equal(t, int32(0), updated.Stock)

	_, err = db.CreateProduct(ctx, &store.Product{
		UID: "prod-2", StoreID: 1, Title: "Tote Bag", Price: 49900, Stock: 5,
		Status: store.ProductStatusPublished, Category: "Bags",
	})
	require.NoError(t, err)

	published, err := db.ListProducts(ctx, &store.FindProduct{Status: &status})
	require.NoError(t, err)
	require.Len(t, published, 2)

	inStock, err := db.ListProducts(ctx, &store.FindProduct{InStockOnly: true})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	require.Equal(t, "prod-2", inStock[0].UID)

	bags := "Bags"
	byCategory, err := db.ListProducts(ctx, &store.FindProduct{Category: &bags})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	// Deletes are tenant-scoped: another store cannot remove these rows.
	deleted, err := db.DeleteProducts(ctx, 2, []int32{created.ID})
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = db.DeleteProducts(ctx, 1, []int32{created.ID, inStock[0].ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	gone, err := db.GetProduct(ctx, &store.FindProduct{UID: &created.UID})
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	customer, err := db.CreateCustomer(ctx, &store.Customer{StoreID: 1, Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)

	first, err := db.CreateOrder(ctx, &store.Order{
		UID: "ord-1", StoreID: 1, CustomerID: customer.ID,
		Status: store.OrderStatusPaid, PaymentMethod: "upi",
		Subtotal: 59800, Total: 59800, CreatedTs: 1_000,
		Items: []*store.OrderItem{
			{ProductID: 7, Title: "Ceramic Mug", Quantity: 2, Price: 29900},
		},
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	require.Equal(t, int32(2), first.Items[0].Quantity)

	_, err = db.CreateOrder(ctx, &store.Order{
		UID: "ord-2", StoreID: 1, CustomerID: customer.ID,
		Status: store.OrderStatusPending, Total: 19900, CreatedTs: 2_000,
	})
	require.NoError(t, err)

	paid := store.OrderStatusPaid
	byStatus, err := db.ListOrders(ctx, &store.FindOrder{Status: &paid})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "ord-1", byStatus[0].UID)

	both, err := db.ListOrders(ctx, &store.FindOrder{
		Statuses: []string{store.OrderStatusPaid, store.OrderStatusPending},
	})
	require.NoError(t, err)
	require.Len(t, both, 2)
	require.Equal(t, "ord-2", both[0].UID, "newest first")

	// The window is inclusive on the lower bound, exclusive on the upper.
	after, before := int64(1_000), int64(2_000)
	windowed, err := db.ListOrders(ctx, &store.FindOrder{CreatedAfter: &after, CreatedBefore: &before})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	require.Equal(t, "ord-1", windowed[0].UID)

	shipped := store.OrderStatusShipped
	shippedTs := int64(3_000)
	updated, err := db.UpdateOrder(ctx, &store.UpdateOrder{
		ID: first.ID, StoreID: 1, Status: &shipped, ShippedTs: &shippedTs,
	})
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusShipped, updated.Status)
	require.Equal(t, shippedTs, updated.ShippedTs)
	require.Len(t, updated.Items, 1)
}

func TestCouponLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	maxUses := int32(100)
	created, err := db.CreateCoupon(ctx, &store.Coupon{
		StoreID: 1, Code: "DIWALI20", Value: 20, MaxUses: &maxUses, Active: true,
	})
	require.NoError(t, err)
	require.Equal(t, store.CouponKindPercent, created.Kind, "percent is the default kind")
	require.NotNil(t, created.MaxUses)
	require.Equal(t, int32(100), *created.MaxUses)

	_, err = db.CreateCoupon(ctx, &store.Coupon{
		StoreID: 1, Code: "FLAT50", Kind: store.CouponKindFlat, Value: 5000, Active: false,
	})
	require.NoError(t, err)

	active, err := db.ListCoupons(ctx, &store.FindCoupon{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "DIWALI20", active[0].Code)

	off := false
	updated, err := db.UpdateCoupon(ctx, &store.UpdateCoupon{ID: created.ID, StoreID: 1, Active: &off})
	require.NoError(t, err)
	require.False(t, updated.Active)

	require.NoError(t, db.DeleteCoupon(ctx, 1, "FLAT50"))
	all, err := db.ListCoupons(ctx, &store.FindCoupon{})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSessionAndMessages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	sess, err := db.CreateSession(ctx, &store.Session{UID: "sess-1", StoreID: 1, Title: "New Chat"})
	require.NoError(t, err)
	require.Equal(t, "New Chat", sess.Title)

	for _, m := range []*store.CreateMessage{
		{SessionID: sess.ID, Role: "user", Content: "How are sales this week?"},
		{SessionID: sess.ID, Role: "assistant", Content: "Revenue is up 12% over last week."},
	} {
		_, err := db.CreateMessage(ctx, m)
		require.NoError(t, err)
	}

	msgs, err := db.ListMessages(ctx, &store.FindMessage{SessionID: sess.ID})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "assistant", msgs[1].Role)

	title := "Weekly sales check-in"
	summary := "Merchant asked about weekly revenue."
	updated, err := db.UpdateSession(ctx, &store.UpdateSession{UID: sess.UID, Title: &title, Summary: &summary})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, summary, updated.Summary)

	// Deleting a session cascades to its messages.
	require.NoError(t, db.DeleteSession(ctx, sess.UID))
	orphans, err := db.ListMessages(ctx, &store.FindMessage{SessionID: sess.ID})
	require.NoError(t, err)
	require.Empty(t, orphans)

	missing, err := db.GetSession(ctx, &store.FindSession{UID: &sess.UID})
	require.NoError(t, err)
	require.Nil(t, missing)
}
