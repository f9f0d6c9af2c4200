package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:orders_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  subtotal INTEGER NOT NULL,
  discount_amount INTEGER NOT NULL DEFAULT 0,
  applied_rule_id TEXT,
  total INTEGER NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  paystack_reference TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	itemsSchema := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  ebook_id TEXT NOT NULL,
  title TEXT NOT NULL,
  unit_price INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(itemsSchema).Error)
	require.NoError(t, db.Exec("DELETE FROM order_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, email string, status enums.PaymentStatus, createdAt time.Time) *models.Order {
	t.Helper()

	reference := "hal_" + uuid.NewString()
	order := &models.Order{
		ID:                uuid.New(),
		CustomerEmail:     email,
		CustomerPhone:     "+254712345678",
		Subtotal:          3000,
		DiscountAmount:    300,
		Total:             2700,
		PaymentMethod:     enums.PaymentMethodPaystack,
		PaymentStatus:     status,
		PaystackReference: &reference,
		Items: []models.OrderItem{
			{ID: uuid.New(), EbookID: uuid.New(), Title: "Pilau Masterclass", UnitPrice: 1500},
			{ID: uuid.New(), EbookID: uuid.New(), Title: "Nyama Choma at Home", UnitPrice: 1500},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrdersFindByReference(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedOrder(t, db, "wanjiku@example.com", enums.PaymentStatusPending, time.Now().UTC())

	found, err := repo.FindByReference(ctx, *seeded.PaystackReference)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Len(t, found.Items, 2)

	_, err = repo.FindByReference(ctx, "hal_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkPaidTransitionsOnce(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "wanjiku@example.com", enums.PaymentStatusPending, time.Now().UTC())
	paidAt := time.Now().UTC()

	transitioned, err := repo.MarkPaid(ctx, order.ID, paidAt)
	require.NoError(t, err)
	assert.True(t, transitioned)

	// Replay: the guard must refuse the second transition.
	transitioned, err = repo.MarkPaid(ctx, order.ID, paidAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, transitioned)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, reloaded.PaymentStatus)
	require.NotNil(t, reloaded.PaidAt)
	assert.WithinDuration(t, paidAt, *reloaded.PaidAt, time.Second)
}

func TestMarkFailedOnlyFromPending(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	paid := seedOrder(t, db, "wanjiku@example.com", enums.PaymentStatusPaid, time.Now().UTC())

	transitioned, err := repo.MarkFailed(ctx, paid.ID)
	require.NoError(t, err)
	assert.False(t, transitioned)

	pending := seedOrder(t, db, "njeri@example.com", enums.PaymentStatusPending, time.Now().UTC())
	transitioned, err = repo.MarkFailed(ctx, pending.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
}

func TestOrdersListFiltersAndPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedOrder(t, db, "wanjiku@example.com", enums.PaymentStatusPaid, base.Add(time.Duration(i)*time.Minute))
	}
	seedOrder(t, db, "njeri@example.com", enums.PaymentStatusPending, base.Add(10*time.Minute))

	page, cursor, err := repo.List(ctx, ListFilters{Status: enums.PaymentStatusPaid, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotEmpty(t, cursor)

	rest, nextCursor, err := repo.List(ctx, ListFilters{Status: enums.PaymentStatusPaid, Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Empty(t, nextCursor)

	seen := map[uuid.UUID]bool{}
	for _, order := range append(page, rest...) {
		assert.False(t, seen[order.ID], "order %s returned twice", order.ID)
		seen[order.ID] = true
		assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	}

	count, err := repo.Count(ctx, ListFilters{Email: "njeri@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
