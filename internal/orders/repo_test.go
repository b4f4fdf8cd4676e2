package orders

import (
	"context"
	"testing"
	"time"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	"github.com/brightloom/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Matches the production client, which skips gorm's implicit transaction.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL UNIQUE,
  payment_intent_id TEXT,
  customer_email TEXT,
  total_cents INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  fulfilled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price_cents INTEGER NOT NULL,
  size TEXT,
  color TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, sessionID, intentID, email string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		SessionID:       sessionID,
		PaymentIntentID: intentID,
		CustomerEmail:   email,
		TotalCents:      4200,
		Status:          status,
		CreatedAt:       created,
		UpdatedAt:       created,
		Items: []models.OrderItem{
			{
				ID:         uuid.New(),
				ProductID:  "prod_tee",
				Name:       "Logo Tee",
				Quantity:   2,
				PriceCents: 2100,
			},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreate_duplicateSessionReturnsExisting(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	first := seedOrder(t, db, "cs_dup", "pi_1", "shopper@example.com", enums.OrderStatusCompleted, now)

	replay := &models.Order{
		ID:            uuid.New(),
		SessionID:     "cs_dup",
		CustomerEmail: "shopper@example.com",
		TotalCents:    4200,
		Status:        enums.OrderStatusCompleted,
	}
	got, created, err := repo.Create(context.Background(), replay)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod_tee", got.Items[0].ProductID)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryCreate_persistsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := &models.Order{
		ID:            uuid.New(),
		SessionID:     "cs_new",
		CustomerEmail: "buyer@example.com",
		TotalCents:    2218,
		Status:        enums.OrderStatusCompleted,
	}
	order.Items = []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: "prod_a", Name: "Candle", Quantity: 2, PriceCents: 959},
		{ID: uuid.New(), OrderID: order.ID, ProductID: "prod_b", Name: "Wick Trimmer", Quantity: 1, PriceCents: 300},
	}

	got, created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, created)

	loaded, err := repo.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
	assert.Equal(t, int64(2218), loaded.TotalCents)
}

func TestRepositoryCreate_failedItemRollsBackOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := &models.Order{
		ID:            uuid.New(),
		SessionID:     "cs_partial",
		CustomerEmail: "buyer@example.com",
		TotalCents:    959,
		Status:        enums.OrderStatusCompleted,
	}
	order.Items = []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: "prod_a", Name: "Candle", Quantity: 1, PriceCents: 959},
		// Violates the quantity check, which must roll back the whole insert.
		{ID: uuid.New(), OrderID: order.ID, ProductID: "prod_b", Name: "Wick Trimmer", Quantity: 0, PriceCents: 300},
	}

	_, _, err := repo.Create(context.Background(), order)
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestRepositoryUpdateStatusByPaymentIntent(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	seedOrder(t, db, "cs_pay", "pi_pay", "a@example.com", enums.OrderStatusPending, now)

	affected, err := repo.UpdateStatusByPaymentIntent(context.Background(), "pi_pay", enums.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	loaded, err := repo.FindBySessionID(context.Background(), "cs_pay")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, loaded.Status)
	assert.NotNil(t, loaded.FulfilledAt)

	affected, err = repo.UpdateStatusByPaymentIntent(context.Background(), "pi_missing", enums.OrderStatusFailed)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRepositoryList_paginationAndFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	seedOrder(t, db, "cs_1", "pi_a", "one@example.com", enums.OrderStatusCompleted, now.Add(-2*time.Hour))
	seedOrder(t, db, "cs_2", "pi_b", "two@example.com", enums.OrderStatusFailed, now.Add(-time.Hour))
	seedOrder(t, db, "cs_3", "pi_c", "one@example.com", enums.OrderStatusCompleted, now)

	page, next, err := repo.List(context.Background(), ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "cs_3", page[0].SessionID)
	assert.Equal(t, "cs_2", page[1].SessionID)

	rest, last, err := repo.List(context.Background(), ListQuery{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, last)
	assert.Equal(t, "cs_1", rest[0].SessionID)

	completed := enums.OrderStatusCompleted
	filtered, _, err := repo.List(context.Background(), ListQuery{
		Status: &completed,
		Email:  "one@example.com",
	})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, row := range filtered {
		assert.Equal(t, enums.OrderStatusCompleted, row.Status)
		assert.Equal(t, "one@example.com", row.CustomerEmail)
	}
}

func TestRepositoryList_cursorRoundTrip(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	seedOrder(t, db, "cs_old", "pi_x", "x@example.com", enums.OrderStatusPending, now.Add(-time.Minute))
	newest := seedOrder(t, db, "cs_newest", "pi_y", "y@example.com", enums.OrderStatusPending, now)

	page, next, err := repo.List(context.Background(), ListQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.NotNil(t, next)
	assert.Equal(t, newest.ID, next.ID)

	encoded := pagination.EncodeCursor(*next)
	decoded, err := pagination.ParseCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, next.ID, decoded.ID)
}
