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

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'placed',
  subtotal_rupees INTEGER NOT NULL,
  total_rupees INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  image_key TEXT,
  unit_price_rupees INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_rupees INTEGER NOT NULL,
  negotiated INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  amount_rupees INTEGER NOT NULL,
  reference TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func seedOrder(t *testing.T, repo *Repository, userID uuid.UUID, total int64, created time.Time, method enums.PaymentMethod) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Status:         enums.OrderStatusPlaced,
		SubtotalRupees: total,
		TotalRupees:    total,
		Items: []models.OrderLineItem{
			{
				ID:              uuid.New(),
				ProductID:       7,
				Name:            "Alphonso Mangoes",
				UnitPriceRupees: total,
				Quantity:        1,
				LineTotalRupees: total,
				CreatedAt:       created,
			},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	payment := &models.Payment{
		ID:           uuid.New(),
		UserID:       userID,
		Method:       method,
		Status:       enums.PaymentStatusPaid,
		AmountRupees: total,
		Reference:    "PAY-" + uuid.NewString(),
		CreatedAt:    created,
	}
	require.NoError(t, repo.CreateWithPayment(context.Background(), order, payment))
	return order
}

func TestRepositoryCreateWithPaymentLinksRows(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	order := seedOrder(t, repo, userID, 450, time.Now().UTC(), enums.PaymentMethodUPI)

	payment, err := repo.PaymentByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, payment.OrderID)
	assert.Equal(t, int64(450), payment.AmountRupees)

	loaded, err := repo.GetByID(context.Background(), userID, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Alphonso Mangoes", loaded.Items[0].Name)
}

func TestRepositoryGetByIDScopesToOwner(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	order := seedOrder(t, repo, userID, 120, time.Now().UTC(), enums.PaymentMethodCard)

	_, err := repo.GetByID(context.Background(), uuid.New(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserPaginates(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	older := seedOrder(t, repo, userID, 100, now.Add(-time.Hour), enums.PaymentMethodUPI)
	newer := seedOrder(t, repo, userID, 200, now, enums.PaymentMethodCOD)
	seedOrder(t, repo, uuid.New(), 999, now, enums.PaymentMethodUPI)

	first, err := repo.ListByUser(context.Background(), userID, 1, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, newer.ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[0].CreatedAt, ID: first[0].ID.String()}
	second, err := repo.ListByUser(context.Background(), userID, 1, cursor)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, older.ID, second[0].ID)
	require.Len(t, second[0].Items, 1)
}

func TestRepositoryListPaymentsByUser(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	seedOrder(t, repo, userID, 100, now.Add(-time.Minute), enums.PaymentMethodUPI)
	seedOrder(t, repo, userID, 200, now, enums.PaymentMethodCard)
	seedOrder(t, repo, uuid.New(), 300, now, enums.PaymentMethodUPI)

	rows, err := repo.ListPaymentsByUser(context.Background(), userID, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(200), rows[0].AmountRupees)
	assert.Equal(t, int64(100), rows[1].AmountRupees)
}
