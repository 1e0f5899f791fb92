package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-order-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "seller_id", "name", "description", "price", "stock_quantity", "is_active", "discount_percentage", "created_at", "updated_at"}

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestFindAll_Filters(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	active := true

	mock.ExpectPrepare(`FROM products WHERE seller_id = \$1 AND is_active = \$2 ORDER BY id`)
	mock.ExpectQuery(`FROM products WHERE seller_id = \$1 AND is_active = \$2 ORDER BY id`).
		WithArgs("s1", true).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("p1", "s1", "Anvil", nil, "1000.00", 4, true, "10", now, now).
			AddRow("p2", "s1", "Bolt", "steel", "0.50", 0, true, "0", now, now))

	products, err := repo.FindAll(context.Background(), &dto.ProductFilters{SellerID: "s1", IsActive: &active})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Anvil", products[0].Name)
	assert.Nil(t, products[0].Description)
	assert.Equal(t, "steel", *products[1].Description)
	assert.Equal(t, "0.5", products[1].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM products WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	p, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}
