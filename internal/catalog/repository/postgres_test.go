package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestFindProductsByIDsJoinsCategory(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "category_id", "sku", "name", "weight", "is_active", "is_deleted",
		"created_at", "updated_at",
		"cat_id", "cat_name", "cat_is_active", "cat_is_deleted",
	}).
		AddRow("P1", "C1", "KOPI-1", "Kopi", "250", true, false, now, now, "C1", "Drinks", false, false).
		AddRow("P2", nil, "", "Gula", "1000", true, false, now, now, nil, nil, nil, nil)

	mock.ExpectQuery(`FROM products p\s+LEFT JOIN categories c`).
		WithArgs("P1", "P2").
		WillReturnRows(rows)

	products, err := repo.FindProductsByIDs(context.Background(), []string{"P1", "P2"})
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Drinks", products[0].Category.Name)
	assert.False(t, products[0].Sellable())
	assert.Equal(t, "250", products[0].Weight.String())

	assert.Nil(t, products[1].Category)
	assert.True(t, products[1].Sellable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDsSkipsEmptyInput(t *testing.T) {
	repo, mock := newMock(t)

	products, err := repo.FindProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)

	variants, err := repo.FindVariantsByIDs(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, variants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindVariantsByIDs(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM product_variants\s+WHERE id IN \(\$1\)`).
		WithArgs("V1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "sku", "variant_name", "weight", "is_active", "created_at", "updated_at",
		}).AddRow("V1", "P1", "KOPI-L", "Large", nil, true, now, now))

	variants, err := repo.FindVariantsByIDs(context.Background(), []string{"V1"})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "Large", variants[0].VariantName)
	assert.False(t, variants[0].Weight.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
