package coupons

import (
	"context"
	"testing"

	"github.com/angelmondragon/tastetrack-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.Coupon{}))
	return conn
}

func TestRepositoryLoadCatalogSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`INSERT INTO coupons (code, discount, kind, min_order, description, active, created_at)
		VALUES ('SAVE10', 10, 'percentage', 20, '10% off', 1, CURRENT_TIMESTAMP),
		       ('FREESHIP', 3.99, 'fixed', 25, 'free delivery', 1, CURRENT_TIMESTAMP),
		       ('ANYTIME', 2, 'fixed', NULL, 'no minimum', 1, CURRENT_TIMESTAMP),
		       ('RETIRED', 50, 'percentage', NULL, 'gone', 0, CURRENT_TIMESTAMP)`).Error)

	catalog, err := NewRepository(db).LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.All(), 3)

	_, ok := catalog.Find("retired")
	assert.False(t, ok)

	freeship, ok := catalog.Find("freeship")
	require.True(t, ok)
	assert.True(t, freeship.Discount.Equal(dec("3.99")))
	assert.True(t, freeship.MinOrder.Valid)

	anytime, ok := catalog.Find("ANYTIME")
	require.True(t, ok)
	assert.False(t, anytime.MinOrder.Valid)
	assert.True(t, anytime.Eligible(dec("0.01")))
}

func TestRepositoryRejectsUnknownKind(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`INSERT INTO coupons (code, discount, kind, description, active, created_at)
		VALUES ('BOGO', 1, 'bogo', '', 1, CURRENT_TIMESTAMP)`).Error)

	_, err := NewRepository(db).LoadCatalog(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal), "got %v", err)
}
