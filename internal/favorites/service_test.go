package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE favorites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			created_at DATETIME,
			UNIQUE (user_id, product_id)
		)
	`).Error
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		require.NoError(t, dbErr)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func TestFavoritesRoundTrip(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	ids, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, ids, "empty list serializes as [] not null")
	require.Empty(t, ids)

	require.NoError(t, svc.Add(ctx, 1, 10))
	require.NoError(t, svc.Add(ctx, 1, 20))
	require.NoError(t, svc.Add(ctx, 1, 10), "re-adding is a no-op")
	require.NoError(t, svc.Add(ctx, 2, 10), "other users keep their own list")

	ids, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{10, 20}, ids)

	require.NoError(t, svc.Remove(ctx, 1, 10))
	require.NoError(t, svc.Remove(ctx, 1, 99), "removing an absent favorite is a no-op")

	ids, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{20}, ids)
}

func TestFavoritesValidation(t *testing.T) {
	db := setupFavoritesTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	require.Error(t, svc.Add(ctx, 1, 0))
	require.Error(t, svc.Remove(ctx, 1, -3))
}
