package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
	"github.com/Skotchmaster/food_orders/internal/service"
	"github.com/Skotchmaster/food_orders/internal/testdb"
)

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p
}

func TestDecrementStock(t *testing.T) {
	db := testdb.Open(t)
	r := testdb.Restaurant(t, db, true, 200)
	repo := &GormRepo{DB: db}
	ctx := context.Background()

	t.Run("partial", func(t *testing.T) {
		p := testdb.Product(t, db, r.ID, "soup", 500, 5)

		require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
			ok, err := tx.DecrementStock(ctx, p.ID, 2)
			require.True(t, ok)
			return err
		}))

		got := reload(t, db, p.ID)
		require.EqualValues(t, 3, got.Quantity)
		require.True(t, got.IsAvailable)
	})

	t.Run("to zero flips availability", func(t *testing.T) {
		p := testdb.Product(t, db, r.ID, "pie", 350, 2)

		require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
			ok, err := tx.DecrementStock(ctx, p.ID, 2)
			require.True(t, ok)
			return err
		}))

		got := reload(t, db, p.ID)
		require.EqualValues(t, 0, got.Quantity)
		require.False(t, got.IsAvailable)
	})

	t.Run("guard rejects overdraw", func(t *testing.T) {
		p := testdb.Product(t, db, r.ID, "tea", 100, 1)

		require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
			ok, err := tx.DecrementStock(ctx, p.ID, 2)
			require.False(t, ok)
			if err != nil {
				return err
			}
			q, err := tx.GetProductQuantity(ctx, p.ID)
			require.EqualValues(t, 1, q)
			return err
		}))

		got := reload(t, db, p.ID)
		require.EqualValues(t, 1, got.Quantity)
		require.True(t, got.IsAvailable)
	})

	t.Run("disabled product stays disabled", func(t *testing.T) {
		p := testdb.Product(t, db, r.ID, "cake", 900, 4)
		require.NoError(t, db.Model(&p).Update("is_available", false).Error)

		require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
			_, err := tx.DecrementStock(ctx, p.ID, 1)
			return err
		}))

		got := reload(t, db, p.ID)
		require.EqualValues(t, 3, got.Quantity)
		require.False(t, got.IsAvailable)
	})
}

func TestGetProductsForRestaurant_FiltersOtherRestaurants(t *testing.T) {
	db := testdb.Open(t)
	r1 := testdb.Restaurant(t, db, true, 0)
	r2 := testdb.Restaurant(t, db, true, 0)
	a := testdb.Product(t, db, r1.ID, "a", 100, 1)
	b := testdb.Product(t, db, r2.ID, "b", 100, 1)
	repo := &GormRepo{DB: db}
	ctx := context.Background()

	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
		got, err := tx.GetProductsForRestaurant(ctx, r1.ID, []uuid.UUID{a.ID, b.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, a.ID, got[0].ID)
		return nil
	}))
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := testdb.Open(t)
	r := testdb.Restaurant(t, db, true, 0)
	p := testdb.Product(t, db, r.ID, "noodles", 700, 3)
	repo := &GormRepo{DB: db}
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(tx service.Tx) error {
		if _, err := tx.DecrementStock(ctx, p.ID, 3); err != nil {
			return err
		}
		if err := tx.CreateLocation(ctx, &models.Location{UserID: uuid.New(), Label: "home", Address: "1 Main St", City: "Springfield"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.EqualValues(t, 3, reload(t, db, p.ID).Quantity)
	require.Zero(t, testdb.Count(t, db, &models.Location{}))
}

func TestDefaultLocations(t *testing.T) {
	db := testdb.Open(t)
	repo := &GormRepo{DB: db}
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	first := &models.Location{UserID: user, Label: "home", Address: "1 Main St", City: "Springfield", IsDefault: true}
	second := &models.Location{UserID: user, Label: "work", Address: "2 Side St", City: "Springfield"}
	foreign := &models.Location{UserID: other, Label: "home", Address: "3 Far Rd", City: "Shelbyville", IsDefault: true}

	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
		for _, loc := range []*models.Location{first, second, foreign} {
			if err := tx.CreateLocation(ctx, loc); err != nil {
				return err
			}
		}
		if err := tx.ClearDefaultLocations(ctx, user); err != nil {
			return err
		}
		return tx.MarkDefaultLocation(ctx, second)
	}))

	var defaults []models.Location
	require.NoError(t, db.Where("is_default = ?", true).Order("label").Find(&defaults).Error)
	require.Len(t, defaults, 2)

	byUser := map[uuid.UUID]uuid.UUID{}
	for _, d := range defaults {
		byUser[d.UserID] = d.ID
	}
	require.Equal(t, second.ID, byUser[user])
	require.Equal(t, foreign.ID, byUser[other])

	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
		_, err := tx.GetLocation(ctx, user, foreign.ID)
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return nil
	}))
}

func TestGetOrder_ItemsInPositionOrderAndOwnerScoped(t *testing.T) {
	db := testdb.Open(t)
	repo := &GormRepo{DB: db}
	ctx := context.Background()
	user := uuid.New()

	order := &models.Order{
		OrderNumber:     "ORD-20260101-0000000000000001",
		UserID:          user,
		RestaurantID:    uuid.New(),
		LocationID:      uuid.New(),
		TotalAmount:     1350,
		DeliveryFee:     200,
		Status:          models.OrderStatusPending,
		DeliveryAddress: "1 Main St, Springfield",
		PhoneNumber:     "+15550100",
		Items: []models.OrderItem{
			{ProductID: uuid.New(), ProductName: "b", UnitPrice: 350, Quantity: 1, LineTotal: 350, Position: 1},
			{ProductID: uuid.New(), ProductName: "a", UnitPrice: 500, Quantity: 2, LineTotal: 1000, Position: 0},
		},
	}
	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error { return tx.CreateOrder(ctx, order) }))

	got, err := repo.GetOrder(ctx, user, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.Equal(t, "a", got.Items[0].ProductName)
	require.Equal(t, "b", got.Items[1].ProductName)

	_, err = repo.GetOrder(ctx, uuid.New(), order.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateOrder_DuplicateNumberIsTransient(t *testing.T) {
	db := testdb.Open(t)
	repo := &GormRepo{DB: db}
	ctx := context.Background()

	newOrder := func() *models.Order {
		return &models.Order{
			OrderNumber:     "ORD-20260101-DEADBEEFDEADBEEF",
			UserID:          uuid.New(),
			RestaurantID:    uuid.New(),
			LocationID:      uuid.New(),
			Status:          models.OrderStatusPending,
			DeliveryAddress: "x, y",
			PhoneNumber:     "1",
		}
	}

	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error { return tx.CreateOrder(ctx, newOrder()) }))
	err := repo.InTx(ctx, func(tx service.Tx) error { return tx.CreateOrder(ctx, newOrder()) })
	require.ErrorIs(t, err, service.ErrStoreTransient)
}

func TestCreateLocation_SecondDefaultIsTransient(t *testing.T) {
	db := testdb.Open(t)
	repo := &GormRepo{DB: db}
	ctx := context.Background()
	user := uuid.New()

	newDefault := func(label string) *models.Location {
		return &models.Location{UserID: user, Label: label, Address: "1 Main St", City: "Springfield", IsDefault: true}
	}

	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error { return tx.CreateLocation(ctx, newDefault("home")) }))

	// a writer that skipped ClearDefaultLocations collides and is retried
	err := repo.InTx(ctx, func(tx service.Tx) error { return tx.CreateLocation(ctx, newDefault("work")) })
	require.ErrorIs(t, err, service.ErrStoreTransient)

	// non-default locations are unconstrained
	require.NoError(t, repo.InTx(ctx, func(tx service.Tx) error {
		for _, label := range []string{"gym", "office"} {
			loc := newDefault(label)
			loc.IsDefault = false
			if err := tx.CreateLocation(ctx, loc); err != nil {
				return err
			}
		}
		return nil
	}))

	var defaults int64
	require.NoError(t, db.Model(&models.Location{}).Where("user_id = ? AND is_default = ?", user, true).Count(&defaults).Error)
	require.EqualValues(t, 1, defaults)
	require.EqualValues(t, 3, testdb.Count(t, db, &models.Location{}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"pgx deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"pgx serialization", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"pgx check violation", &pgconn.PgError{Code: "23514"}, false},
		{"pq lock timeout", &pq.Error{Code: "55P03"}, true},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"plain", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			require.Equal(t, tt.transient, errors.Is(err, service.ErrStoreTransient))
			require.ErrorIs(t, err, tt.err)
		})
	}

	require.NoError(t, classify(nil))
}
