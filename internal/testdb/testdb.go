// Package testdb opens migrated sqlite databases under t.TempDir for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
	"github.com/Skotchmaster/food_orders/pkg/db"
)

// Open returns a fresh database private to t. The pool holds a single
// connection, so transactions are serialized the way row locks would
// serialize them on one hot product. The file outlives that connection,
// which database/sql drops when a deadline cancels a transaction.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "orders.db")
	gdb, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Restaurant(t testing.TB, gdb *gorm.DB, active bool, deliveryFee int64) models.Restaurant {
	t.Helper()

	r := models.Restaurant{Name: "r-" + uuid.NewString()[:8], IsActive: active, DeliveryFee: deliveryFee}
	if err := gdb.Create(&r).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return r
}

func Product(t testing.TB, gdb *gorm.DB, restaurantID uuid.UUID, name string, price, quantity int64) models.Product {
	t.Helper()

	p := models.Product{
		RestaurantID: restaurantID,
		CategoryID:   uuid.New(),
		Name:         name,
		Price:        price,
		Quantity:     quantity,
		IsAvailable:  quantity > 0,
		Unit:         "pcs",
		ImgURL:       "https://img.example.com/" + name + ".png",
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// Count returns the number of rows in the table backing model.
func Count(t testing.TB, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
