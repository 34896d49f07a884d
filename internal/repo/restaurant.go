package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
)

func (r *GormRepo) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return getRestaurant(r.DB.WithContext(ctx), id)
}

func (t *TxRepo) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return getRestaurant(t.DB.WithContext(ctx), id)
}

func getRestaurant(db *gorm.DB, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := db.Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}
