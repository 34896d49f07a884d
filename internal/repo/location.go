package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/food_orders/internal/models"
)

func (t *TxRepo) GetLocation(ctx context.Context, userID, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := t.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (t *TxRepo) ClearDefaultLocations(ctx context.Context, userID uuid.UUID) error {
	return t.DB.WithContext(ctx).Model(&models.Location{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (t *TxRepo) MarkDefaultLocation(ctx context.Context, loc *models.Location) error {
	return t.DB.WithContext(ctx).Model(loc).Update("is_default", true).Error
}

func (t *TxRepo) CreateLocation(ctx context.Context, loc *models.Location) error {
	return t.DB.WithContext(ctx).Create(loc).Error
}
