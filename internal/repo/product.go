package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
)

func (t *TxRepo) GetProductsForRestaurant(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := t.DB.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock is a single guarded UPDATE, so concurrent callers are
// serialized by the row lock and the guard is re-checked against the
// committed quantity. is_available drops to false only when the stock hits 0.
func (t *TxRepo) DecrementStock(ctx context.Context, productID uuid.UUID, qty int64) (bool, error) {
	res := t.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity - ?", qty),
			"is_available": gorm.Expr("CASE WHEN quantity = ? THEN FALSE ELSE is_available END", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (t *TxRepo) GetProductQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	var p models.Product
	if err := t.DB.WithContext(ctx).Select("quantity").Where("id = ?", productID).Take(&p).Error; err != nil {
		return 0, err
	}
	return p.Quantity, nil
}
