package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
	"github.com/Skotchmaster/food_orders/internal/service"
)

type GormRepo struct {
	DB *gorm.DB
}

var _ service.Store = (*GormRepo)(nil)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// InTx runs fn inside DB.Transaction. Errors returned by fn pass through
// unless the database reported them as retryable.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TxRepo{DB: tx})
	})
	return classify(err)
}

// TxRepo is the transaction-scoped view handed to InTx callbacks.
type TxRepo struct {
	DB *gorm.DB
}

var _ service.Tx = (*TxRepo)(nil)
