package pkg

import (
	"context"

	"gorm.io/gorm"
)

// WithTx executes fn within a database transaction.
// It commits on success, rolls back on error or panic.
func WithTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// WithTxContext is WithTx bound to ctx, so every statement inside fn is
// cancelled with the request.
func WithTxContext(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return WithTx(db.WithContext(ctx), fn)
}
