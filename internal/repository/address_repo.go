package repository

import (
	"context"
	"errors"
	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	// GetOwned resolves an address only when it belongs to the given user.
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, a *models.Address) error
	Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Address, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	SetDefault(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}

type addressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) AddressRepo { return &addressRepo{db: db} }

func (r *addressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *addressRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var a models.Address
	err := r.db.WithContext(ctx).First(&a, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

// Create clears any existing default first when the new address is marked
// default, keeping at most one default per user.
func (r *addressRepo) Create(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", a.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

func (r *addressRepo) Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Address, error) {
	tx := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetOwned(ctx, id, userID)
}

func (r *addressRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *addressRepo) SetDefault(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetOwned(ctx, id, userID)
}

func (r *addressRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error
}
