package repository

import (
	"context"
	"errors"

	"github.com/saborhq/cozinha/internal/entity"
	"gorm.io/gorm"
)

type PackagingRepository struct {
	db *gorm.DB
}

func NewPackagingRepository(db *gorm.DB) *PackagingRepository {
	return &PackagingRepository{db: db}
}

func (r *PackagingRepository) FindByID(ctx context.Context, accountID, id string) (*entity.PackagingItem, error) {
	var item entity.PackagingItem
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PackagingRepository) List(ctx context.Context, accountID string, page, size int) ([]entity.PackagingItem, int64, error) {
	var items []entity.PackagingItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PackagingItem{}).
		Where("account_id = ?", accountID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("name ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	return items, total, err
}

func (r *PackagingRepository) Create(ctx context.Context, item *entity.PackagingItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PackagingRepository) Update(ctx context.Context, item *entity.PackagingItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PackagingRepository) Delete(ctx context.Context, accountID, id string) error {
	return r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Delete(&entity.PackagingItem{}).Error
}
