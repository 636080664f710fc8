package repository

import (
	"context"
	"errors"

	"github.com/saborhq/cozinha/internal/entity"
	"gorm.io/gorm"
)

type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) *BaseRepository {
	return &BaseRepository{db: db}
}

func (r *BaseRepository) FindByID(ctx context.Context, accountID, id string) (*entity.Base, error) {
	var base entity.Base
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Lines.Ingredient").
		Where("account_id = ? AND id = ?", accountID, id).
		First(&base).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &base, nil
}

func (r *BaseRepository) List(ctx context.Context, accountID string, page, size int) ([]entity.Base, int64, error) {
	var items []entity.Base
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Base{}).
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

func (r *BaseRepository) Create(ctx context.Context, base *entity.Base) error {
	return r.db.WithContext(ctx).Create(base).Error
}

func (r *BaseRepository) Update(ctx context.Context, base *entity.Base) error {
	return r.db.WithContext(ctx).Save(base).Error
}

func (r *BaseRepository) Delete(ctx context.Context, accountID, id string) error {
	if err := r.db.WithContext(ctx).
		Where("base_id = ?", id).
		Delete(&entity.BaseIngredientLine{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Delete(&entity.Base{}).Error
}

// ReplaceLines swaps the full ingredient-line batch of a base in one
// transaction. Saving a base always rewrites its lines wholesale.
func (r *BaseRepository) ReplaceLines(ctx context.Context, baseID string, lines []entity.BaseIngredientLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("base_id = ?", baseID).
			Delete(&entity.BaseIngredientLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}
