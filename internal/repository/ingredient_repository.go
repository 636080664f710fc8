package repository

import (
	"context"
	"errors"

	"github.com/saborhq/cozinha/internal/entity"
	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

func (r *IngredientRepository) FindByID(ctx context.Context, accountID, id string) (*entity.Ingredient, error) {
	var ing entity.Ingredient
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&ing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ing, nil
}

func (r *IngredientRepository) List(ctx context.Context, accountID string, page, size int) ([]entity.Ingredient, int64, error) {
	var items []entity.Ingredient
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ingredient{}).
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

func (r *IngredientRepository) Create(ctx context.Context, ing *entity.Ingredient) error {
	return r.db.WithContext(ctx).Create(ing).Error
}

func (r *IngredientRepository) Update(ctx context.Context, ing *entity.Ingredient) error {
	return r.db.WithContext(ctx).Save(ing).Error
}

func (r *IngredientRepository) Delete(ctx context.Context, accountID, id string) error {
	return r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Delete(&entity.Ingredient{}).Error
}
