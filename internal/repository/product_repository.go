package repository

import (
	"context"
	"errors"

	"github.com/saborhq/cozinha/internal/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, accountID, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByRecipeID looks up the catalog mirror of a recipe. Products are keyed
// 1:1 by recipe id, so this is the catalog sync's idempotence anchor.
func (r *ProductRepository) FindByRecipeID(ctx context.Context, accountID, recipeID string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND recipe_id = ?", accountID, recipeID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, accountID string, page, size int) ([]entity.Product, int64, error) {
	var items []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
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

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
