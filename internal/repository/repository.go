package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// NewID generates a 32-char identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:32]
}

// Repositories bundles every repository over one gorm connection.
type Repositories struct {
	Ingredient *IngredientRepository
	Base       *BaseRepository
	Recipe     *RecipeRepository
	Packaging  *PackagingRepository
	Product    *ProductRepository
}

// NewRepositories creates the repository bundle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Ingredient: NewIngredientRepository(db),
		Base:       NewBaseRepository(db),
		Recipe:     NewRecipeRepository(db),
		Packaging:  NewPackagingRepository(db),
		Product:    NewProductRepository(db),
	}
}
