package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/saborhq/cozinha/internal/costing"
	"github.com/saborhq/cozinha/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles every service over one store connection. The costing engine
// is shared: the edit surfaces trigger it, the costing handler drives the
// manual sweep through it.
type Services struct {
	Ingredient *IngredientService
	Base       *BaseService
	Recipe     *RecipeService
	Packaging  *PackagingService
	Product    *ProductService
	Report     *ReportService
	Propagator *costing.Propagator
}

// NewServices wires the costing engine and the edit surfaces. rdb may be nil;
// propagation summaries are then simply not published.
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *Services {
	var notifier costing.Notifier = costing.NopNotifier{}
	if rdb != nil {
		notifier = costing.NewRedisNotifier(rdb, logger)
	}

	catalog := costing.NewCatalogSync(db, repository.NewID)
	propagator := costing.NewPropagator(
		costing.NewResolver(db),
		costing.NewLineUpdater(db),
		costing.NewRecalculator(db),
		catalog,
		notifier,
		logger,
	)

	return &Services{
		Ingredient: NewIngredientService(repos.Ingredient, propagator, logger),
		Base:       NewBaseService(repos.Base, repos.Ingredient, propagator, logger),
		Recipe:     NewRecipeService(repos.Recipe, repos.Ingredient, repos.Base, repos.Packaging, propagator, logger),
		Packaging:  NewPackagingService(repos.Packaging),
		Product:    NewProductService(repos.Product, catalog),
		Report:     NewReportService(repos.Recipe),
		Propagator: propagator,
	}
}
