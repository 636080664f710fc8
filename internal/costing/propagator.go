// Package costing keeps the cached cost columns of the back-office consistent
// across the ingredient -> base -> recipe -> product dependency chain whenever
// a leaf cost changes.
//
// A propagation runs to completion inside the request that triggered it; there
// is no queue, no locking and no retry. Concurrent propagations from separate
// sessions may touch overlapping rows, in which case the store's last-write-
// wins semantics apply per row. That is the accepted consistency model: every
// step is idempotent, reads fresh state from the store and is cheap to re-run,
// so drift repairs itself on the next edit or on an explicit full recompute.
package costing

import (
	"context"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Result summarizes one propagation. Errors are collected per level, never
// thrown mid-cascade: one bad row must not block cost correctness for
// unrelated entities. The caller decides how to present the counts.
type Result struct {
	BasesUpdated   int `json:"bases_updated"`
	RecipesUpdated int `json:"recipes_updated"`
	ProductsSynced int `json:"products_synced"`

	LinesFailed    int `json:"lines_failed"`
	BasesFailed    int `json:"bases_failed"`
	RecipesFailed  int `json:"recipes_failed"`
	ProductsFailed int `json:"products_failed"`

	Errors []error `json:"-"`
}

// Updated is the "N records updated automatically" count.
func (r *Result) Updated() int {
	return r.BasesUpdated + r.RecipesUpdated + r.ProductsSynced
}

// Failed is the count of entities whose cached values are still stale.
func (r *Result) Failed() int {
	return r.LinesFailed + r.BasesFailed + r.RecipesFailed + r.ProductsFailed
}

// Propagator drives a cost change through the dependency graph: affected rows
// are resolved up front, ordered leaves-first and recomputed level by level,
// bases strictly before the recipes consuming them.
type Propagator struct {
	resolver Resolver
	lines    LineUpdater
	agg      Recalculator
	catalog  CatalogSyncer
	notifier Notifier
	logger   *zap.Logger
}

func NewPropagator(resolver Resolver, lines LineUpdater, agg Recalculator, catalog CatalogSyncer, notifier Notifier, logger *zap.Logger) *Propagator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Propagator{
		resolver: resolver,
		lines:    lines,
		agg:      agg,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
	}
}

// IngredientCostChanged recomputes every cached cost affected by an
// ingredient's new effective unit cost. The triggering edit is already
// committed by the caller and stays committed whatever happens here.
//
// Resolution failures abort before any write. After that, failures are
// collected into the Result and the cascade keeps going.
func (p *Propagator) IngredientCostChanged(ctx context.Context, accountID, ingredientID string, unitCost decimal.Decimal) (*Result, error) {
	root := Node{Kind: KindIngredient, ID: ingredientID}

	// Resolve the whole affected subgraph before touching anything.
	baseRefs, err := p.resolver.BasesUsingIngredient(ctx, accountID, ingredientID)
	if err != nil {
		return nil, &ResolutionError{Node: root, Err: err}
	}
	recipeIngRefs, err := p.resolver.RecipesUsingIngredient(ctx, accountID, ingredientID)
	if err != nil {
		return nil, &ResolutionError{Node: root, Err: err}
	}

	linesByBase := groupByOwner(baseRefs)
	ingLinesByRecipe := groupByOwner(recipeIngRefs)

	graph := NewGraph()
	graph.AddNode(root)
	for baseID := range linesByBase {
		graph.AddEdge(root, Node{Kind: KindBase, ID: baseID})
	}
	for recipeID := range ingLinesByRecipe {
		graph.AddEdge(root, Node{Kind: KindRecipe, ID: recipeID})
	}

	// recipe id -> base id -> base lines of that recipe
	baseLinesByRecipe := make(map[string]map[string][]LineRef)
	for baseID := range linesByBase {
		baseNode := Node{Kind: KindBase, ID: baseID}
		refs, err := p.resolver.RecipesUsingBase(ctx, accountID, baseID)
		if err != nil {
			return nil, &ResolutionError{Node: baseNode, Err: err}
		}
		for _, ref := range refs {
			graph.AddEdge(baseNode, Node{Kind: KindRecipe, ID: ref.OwnerID})
			byBase := baseLinesByRecipe[ref.OwnerID]
			if byBase == nil {
				byBase = make(map[string][]LineRef)
				baseLinesByRecipe[ref.OwnerID] = byBase
			}
			byBase[baseID] = append(byBase[baseID], ref)
		}
	}

	order, err := graph.Order(root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	baseUnitCost := make(map[string]decimal.NullDecimal)
	baseChanged := make(map[string]bool)

	for _, node := range order {
		switch node.Kind {
		case KindIngredient:
			// The root itself carries no cached cost.

		case KindBase:
			for _, ref := range linesByBase[node.ID] {
				if _, err := p.lines.UpdateBaseIngredientLine(ctx, ref, unitCost); err != nil {
					p.recordLineFailure(result, entity.BaseIngredientLine{}.TableName(), ref, err)
				}
			}
			totals, err := p.agg.RecomputeBaseTotals(ctx, node.ID)
			if err != nil {
				result.BasesFailed++
				result.Errors = append(result.Errors, &AggregateError{Node: node, Err: err})
				p.logger.Warn("base totals recompute failed",
					zap.String("base_id", node.ID), zap.Error(err))
				continue
			}
			baseUnitCost[node.ID] = totals.UnitCost
			if totals.Changed {
				baseChanged[node.ID] = true
				result.BasesUpdated++
			}

		case KindRecipe:
			for _, ref := range ingLinesByRecipe[node.ID] {
				if _, err := p.lines.UpdateRecipeIngredientLine(ctx, ref, unitCost); err != nil {
					p.recordLineFailure(result, entity.RecipeIngredientLine{}.TableName(), ref, err)
				}
			}
			for baseID, refs := range baseLinesByRecipe[node.ID] {
				// Bases whose recompute failed or did not move are left
				// alone; their cached line costs are already final.
				if !baseChanged[baseID] {
					continue
				}
				for _, ref := range refs {
					if _, err := p.lines.UpdateRecipeBaseLine(ctx, ref, baseUnitCost[baseID]); err != nil {
						p.recordLineFailure(result, entity.RecipeBaseLine{}.TableName(), ref, err)
					}
				}
			}
			p.recomputeRecipe(ctx, accountID, node.ID, result, false)
		}
	}

	p.notifier.PropagationFinished(ctx, accountID, result)
	return result, nil
}

// BaseCostChanged re-derives a base's cached totals after a direct edit of its
// batch quantity or lines, then cascades the resulting unit cost into every
// recipe consuming the base. An unchanged unit cost cascades nowhere.
func (p *Propagator) BaseCostChanged(ctx context.Context, accountID, baseID string) (*Result, error) {
	root := Node{Kind: KindBase, ID: baseID}

	totals, err := p.agg.RecomputeBaseTotals(ctx, baseID)
	if err != nil {
		return nil, &AggregateError{Node: root, Err: err}
	}

	result := &Result{}
	if totals.Changed {
		result.BasesUpdated++
	} else {
		p.notifier.PropagationFinished(ctx, accountID, result)
		return result, nil
	}

	refs, err := p.resolver.RecipesUsingBase(ctx, accountID, baseID)
	if err != nil {
		// The base's own totals are already committed; only the cascade
		// is lost.
		return result, &ResolutionError{Node: root, Err: err}
	}

	graph := NewGraph()
	graph.AddNode(root)
	baseLinesByRecipe := groupByOwner(refs)
	for recipeID := range baseLinesByRecipe {
		graph.AddEdge(root, Node{Kind: KindRecipe, ID: recipeID})
	}
	order, err := graph.Order(root)
	if err != nil {
		return result, err
	}

	for _, node := range order {
		if node.Kind != KindRecipe {
			continue
		}
		for _, ref := range baseLinesByRecipe[node.ID] {
			if _, err := p.lines.UpdateRecipeBaseLine(ctx, ref, totals.UnitCost); err != nil {
				p.recordLineFailure(result, entity.RecipeBaseLine{}.TableName(), ref, err)
			}
		}
		p.recomputeRecipe(ctx, accountID, node.ID, result, false)
	}

	p.notifier.PropagationFinished(ctx, accountID, result)
	return result, nil
}

// RecipeChanged recomputes one recipe's totals from its current lines and
// mirrors the outcome into the catalog. The sync runs even when the totals did
// not move: a recipe edit can change mirrored fields (name, suggested price,
// margin) without touching any cost. Nothing cascades out of a recipe: editing
// its packaging must not touch any base, ingredient or other recipe.
func (p *Propagator) RecipeChanged(ctx context.Context, accountID, recipeID string) (*Result, error) {
	result := &Result{}
	p.recomputeRecipe(ctx, accountID, recipeID, result, true)
	p.notifier.PropagationFinished(ctx, accountID, result)
	if result.RecipesFailed > 0 {
		return result, result.Errors[0]
	}
	return result, nil
}

// RecomputeAll is the drift-repair sweep: every base line, base total, recipe
// line, recipe total and product mirror of the account is re-derived from
// first principles, bases strictly before recipes.
func (p *Propagator) RecomputeAll(ctx context.Context, accountID string) (*Result, error) {
	baseIDs, err := p.resolver.ListBases(ctx, accountID)
	if err != nil {
		return nil, &ResolutionError{Node: Node{Kind: KindBase}, Err: err}
	}
	recipeIDs, err := p.resolver.ListRecipes(ctx, accountID)
	if err != nil {
		return nil, &ResolutionError{Node: Node{Kind: KindRecipe}, Err: err}
	}

	result := &Result{}

	for _, baseID := range baseIDs {
		for _, lineErr := range p.lines.RepriceBaseLines(ctx, baseID) {
			result.LinesFailed++
			result.Errors = append(result.Errors, lineErr)
			p.logger.Warn("base line reprice failed",
				zap.String("base_id", baseID), zap.Error(lineErr))
		}
		totals, err := p.agg.RecomputeBaseTotals(ctx, baseID)
		if err != nil {
			result.BasesFailed++
			result.Errors = append(result.Errors, &AggregateError{Node: Node{Kind: KindBase, ID: baseID}, Err: err})
			continue
		}
		if totals.Changed {
			result.BasesUpdated++
		}
	}

	for _, recipeID := range recipeIDs {
		for _, lineErr := range p.lines.RepriceRecipeLines(ctx, recipeID) {
			result.LinesFailed++
			result.Errors = append(result.Errors, lineErr)
			p.logger.Warn("recipe line reprice failed",
				zap.String("recipe_id", recipeID), zap.Error(lineErr))
		}
		totals, err := p.agg.RecomputeRecipeTotals(ctx, recipeID)
		if err != nil {
			result.RecipesFailed++
			result.Errors = append(result.Errors, &AggregateError{Node: Node{Kind: KindRecipe, ID: recipeID}, Err: err})
			continue
		}
		if totals.Changed {
			result.RecipesUpdated++
		}
		if err := p.catalog.SyncProductFromRecipe(ctx, accountID, recipeID); err != nil {
			result.ProductsFailed++
			result.Errors = append(result.Errors, &CatalogSyncError{RecipeID: recipeID, Err: err})
		} else {
			result.ProductsSynced++
		}
	}

	p.notifier.PropagationFinished(ctx, accountID, result)
	return result, nil
}

// recomputeRecipe recalculates one recipe's totals and mirrors them into the
// catalog. When syncUnchanged is false an unmoved total skips the sync; the
// cascade paths use that, since propagation only ever carries cost changes.
// Direct recipe edits pass true because mirrored non-cost fields may have
// changed. Sync failure never rolls the recipe back.
func (p *Propagator) recomputeRecipe(ctx context.Context, accountID, recipeID string, result *Result, syncUnchanged bool) {
	node := Node{Kind: KindRecipe, ID: recipeID}
	totals, err := p.agg.RecomputeRecipeTotals(ctx, recipeID)
	if err != nil {
		result.RecipesFailed++
		result.Errors = append(result.Errors, &AggregateError{Node: node, Err: err})
		p.logger.Warn("recipe totals recompute failed",
			zap.String("recipe_id", recipeID), zap.Error(err))
		return
	}
	if totals.Changed {
		result.RecipesUpdated++
	} else if !syncUnchanged {
		return
	}

	if err := p.catalog.SyncProductFromRecipe(ctx, accountID, recipeID); err != nil {
		result.ProductsFailed++
		result.Errors = append(result.Errors, &CatalogSyncError{RecipeID: recipeID, Err: err})
		p.logger.Warn("catalog sync failed",
			zap.String("recipe_id", recipeID), zap.Error(err))
		return
	}
	result.ProductsSynced++
}

func (p *Propagator) recordLineFailure(result *Result, table string, ref LineRef, err error) {
	result.LinesFailed++
	result.Errors = append(result.Errors, &LineUpdateError{Table: table, LineID: ref.LineID, Err: err})
	p.logger.Warn("line update failed, skipping",
		zap.String("table", table),
		zap.String("line_id", ref.LineID),
		zap.String("owner_id", ref.OwnerID),
		zap.Error(err))
}

func groupByOwner(refs []LineRef) map[string][]LineRef {
	if len(refs) == 0 {
		return nil
	}
	grouped := make(map[string][]LineRef, len(refs))
	for _, ref := range refs {
		grouped[ref.OwnerID] = append(grouped[ref.OwnerID], ref)
	}
	return grouped
}
