package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/service"
)

type RecipeHandler struct {
	svc        *service.RecipeService
	reportSvc  *service.ReportService
	productSvc *service.ProductService
}

func NewRecipeHandler(svc *service.RecipeService, reportSvc *service.ReportService, productSvc *service.ProductService) *RecipeHandler {
	return &RecipeHandler{svc: svc, reportSvc: reportSvc, productSvc: productSvc}
}

func (h *RecipeHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	result, err := h.svc.List(c.Request.Context(), GetAccountID(c), c.Query("category"), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, result)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	recipe, err := h.svc.Get(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "recipe not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, recipe)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var input service.SaveRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	recipe, result, err := h.svc.Create(c.Request.Context(), GetAccountID(c), GetUserID(c), &input)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, gin.H{
		"recipe":      recipe,
		"propagation": result,
	})
}

func (h *RecipeHandler) Save(c *gin.Context) {
	var input service.SaveRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	recipe, result, err := h.svc.Save(c.Request.Context(), GetAccountID(c), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "recipe not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"recipe":      recipe,
		"propagation": result,
	})
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "recipe not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// Export streams the recipe's cost breakdown as a spreadsheet.
func (h *RecipeHandler) Export(c *gin.Context) {
	f, filename, err := h.reportSvc.ExportRecipeCosts(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "recipe not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, err.Error())
	}
}

// GetProduct returns the catalog mirror of a recipe.
func (h *RecipeHandler) GetProduct(c *gin.Context) {
	product, err := h.productSvc.GetByRecipe(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "product not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, product)
}

// SyncProduct is the manual catalog resync after a failed best-effort sync.
func (h *RecipeHandler) SyncProduct(c *gin.Context) {
	product, err := h.productSvc.Resync(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "recipe not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, product)
}
