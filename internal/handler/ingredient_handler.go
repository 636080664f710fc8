package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/service"
)

type IngredientHandler struct {
	svc *service.IngredientService
}

func NewIngredientHandler(svc *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{svc: svc}
}

func (h *IngredientHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	result, err := h.svc.List(c.Request.Context(), GetAccountID(c), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, result)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	ing, err := h.svc.Get(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "ingredient not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, ing)
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var input service.CreateIngredientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ing, err := h.svc.Create(c.Request.Context(), GetAccountID(c), GetUserID(c), &input)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, ing)
}

// Update saves the edit and reports the propagation summary alongside it. The
// edit is never rolled back because of downstream failures; a missing summary
// means the cascade could not run and costs refresh on the next edit or sweep.
func (h *IngredientHandler) Update(c *gin.Context) {
	var input service.UpdateIngredientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ing, result, err := h.svc.Update(c.Request.Context(), GetAccountID(c), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "ingredient not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"ingredient":  ing,
		"propagation": result,
	})
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "ingredient not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
