package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/service"
)

type PackagingHandler struct {
	svc *service.PackagingService
}

func NewPackagingHandler(svc *service.PackagingService) *PackagingHandler {
	return &PackagingHandler{svc: svc}
}

func (h *PackagingHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	result, err := h.svc.List(c.Request.Context(), GetAccountID(c), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, result)
}

func (h *PackagingHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "packaging item not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, item)
}

func (h *PackagingHandler) Create(c *gin.Context) {
	var input service.SavePackagingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), GetAccountID(c), GetUserID(c), &input)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, item)
}

func (h *PackagingHandler) Update(c *gin.Context) {
	var input service.SavePackagingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), GetAccountID(c), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "packaging item not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, item)
}

func (h *PackagingHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "packaging item not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
