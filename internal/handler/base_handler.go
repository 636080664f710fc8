package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/service"
)

type BaseHandler struct {
	svc *service.BaseService
}

func NewBaseHandler(svc *service.BaseService) *BaseHandler {
	return &BaseHandler{svc: svc}
}

func (h *BaseHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	result, err := h.svc.List(c.Request.Context(), GetAccountID(c), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, result)
}

func (h *BaseHandler) Get(c *gin.Context) {
	base, err := h.svc.Get(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "base not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, base)
}

func (h *BaseHandler) Create(c *gin.Context) {
	var input service.SaveBaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	base, result, err := h.svc.Create(c.Request.Context(), GetAccountID(c), GetUserID(c), &input)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, gin.H{
		"base":        base,
		"propagation": result,
	})
}

func (h *BaseHandler) Save(c *gin.Context) {
	var input service.SaveBaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	base, result, err := h.svc.Save(c.Request.Context(), GetAccountID(c), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "base not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"base":        base,
		"propagation": result,
	})
}

func (h *BaseHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), GetAccountID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "base not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
