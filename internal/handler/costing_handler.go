package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/saborhq/cozinha/internal/costing"
)

type CostingHandler struct {
	propagator *costing.Propagator
}

func NewCostingHandler(propagator *costing.Propagator) *CostingHandler {
	return &CostingHandler{propagator: propagator}
}

// RecomputeAll runs the full drift-repair sweep for the account: every cached
// line cost, total and product mirror is re-derived from first principles.
func (h *CostingHandler) RecomputeAll(c *gin.Context) {
	result, err := h.propagator.RecomputeAll(c.Request.Context(), GetAccountID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, result)
}
