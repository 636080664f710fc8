package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/saborhq/cozinha/internal/service"
)

// Handlers bundles every HTTP handler.
type Handlers struct {
	Ingredient *IngredientHandler
	Base       *BaseHandler
	Recipe     *RecipeHandler
	Packaging  *PackagingHandler
	Product    *ProductHandler
	Costing    *CostingHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Ingredient: NewIngredientHandler(svc.Ingredient),
		Base:       NewBaseHandler(svc.Base),
		Recipe:     NewRecipeHandler(svc.Recipe, svc.Report, svc.Product),
		Packaging:  NewPackagingHandler(svc.Packaging),
		Product:    NewProductHandler(svc.Product),
		Costing:    NewCostingHandler(svc.Propagator),
	}
}

// RegisterRoutes mounts every handler under the given group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	ingredients := api.Group("/ingredients")
	ingredients.GET("", h.Ingredient.List)
	ingredients.POST("", h.Ingredient.Create)
	ingredients.GET("/:id", h.Ingredient.Get)
	ingredients.PUT("/:id", h.Ingredient.Update)
	ingredients.DELETE("/:id", h.Ingredient.Delete)

	bases := api.Group("/bases")
	bases.GET("", h.Base.List)
	bases.POST("", h.Base.Create)
	bases.GET("/:id", h.Base.Get)
	bases.PUT("/:id", h.Base.Save)
	bases.DELETE("/:id", h.Base.Delete)

	recipes := api.Group("/recipes")
	recipes.GET("", h.Recipe.List)
	recipes.POST("", h.Recipe.Create)
	recipes.GET("/:id", h.Recipe.Get)
	recipes.PUT("/:id", h.Recipe.Save)
	recipes.DELETE("/:id", h.Recipe.Delete)
	recipes.GET("/:id/export", h.Recipe.Export)
	recipes.GET("/:id/product", h.Recipe.GetProduct)
	recipes.POST("/:id/sync-product", h.Recipe.SyncProduct)

	packaging := api.Group("/packaging")
	packaging.GET("", h.Packaging.List)
	packaging.POST("", h.Packaging.Create)
	packaging.GET("/:id", h.Packaging.Get)
	packaging.PUT("/:id", h.Packaging.Update)
	packaging.DELETE("/:id", h.Packaging.Delete)

	products := api.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.Get)

	costing := api.Group("/costing")
	costing.POST("/recompute", h.Costing.RecomputeAll)
}

// Response is the common JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetAccountID returns the account scope set by the auth middleware.
func GetAccountID(c *gin.Context) string {
	accountID, _ := c.Get("account_id")
	if id, ok := accountID.(string); ok {
		return id
	}
	return ""
}

// GetUserID returns the user id set by the auth middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if s := c.Query("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 200 {
			pageSize = v
		}
	}
	return page, pageSize
}
