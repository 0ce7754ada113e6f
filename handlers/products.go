package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/metrics"
	"github.com/thebrand/storefront-go/models"
	"github.com/thebrand/storefront-go/store"
)

func (h *Handler) GetProducts(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	products, total, err := h.Catalog.ListProducts(ctx, store.ListOptions{
		Category: models.Category(c.QueryParam("category")),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return httpError(c, err)
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products":    products,
		"totalPages":  totalPages,
		"currentPage": page,
		"total":       total,
	})
}

func (h *Handler) GetProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := h.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       string   `json:"price" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=tshirts hoodies jeans dresses shorts"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,oneof=XS S M L XL XXL"`
	Colors      []string `json:"colors" validate:"required,min=1,dive,required"`
	Stock       int      `json:"stock" validate:"min=0"`
	Featured    bool     `json:"featured"`
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return httpError(c, err)
	}

	sizes := make([]models.ProductSize, 0, len(req.Sizes))
	for _, s := range req.Sizes {
		sizes = append(sizes, models.ProductSize(s))
	}

	now := time.Now()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    models.Category(req.Category),
		Images:      req.Images,
		Sizes:       sizes,
		Colors:      req.Colors,
		Stock:       req.Stock,
		Rating:      0,
		Reviews:     []models.Review{},
		Featured:    req.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.Catalog.InsertProduct(ctx, product); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *string  `json:"price"`
	Category    *string  `json:"category" validate:"omitempty,oneof=tshirts hoodies jeans dresses shorts"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes" validate:"omitempty,min=1,dive,oneof=XS S M L XL XXL"`
	Colors      []string `json:"colors" validate:"omitempty,min=1,dive,required"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
	Featured    *bool    `json:"featured"`
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	upd := store.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		Colors:      req.Colors,
		Stock:       req.Stock,
		Featured:    req.Featured,
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return httpError(c, err)
		}
		upd.Price = &price
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		upd.Category = &category
	}
	if req.Sizes != nil {
		sizes := make([]models.ProductSize, 0, len(req.Sizes))
		for _, s := range req.Sizes {
			sizes = append(sizes, models.ProductSize(s))
		}
		upd.Sizes = sizes
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := h.Catalog.UpdateProduct(ctx, productID, upd)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.Catalog.DeleteProduct(ctx, productID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

type addReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// AddReview appends a review and returns the product with its recomputed
// rating.
func (h *Handler) AddReview(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var req addReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := h.Reviews.AddReview(ctx, productID, userID, req.Rating, req.Comment)
	if err != nil {
		return httpError(c, err)
	}
	metrics.ReviewsSubmitted.Inc()

	return c.JSON(http.StatusCreated, product)
}

func parsePrice(s string) (primitive.Decimal128, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return primitive.Decimal128{}, &store.InputError{Violations: []string{"price must be a non-negative decimal"}}
	}
	return primitive.ParseDecimal128(d.StringFixed(2))
}
