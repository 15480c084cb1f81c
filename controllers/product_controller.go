package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lvalverde/commerce-admin-api/models"
)

// ProductForm represents the request body for creating or editing a product
type ProductForm struct {
	Name        string  `json:"name" binding:"required"`
	Brand       string  `json:"brand" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
	Category    string  `json:"category"`
}

// ListProducts handles GET /api/v1/products - the product list page, with
// the same search/page/stale semantics as the customer list
func ListProducts(c *gin.Context) {
	refreshErr := productList.Refresh(c.Request.Context())

	applyListParams(c, productList.Search(),
		func(s string) { productList.SetSearch(s) },
		func(p int) { productList.SetPage(p) },
	)

	stale, staleErr := productList.Stale()
	if staleErr == nil {
		staleErr = refreshErr
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      productList.VisiblePage(),
			"page":       productList.Page(),
			"totalPages": productList.TotalPages(),
			"totalCount": productList.FilteredCount(),
			"search":     productList.Search(),
			"stale":      staleBlock(stale, staleErr),
		},
	})
}

// CreateProduct handles POST /api/v1/products - saves the add-product form
func CreateProduct(c *gin.Context) {
	var form ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	productList.StartAdd()
	if err := productList.Save(c.Request.Context(), models.Product{
		Name:        form.Name,
		Brand:       form.Brand,
		Price:       form.Price,
		Description: form.Description,
		Notes:       form.Notes,
		Category:    form.Category,
	}); err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    mutationResult(productList),
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - full-record replace of a
// product. The id is immutable after the first successful save.
func UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	existing, found := productList.Find(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product is not in the current collection",
			},
		})
		return
	}

	var form ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	productList.StartEdit(existing)
	if err := productList.Save(c.Request.Context(), models.Product{
		ID:          id,
		Name:        form.Name,
		Brand:       form.Brand,
		Price:       form.Price,
		Description: form.Description,
		Notes:       form.Notes,
		Category:    form.Category,
	}); err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mutationResult(productList),
	})
}

// RequestDeleteProduct handles POST /api/v1/products/:id/delete-request -
// arms the confirmation gate without touching the backend
func RequestDeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, found := productList.Find(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product is not in the current collection",
			},
		})
		return
	}

	productList.RequestDelete(product)
	_, message, _ := productList.PendingDelete()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": message,
		},
	})
}

// ConfirmDeleteProduct handles POST /api/v1/products/:id/delete-confirm
func ConfirmDeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	open, _, pendingID := productList.PendingDelete()
	if !open || pendingID != id {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_PENDING_DELETE",
				"message": "No matching delete confirmation is pending",
			},
		})
		return
	}

	if err := productList.ConfirmDelete(c.Request.Context()); err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mutationResult(productList),
	})
}

// CancelDeleteProduct handles POST /api/v1/products/:id/delete-cancel
func CancelDeleteProduct(c *gin.Context) {
	productList.CancelDelete()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
