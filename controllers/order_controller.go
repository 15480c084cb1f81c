package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/services"
	"github.com/lvalverde/commerce-admin-api/workflow"
)

// OpenDraftRequest represents the request body for opening the order
// composition editor. A zero or absent orderId opens a blank create draft.
type OpenDraftRequest struct {
	OrderID int `json:"orderId"`
}

// DraftRowUpdateRequest represents the request body for editing one draft
// row. Absent fields are left untouched.
type DraftRowUpdateRequest struct {
	ProductID *int `json:"productId"`
	Quantity  *int `json:"quantity"`
}

// DraftCustomerRequest represents the request body for selecting the draft's
// customer
type DraftCustomerRequest struct {
	CustomerID int `json:"customerId"`
}

// ListOrders handles GET /api/v1/orders - the order list with search/page
// and the stale indicator, same semantics as the other list pages
func ListOrders(c *gin.Context) {
	refreshErr := orderList.Refresh(c.Request.Context())

	applyListParams(c, orderList.Search(),
		func(s string) { orderList.SetSearch(s) },
		func(p int) { orderList.SetPage(p) },
	)

	stale, staleErr := orderList.Stale()
	if staleErr == nil {
		staleErr = refreshErr
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      orderList.VisiblePage(),
			"page":       orderList.Page(),
			"totalPages": orderList.TotalPages(),
			"totalCount": orderList.FilteredCount(),
			"search":     orderList.Search(),
			"stale":      staleBlock(stale, staleErr),
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - one order with nested items
func GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := services.GetAPIClient().GetOrder(c.Request.Context(), id)
	if err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// OpenOrderDraft handles POST /api/v1/orders/draft - opens the order
// composition editor. Both reference lists are re-fetched on every open.
func OpenOrderDraft(c *gin.Context) {
	var req OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	var seed *workflow.OrderSeed
	if req.OrderID > 0 {
		order, found := orderList.Find(req.OrderID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order is not in the current collection",
				},
			})
			return
		}
		payload := order.Payload()
		seed = &workflow.OrderSeed{
			OrderID:    order.ID,
			CustomerID: payload.CustomerID,
			Items:      payload.Items,
		}
	}

	if err := orderDraft.Open(c.Request.Context(), seed); err != nil {
		respondWriteError(c, err)
		return
	}

	respondDraftState(c, http.StatusOK)
}

// CloseOrderDraft handles DELETE /api/v1/orders/draft - discards the draft
func CloseOrderDraft(c *gin.Context) {
	orderDraft.Close()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// SetDraftCustomer handles PUT /api/v1/orders/draft/customer
func SetDraftCustomer(c *gin.Context) {
	var req DraftCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	if err := orderDraft.SetCustomer(req.CustomerID); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_DRAFT_OPEN",
				"message": err.Error(),
			},
		})
		return
	}

	respondDraftState(c, http.StatusOK)
}

// AddDraftRow handles POST /api/v1/orders/draft/rows - appends a blank row
func AddDraftRow(c *gin.Context) {
	if _, err := orderDraft.AddRow(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_DRAFT_OPEN",
				"message": err.Error(),
			},
		})
		return
	}

	respondDraftState(c, http.StatusCreated)
}

// UpdateDraftRow handles PUT /api/v1/orders/draft/rows/:key - edits one row
// addressed by its stable key
func UpdateDraftRow(c *gin.Context) {
	var req DraftRowUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	key := c.Param("key")
	if req.ProductID != nil {
		if err := orderDraft.SetRowProduct(key, *req.ProductID); err != nil {
			respondRowError(c, err)
			return
		}
	}
	if req.Quantity != nil {
		if err := orderDraft.SetRowQuantity(key, *req.Quantity); err != nil {
			respondRowError(c, err)
			return
		}
	}

	respondDraftState(c, http.StatusOK)
}

// RemoveDraftRow handles DELETE /api/v1/orders/draft/rows/:key
func RemoveDraftRow(c *gin.Context) {
	if err := orderDraft.RemoveRow(c.Param("key")); err != nil {
		respondRowError(c, err)
		return
	}

	respondDraftState(c, http.StatusOK)
}

// SubmitOrderDraft handles POST /api/v1/orders/draft/submit - cleans the
// draft rows, stamps today's date, and saves through the order workflow
// (update when the draft was opened from an existing order, create
// otherwise). On failure the draft stays open with its rows intact.
func SubmitOrderDraft(c *gin.Context) {
	submission, err := orderDraft.Submit()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_DRAFT_OPEN",
				"message": err.Error(),
			},
		})
		return
	}

	order := models.Order{
		ID:         submission.OrderID,
		OrderDate:  submission.Payload.OrderDate,
		CustomerID: submission.Payload.CustomerID,
	}
	for _, item := range submission.Payload.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if submission.OrderID > 0 {
		existing, found := orderList.Find(submission.OrderID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order is not in the current collection",
				},
			})
			return
		}
		orderList.StartEdit(existing)
	} else {
		orderList.StartAdd()
	}

	if err := orderList.Save(c.Request.Context(), order); err != nil {
		respondWriteError(c, err)
		return
	}

	orderDraft.Close()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mutationResult(orderList),
	})
}

// RequestDeleteOrder handles POST /api/v1/orders/:id/delete-request
func RequestDeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, found := orderList.Find(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order is not in the current collection",
			},
		})
		return
	}

	orderList.RequestDelete(order)
	_, message, _ := orderList.PendingDelete()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": message,
		},
	})
}

// ConfirmDeleteOrder handles POST /api/v1/orders/:id/delete-confirm
func ConfirmDeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	open, _, pendingID := orderList.PendingDelete()
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

	if err := orderList.ConfirmDelete(c.Request.Context()); err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mutationResult(orderList),
	})
}

// CancelDeleteOrder handles POST /api/v1/orders/:id/delete-cancel
func CancelDeleteOrder(c *gin.Context) {
	orderList.CancelDelete()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// respondDraftState renders the full editor state: selected customer, rows
// with their stable keys, and both reference lists
func respondDraftState(c *gin.Context, status int) {
	c.JSON(status, gin.H{
		"success": true,
		"data": gin.H{
			"editingOrderId": orderDraft.EditingOrderID(),
			"customerId":     orderDraft.CustomerID(),
			"rows":           orderDraft.Rows(),
			"customers":      orderDraft.Customers(),
			"products":       orderDraft.Products(),
		},
	})
}

// respondRowError distinguishes a stale row key from a closed draft
func respondRowError(c *gin.Context, err error) {
	if !orderDraft.IsOpen() {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_DRAFT_OPEN",
				"message": err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ROW_NOT_FOUND",
			"message": err.Error(),
		},
	})
}
