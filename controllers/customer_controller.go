package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/services"
)

// CustomerForm represents the request body for creating or editing a customer
type CustomerForm struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// ListCustomers handles GET /api/v1/customers - the customer list page.
// The collection is re-fetched; when the backend is unreachable the
// last-known-good collection is returned with the stale indicator set.
// Query params: search (filters, resets page), page.
func ListCustomers(c *gin.Context) {
	refreshErr := customerList.Refresh(c.Request.Context())

	applyListParams(c, customerList.Search(),
		func(s string) { customerList.SetSearch(s) },
		func(p int) { customerList.SetPage(p) },
	)

	stale, staleErr := customerList.Stale()
	if staleErr == nil {
		staleErr = refreshErr
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      customerList.VisiblePage(),
			"page":       customerList.Page(),
			"totalPages": customerList.TotalPages(),
			"totalCount": customerList.FilteredCount(),
			"search":     customerList.Search(),
			"stale":      staleBlock(stale, staleErr),
		},
	})
}

// GetCustomer handles GET /api/v1/customers/:id - one customer's details
func GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := services.GetAPIClient().GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// ListCustomerOrders handles GET /api/v1/customers/:id/orders - the orders
// belonging to one customer, for the customer details page
func ListCustomerOrders(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := services.GetAPIClient().ListCustomerOrders(c.Request.Context(), id)
	if err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// CreateCustomer handles POST /api/v1/customers - saves the add-customer
// form. The create payload carries no id; the backend assigns one. On success
// the collection is re-fetched before responding.
func CreateCustomer(c *gin.Context) {
	var form CustomerForm
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

	customerList.StartAdd()
	if err := customerList.Save(c.Request.Context(), models.Customer{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
	}); err != nil {
		// The form stays open workflow-side; the entered data is echoed back
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    mutationResult(customerList),
	})
}

// UpdateCustomer handles PUT /api/v1/customers/:id - saves the edit form as a
// full-record replace
func UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	existing, found := customerList.Find(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer is not in the current collection",
			},
		})
		return
	}

	var form CustomerForm
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

	customerList.StartEdit(existing)
	if err := customerList.Save(c.Request.Context(), models.Customer{
		ID:        id,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
	}); err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mutationResult(customerList),
	})
}

// RequestDeleteCustomer handles POST /api/v1/customers/:id/delete-request -
// arms the confirmation gate. No backend call happens here.
func RequestDeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, found := customerList.Find(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer is not in the current collection",
			},
		})
		return
	}

	customerList.RequestDelete(customer)
	_, message, _ := customerList.PendingDelete()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": message,
		},
	})
}

// ConfirmDeleteCustomer handles POST /api/v1/customers/:id/delete-confirm -
// performs the armed deletion and re-fetches the collection
func ConfirmDeleteCustomer(c *gin.Context) {
	open, _, pendingID := customerList.PendingDelete()
	id, ok := pathID(c)
	if !ok {
		return
	}
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

	if err := customerList.ConfirmDelete(c.Request.Context()); err != nil {
		respondWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mutationResult(customerList),
	})
}

// CancelDeleteCustomer handles POST /api/v1/customers/:id/delete-cancel -
// closes the gate; the customer stays in the collection
func CancelDeleteCustomer(c *gin.Context) {
	customerList.CancelDelete()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// pathID parses the :id path parameter, writing the error response itself
// when the value is not a positive integer
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "The id must be a positive integer",
			},
		})
		return 0, false
	}
	return id, true
}

// applyListParams maps the search/page query parameters onto a workflow.
// A changed search resets the page to 1 and wins over any page parameter in
// the same request.
func applyListParams(c *gin.Context, current string, setSearch func(string), setPage func(int)) {
	search, hasSearch := c.GetQuery("search")
	if hasSearch && search != current {
		setSearch(search)
		return
	}
	if pageParam, hasPage := c.GetQuery("page"); hasPage {
		if page, err := strconv.Atoi(pageParam); err == nil {
			setPage(page)
		}
	}
}
