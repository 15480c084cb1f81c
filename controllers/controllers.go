package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/services"
	"github.com/lvalverde/commerce-admin-api/workflow"
)

var (
	customerList *workflow.ListWorkflow[models.Customer]
	productList  *workflow.ListWorkflow[models.Product]
	orderList    *workflow.ListWorkflow[models.Order]
	orderDraft   *workflow.OrderDraft
)

// InitWorkflows builds the dashboard workflows on top of the given API
// client. Each workflow owns exactly one in-memory collection; nothing is
// shared between them.
func InitWorkflows(client services.APIClient) {
	customerList = workflow.NewListWorkflow("customer", workflow.ListOps[models.Customer]{
		Fetch: client.ListCustomers,
		Create: func(ctx context.Context, c models.Customer) error {
			_, err := client.CreateCustomer(ctx, c.Payload())
			return err
		},
		Update: func(ctx context.Context, id int, c models.Customer) error {
			_, err := client.UpdateCustomer(ctx, id, c.Payload())
			return err
		},
		Delete: client.DeleteCustomer,
	})

	productList = workflow.NewListWorkflow("product", workflow.ListOps[models.Product]{
		Fetch: client.ListProducts,
		Create: func(ctx context.Context, p models.Product) error {
			_, err := client.CreateProduct(ctx, p.Payload())
			return err
		},
		Update: func(ctx context.Context, id int, p models.Product) error {
			_, err := client.UpdateProduct(ctx, id, p.Payload())
			return err
		},
		Delete: client.DeleteProduct,
	})

	orderList = workflow.NewListWorkflow("order", workflow.ListOps[models.Order]{
		Fetch: client.ListOrders,
		Create: func(ctx context.Context, o models.Order) error {
			_, err := client.CreateOrder(ctx, o.Payload())
			return err
		},
		Update: func(ctx context.Context, id int, o models.Order) error {
			_, err := client.UpdateOrder(ctx, id, o.Payload())
			return err
		},
		Delete: client.DeleteOrder,
	})

	orderDraft = workflow.NewOrderDraft(client)
}

// CustomerWorkflow returns the customer list workflow (primarily for testing)
func CustomerWorkflow() *workflow.ListWorkflow[models.Customer] {
	return customerList
}

// ProductWorkflow returns the product list workflow (primarily for testing)
func ProductWorkflow() *workflow.ListWorkflow[models.Product] {
	return productList
}

// OrderWorkflow returns the order list workflow (primarily for testing)
func OrderWorkflow() *workflow.ListWorkflow[models.Order] {
	return orderList
}

// respondWriteError maps a failed mutation to the JSON error envelope. The
// user's form input was never discarded; the caller reports that the form
// stays open by returning the entered data untouched.
func respondWriteError(c *gin.Context, err error) {
	switch {
	case services.IsNetworkError(err):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BACKEND_UNREACHABLE",
				"message": "The commerce backend could not be reached",
				"details": err.Error(),
			},
		})
	case services.IsBackendError(err):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":           "BACKEND_ERROR",
				"message":        "The commerce backend rejected the request",
				"upstreamStatus": services.BackendStatus(err),
				"details":        err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
	}
}

// mutationResult renders the post-mutation list slice. The mutation itself
// succeeded; when the follow-up re-fetch failed the stale indicator carries
// that instead of failing the request.
func mutationResult[T workflow.Entity](list *workflow.ListWorkflow[T]) gin.H {
	stale, staleErr := list.Stale()
	return gin.H{
		"items":      list.VisiblePage(),
		"totalPages": list.TotalPages(),
		"stale":      staleBlock(stale, staleErr),
	}
}

// staleBlock renders the stale-but-available indicator for list responses
func staleBlock(stale bool, err error) gin.H {
	block := gin.H{"stale": stale}
	if err != nil {
		block["error"] = err.Error()
	}
	return block
}
