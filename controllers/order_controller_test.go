package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/services"
	"github.com/lvalverde/commerce-admin-api/utils"
)

func orderRoutes(router *gin.Engine) {
	router.GET("/orders", ListOrders)
	router.GET("/orders/:id", GetOrder)
	router.POST("/orders/draft", OpenOrderDraft)
	router.DELETE("/orders/draft", CloseOrderDraft)
	router.PUT("/orders/draft/customer", SetDraftCustomer)
	router.POST("/orders/draft/rows", AddDraftRow)
	router.PUT("/orders/draft/rows/:key", UpdateDraftRow)
	router.DELETE("/orders/draft/rows/:key", RemoveDraftRow)
	router.POST("/orders/draft/submit", SubmitOrderDraft)
	router.POST("/orders/:id/delete-request", RequestDeleteOrder)
	router.POST("/orders/:id/delete-confirm", ConfirmDeleteOrder)
	router.POST("/orders/:id/delete-cancel", CancelDeleteOrder)
}

func seedOrderFixtures(client *services.MockAPIClient) (models.Customer, models.Product) {
	customer := client.SeedCustomer(models.Customer{
		FirstName: "Ana", LastName: "Li", Email: "ana@example.com", Phone: "555-0001",
	})
	product := client.SeedProduct(models.Product{Name: "Polish", Brand: "Glow", Price: 4.50})
	client.SeedProduct(models.Product{Name: "Topcoat", Brand: "Glow", Price: 7.25})
	return customer, product
}

func TestOrderDraftComposeAndSubmit(t *testing.T) {
	client := setupMockBackend(t)
	customer, product := seedOrderFixtures(client)

	router := setupTestRouter()
	orderRoutes(router)

	// Open a blank draft: one empty row, both reference lists loaded
	w := performRequest(router, http.MethodPost, "/orders/draft", map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["editingOrderId"])
	rows := data["rows"].([]interface{})
	require.Len(t, rows, 1)
	firstRow := rows[0].(map[string]interface{})
	assert.Equal(t, float64(0), firstRow["productId"])
	assert.Equal(t, float64(1), firstRow["quantity"])
	assert.Len(t, data["customers"].([]interface{}), 1)
	assert.Len(t, data["products"].([]interface{}), 2)

	// Select the customer
	w = performRequest(router, http.MethodPut, "/orders/draft/customer", map[string]interface{}{
		"customerId": customer.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Fill the first row by its key
	key := firstRow["key"].(string)
	w = performRequest(router, http.MethodPut, "/orders/draft/rows/"+key, map[string]interface{}{
		"productId": product.ID,
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Add a second row and leave it empty; submit drops it
	w = performRequest(router, http.MethodPost, "/orders/draft/rows", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data = parseResponse(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["rows"].([]interface{}), 2)

	w = performRequest(router, http.MethodPost, "/orders/draft/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = parseResponse(t, w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)

	created := items[0].(map[string]interface{})
	assert.Equal(t, utils.Today(), created["orderDate"])
	assert.Equal(t, float64(customer.ID), created["customerId"])
	orderItems := created["items"].([]interface{})
	require.Len(t, orderItems, 1, "the blank second row was dropped")
	line := orderItems[0].(map[string]interface{})
	assert.Equal(t, float64(product.ID), line["productId"])
	assert.Equal(t, float64(2), line["quantity"])
	assert.Equal(t, 9.0, line["subtotal"], "the backend computed the subtotal")

	assert.Contains(t, client.Calls(), "CreateOrder")

	// The draft closed on success; further row edits are rejected
	w = performRequest(router, http.MethodPost, "/orders/draft/rows", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	errorData := parseResponse(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "NO_DRAFT_OPEN", errorData["code"])
}

func TestOrderDraftEditExistingOrder(t *testing.T) {
	client := setupMockBackend(t)
	customer, product := seedOrderFixtures(client)
	seeded := client.SeedOrder(models.Order{
		OrderDate:  "2026-01-15",
		CustomerID: customer.ID,
		Items:      []models.OrderItem{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, OrderWorkflow().Refresh(context.Background()))

	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodPost, "/orders/draft", map[string]interface{}{
		"orderId": seeded.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(seeded.ID), data["editingOrderId"])
	assert.Equal(t, float64(customer.ID), data["customerId"])
	rows := data["rows"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, float64(product.ID), rows[0].(map[string]interface{})["productId"])

	w = performRequest(router, http.MethodPost, "/orders/draft/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, client.Calls(), fmt.Sprintf("UpdateOrder:%d", seeded.ID))
	updated, found := OrderWorkflow().Find(seeded.ID)
	require.True(t, found)
	assert.Equal(t, utils.Today(), updated.OrderDate, "the date is re-stamped on edit")
}

func TestOpenOrderDraftUnknownOrder(t *testing.T) {
	setupMockBackend(t)
	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodPost, "/orders/draft", map[string]interface{}{
		"orderId": 99,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	errorData := parseResponse(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}

func TestOpenOrderDraftBackendDown(t *testing.T) {
	client := setupMockBackend(t)
	seedOrderFixtures(client)
	client.FailWith("ListProducts", &services.NetworkError{Op: "GET /products"})

	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodPost, "/orders/draft", map[string]interface{}{})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	errorData := parseResponse(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "BACKEND_UNREACHABLE", errorData["code"])
}

func TestUpdateDraftRowUnknownKey(t *testing.T) {
	client := setupMockBackend(t)
	seedOrderFixtures(client)

	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodPost, "/orders/draft", map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodPut, "/orders/draft/rows/no-such-key", map[string]interface{}{
		"quantity": 3,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	errorData := parseResponse(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "ROW_NOT_FOUND", errorData["code"])
}

func TestCloseOrderDraftDiscardsRows(t *testing.T) {
	client := setupMockBackend(t)
	customer, product := seedOrderFixtures(client)

	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodPost, "/orders/draft", map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	key := data["rows"].([]interface{})[0].(map[string]interface{})["key"].(string)

	performRequest(router, http.MethodPut, "/orders/draft/customer", map[string]interface{}{"customerId": customer.ID})
	performRequest(router, http.MethodPut, "/orders/draft/rows/"+key, map[string]interface{}{
		"productId": product.ID, "quantity": 2,
	})

	w = performRequest(router, http.MethodDelete, "/orders/draft", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Nothing was saved and the draft is gone
	assert.NotContains(t, client.Calls(), "CreateOrder")
	w = performRequest(router, http.MethodPost, "/orders/draft/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteOrderConfirmationFlow(t *testing.T) {
	client := setupMockBackend(t)
	customer, product := seedOrderFixtures(client)
	seeded := client.SeedOrder(models.Order{
		OrderDate:  "2026-01-15",
		CustomerID: customer.ID,
		Items:      []models.OrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, OrderWorkflow().Refresh(context.Background()))

	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/orders/%d/delete-request", seeded.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, fmt.Sprintf("Delete order Order #%d?", seeded.ID), data["message"])

	// Confirming a different id than the armed one is rejected
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/orders/%d/delete-confirm", seeded.ID+1), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(router, http.MethodPost, fmt.Sprintf("/orders/%d/delete-confirm", seeded.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, client.Calls(), fmt.Sprintf("DeleteOrder:%d", seeded.ID))
}

func TestListOrdersSearchMatchesCustomerAndDate(t *testing.T) {
	client := setupMockBackend(t)
	customer, product := seedOrderFixtures(client)
	client.SeedOrder(models.Order{
		OrderDate:         "2026-01-15",
		CustomerID:        customer.ID,
		CustomerFirstName: customer.FirstName,
		CustomerLastName:  customer.LastName,
		Items:             []models.OrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	client.SeedOrder(models.Order{OrderDate: "2026-02-20", CustomerID: 999})

	router := setupTestRouter()
	orderRoutes(router)

	w := performRequest(router, http.MethodGet, "/orders?search=ana", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalCount"], "matched on the customer name")

	w = performRequest(router, http.MethodGet, "/orders?search=2026-02", nil)
	data = parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalCount"], "matched on the order date")
}
