package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/lvalverde/commerce-admin-api/config"
	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/services"
	"github.com/lvalverde/commerce-admin-api/tests/testutil"
	"github.com/lvalverde/commerce-admin-api/workflow"
)

// fakeBackend is an in-memory stand-in for the commerce REST backend. It
// implements the same routes and derived-field behavior (item subtotals and
// order totals are computed server-side from the stored products).
type fakeBackend struct {
	customers []models.Customer
	products  []models.Product
	orders    []models.Order

	nextCustomerID int
	nextProductID  int
	nextOrderID    int
	nextItemID     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextCustomerID: 1, nextProductID: 1, nextOrderID: 1, nextItemID: 1}
}

func (b *fakeBackend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/customers", func(c *gin.Context) {
		c.JSON(http.StatusOK, b.customers)
	})
	r.POST("/customers", func(c *gin.Context) {
		var payload models.CustomerPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		customer := models.Customer{
			ID:        b.nextCustomerID,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Email:     payload.Email,
			Phone:     payload.Phone,
		}
		b.nextCustomerID++
		b.customers = append(b.customers, customer)
		c.JSON(http.StatusCreated, customer)
	})
	r.PUT("/customers/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		var payload models.CustomerPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for i := range b.customers {
			if b.customers[i].ID == id {
				b.customers[i] = models.Customer{
					ID: id, FirstName: payload.FirstName, LastName: payload.LastName,
					Email: payload.Email, Phone: payload.Phone,
				}
				c.JSON(http.StatusOK, b.customers[i])
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
	})
	r.DELETE("/customers/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		for i := range b.customers {
			if b.customers[i].ID == id {
				b.customers = append(b.customers[:i], b.customers[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
	})

	r.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, b.products)
	})
	r.POST("/products", func(c *gin.Context) {
		var payload models.ProductPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product := models.Product{
			ID: b.nextProductID, Name: payload.Name, Brand: payload.Brand,
			Price: payload.Price, Description: payload.Description,
			Notes: payload.Notes, Category: payload.Category,
		}
		b.nextProductID++
		b.products = append(b.products, product)
		c.JSON(http.StatusCreated, product)
	})

	r.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, b.orders)
	})
	r.GET("/orders/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		for _, o := range b.orders {
			if o.ID == id {
				c.JSON(http.StatusOK, o)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	})
	r.GET("/orders/customers/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		out := []models.Order{}
		for _, o := range b.orders {
			if o.CustomerID == id {
				out = append(out, o)
			}
		}
		c.JSON(http.StatusOK, out)
	})
	r.POST("/orders", func(c *gin.Context) {
		var payload models.OrderPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order := b.buildOrder(b.nextOrderID, payload)
		b.nextOrderID++
		b.orders = append(b.orders, order)
		c.JSON(http.StatusCreated, order)
	})
	r.PUT("/orders/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		var payload models.OrderPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for i := range b.orders {
			if b.orders[i].ID == id {
				b.orders[i] = b.buildOrder(id, payload)
				c.JSON(http.StatusOK, b.orders[i])
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	})
	r.DELETE("/orders/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		for i := range b.orders {
			if b.orders[i].ID == id {
				b.orders = append(b.orders[:i], b.orders[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	})

	return r
}

func (b *fakeBackend) buildOrder(id int, payload models.OrderPayload) models.Order {
	order := models.Order{ID: id, OrderDate: payload.OrderDate, CustomerID: payload.CustomerID}
	for _, c := range b.customers {
		if c.ID == payload.CustomerID {
			order.CustomerFirstName = c.FirstName
			order.CustomerLastName = c.LastName
			break
		}
	}
	for _, item := range payload.Items {
		line := models.OrderItem{ID: b.nextItemID, ProductID: item.ProductID, Quantity: item.Quantity}
		b.nextItemID++
		for _, p := range b.products {
			if p.ID == item.ProductID {
				line.ProductName = p.Name
				line.Subtotal = p.Price * float64(item.Quantity)
				break
			}
		}
		order.TotalAmount += line.Subtotal
		order.Items = append(order.Items, line)
	}
	return order
}

// BackendIntegrationTestSuite exercises the real HTTP client and the list
// workflows against a live (fake) backend server
type BackendIntegrationTestSuite struct {
	suite.Suite
	backend *fakeBackend
	server  *httptest.Server
	client  *services.HTTPAPIClient
}

func (suite *BackendIntegrationTestSuite) SetupSuite() {
	testutil.MustSetTestEnvironment(suite.T())
}

func (suite *BackendIntegrationTestSuite) SetupTest() {
	testutil.RequireTestEnvironment(suite.T())
	suite.backend = newFakeBackend()
	suite.server = httptest.NewServer(suite.backend.router())
	suite.client = services.NewHTTPAPIClient(&config.Config{
		BackendBaseURL: suite.server.URL,
		BackendTimeout: 5 * time.Second,
	})
}

func (suite *BackendIntegrationTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *BackendIntegrationTestSuite) customerWorkflow() *workflow.ListWorkflow[models.Customer] {
	return workflow.NewListWorkflow("customer", workflow.ListOps[models.Customer]{
		Fetch: suite.client.ListCustomers,
		Create: func(ctx context.Context, c models.Customer) error {
			_, err := suite.client.CreateCustomer(ctx, c.Payload())
			return err
		},
		Update: func(ctx context.Context, id int, c models.Customer) error {
			_, err := suite.client.UpdateCustomer(ctx, id, c.Payload())
			return err
		},
		Delete: suite.client.DeleteCustomer,
	})
}

func (suite *BackendIntegrationTestSuite) TestCustomerLifecycle() {
	ctx := context.Background()
	wf := suite.customerWorkflow()

	suite.NoError(wf.Refresh(ctx))
	suite.Empty(wf.Collection())

	// Create through the workflow; the backend assigns the id
	wf.StartAdd()
	suite.NoError(wf.Save(ctx, models.Customer{
		FirstName: "Ana", LastName: "Li", Email: "ana@example.com", Phone: "555-0001",
	}))
	collection := wf.Collection()
	suite.Require().Len(collection, 1)
	created := collection[0]
	suite.NotZero(created.ID)

	// Edit and save back
	wf.StartEdit(created)
	created.Phone = "555-0002"
	suite.NoError(wf.Save(ctx, created))
	updated, found := wf.Find(created.ID)
	suite.Require().True(found)
	suite.Equal("555-0002", updated.Phone)

	// Two-step delete
	wf.RequestDelete(updated)
	suite.NoError(wf.ConfirmDelete(ctx))
	suite.Empty(wf.Collection())
	suite.Empty(suite.backend.customers)
}

func (suite *BackendIntegrationTestSuite) TestOrderComposeAgainstBackend() {
	ctx := context.Background()

	customer, err := suite.client.CreateCustomer(ctx, models.CustomerPayload{
		FirstName: "Ana", LastName: "Li", Email: "ana@example.com", Phone: "555-0001",
	})
	suite.Require().NoError(err)
	product, err := suite.client.CreateProduct(ctx, models.ProductPayload{
		Name: "Polish", Brand: "Glow", Price: 4.50,
	})
	suite.Require().NoError(err)

	// Compose through the draft editor backed by the real client
	draft := workflow.NewOrderDraft(suite.client)
	suite.Require().NoError(draft.Open(ctx, nil))
	suite.Len(draft.Customers(), 1)
	suite.Len(draft.Products(), 1)

	suite.NoError(draft.SetCustomer(customer.ID))
	rows := draft.Rows()
	suite.Require().Len(rows, 1)
	suite.NoError(draft.SetRowProduct(rows[0].Key, product.ID))
	suite.NoError(draft.SetRowQuantity(rows[0].Key, 3))

	submission, err := draft.Submit()
	suite.Require().NoError(err)

	created, err := suite.client.CreateOrder(ctx, submission.Payload)
	suite.Require().NoError(err)

	// The backend computed the derived fields
	suite.Require().Len(created.Items, 1)
	suite.Equal("Polish", created.Items[0].ProductName)
	suite.Equal(13.5, created.Items[0].Subtotal)
	suite.Equal(13.5, created.TotalAmount)
	suite.Equal("Ana", created.CustomerFirstName)

	// And the per-customer listing sees it
	orders, err := suite.client.ListCustomerOrders(ctx, customer.ID)
	suite.Require().NoError(err)
	suite.Len(orders, 1)
}

func (suite *BackendIntegrationTestSuite) TestStaleCollectionWhenBackendStops() {
	ctx := context.Background()
	wf := suite.customerWorkflow()

	_, err := suite.client.CreateCustomer(ctx, models.CustomerPayload{
		FirstName: "Ana", LastName: "Li", Email: "ana@example.com", Phone: "555-0001",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(wf.Refresh(ctx))

	suite.server.Close()

	err = wf.Refresh(ctx)
	suite.Error(err)
	suite.True(services.IsNetworkError(err))

	// Last-known-good data survives the outage
	suite.Len(wf.Collection(), 1)
	stale, staleErr := wf.Stale()
	suite.True(stale)
	suite.Error(staleErr)
}

func TestBackendIntegrationSuite(t *testing.T) {
	suite.Run(t, new(BackendIntegrationTestSuite))
}
