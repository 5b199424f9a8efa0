package bookstoreserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	ordersapp "github.com/libreria/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/libreria/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service and
// the checkout workflow orchestrator.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Order is the transport shape of a placed order.
type Order struct {
	ID        string      `json:"id"`
	User      OrderUser   `json:"user"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderUser is the customer snapshot stored on the order.
type OrderUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderItem is one purchased line with the price captured at checkout.
type OrderItem struct {
	Book     Book    `json:"book"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// UpdateOrderStatusRequest is the payload for the status transition endpoint.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func fromDomainOrder(order *ordersdomain.Order) Order {
	out := Order{
		ID:        order.ID,
		User:      OrderUser{ID: order.User.ID, Name: order.User.Name, Email: order.User.Email},
		Items:     make([]OrderItem, 0, len(order.Items)),
		Total:     order.Total,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	for _, line := range order.Items {
		out.Items = append(out.Items, OrderItem{
			Book:     fromDomainBook(&line.Book),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal(),
		})
	}
	return out
}

func fromDomainOrderList(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, fromDomainOrder(order))
	}
	return out
}

// Post /api/orders/checkout
// Place an order from the authenticated user's cart
func (api *OrderAPI) Checkout(c *gin.Context) {
	claims, ok := authenticatedClaims(c)
	if !ok {
		return
	}
	input := ordersports.CheckoutInput{
		User: ordersdomain.Customer{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
		},
		IdempotencyKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	}
	order, err := api.checkout(c.Request.Context(), input)
	if err != nil {
		// The cart clear can fail after the order is committed. The order
		// stands, so acknowledge it; a 500 here would invite a retry that
		// places the order twice.
		if order != nil && errors.Is(err, ordersapp.ErrCartNotCleared) {
			c.JSON(http.StatusCreated, fromDomainOrder(order))
			return
		}
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainOrder(order))
}

func (api *OrderAPI) checkout(ctx context.Context, input ordersports.CheckoutInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, input)
	}
	return api.service.Checkout(ctx, input)
}

// Get /api/orders
// List the authenticated user's orders
func (api *OrderAPI) GetUserOrders(c *gin.Context) {
	claims, ok := authenticatedClaims(c)
	if !ok {
		return
	}
	orders, err := api.service.GetUserOrders(c.Request.Context(), claims.Subject)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrderList(orders))
}

// Get /api/orders/status/:status
// List orders in a given status
func (api *OrderAPI) GetOrdersByStatus(c *gin.Context) {
	orders, err := api.service.GetOrdersByStatus(c.Request.Context(), ordersdomain.Status(c.Param("status")))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrderList(orders))
}

// Patch /api/orders/:orderId/status
// Transition an order to a new status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), ordersdomain.Status(payload.Status))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}
