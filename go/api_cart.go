package bookstoreserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	cartports "github.com/libreria/bookstore-api/internal/domains/cart/ports"
	catalogports "github.com/libreria/bookstore-api/internal/domains/catalog/ports"
	"github.com/libreria/bookstore-api/internal/platform/auth"
)

// CartAPI wires HTTP transport with the cart bounded context service. It
// resolves books through the catalog so cart lines carry price snapshots.
type CartAPI struct {
	service cartports.Service
	catalog catalogports.Service
}

// NewCartAPI creates a CartAPI backed by the provided services.
func NewCartAPI(service cartports.Service, catalog catalogports.Service) CartAPI {
	return CartAPI{service: service, catalog: catalog}
}

// CartLine is the transport shape of one cart entry.
type CartLine struct {
	Book     Book    `json:"book"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// Cart is the transport shape of the whole cart.
type Cart struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// AddCartItemRequest is the payload for adding a book to the cart.
type AddCartItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func fromDomainCart(lines []cartdomain.Line) Cart {
	cart := Cart{Items: make([]CartLine, 0, len(lines))}
	for _, line := range lines {
		cart.Items = append(cart.Items, CartLine{
			Book:     fromDomainBook(&line.Book),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal(),
		})
	}
	cart.Total = cartdomain.Total(lines)
	return cart
}

// authenticatedClaims pulls the verified token claims set by the auth
// middleware, responding 401 when they are absent.
func authenticatedClaims(c *gin.Context) (*auth.Claims, bool) {
	claims := auth.ClaimsFromContext(c)
	if claims == nil || claims.Subject == "" {
		respondError(c, http.StatusUnauthorized, errors.New("missing authenticated user"))
		return nil, false
	}
	return claims, true
}

func authenticatedUserID(c *gin.Context) (string, bool) {
	claims, ok := authenticatedClaims(c)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// Get /api/cart
// Show the authenticated user's cart
func (api *CartAPI) GetCart(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	lines, err := api.service.Items(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCart(lines))
}

// Post /api/cart/items
// Add a book to the authenticated user's cart
func (api *CartAPI) AddCartItem(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	var payload AddCartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	book, err := api.catalog.GetBook(c.Request.Context(), payload.BookID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	lines, err := api.service.AddBook(c.Request.Context(), userID, *book, payload.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCart(lines))
}

// Delete /api/cart/items/:bookId
// Remove a book from the authenticated user's cart
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	lines, err := api.service.RemoveBook(c.Request.Context(), userID, c.Param("bookId"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCart(lines))
}

// Delete /api/cart
// Empty the authenticated user's cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	if err := api.service.Clear(c.Request.Context(), userID); err != nil {
		respondCartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
