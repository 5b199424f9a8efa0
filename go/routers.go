package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/libreria/bookstore-api/internal/domains/users/domain"
	"github.com/libreria/bookstore-api/internal/platform/auth"
)

// Route is the information for every API endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	Middleware  []gin.HandlerFunc
	HandlerFunc gin.HandlerFunc
}

// Routes is a map of defined API endpoints.
type Routes []Route

// ApiHandleFunctions groups the handler sets for each bounded context.
type ApiHandleFunctions struct {
	BookAPI  BookAPI
	CartAPI  CartAPI
	OrderAPI OrderAPI
	UserAPI  UserAPI
}

// NewRouter returns a new gin engine with all API routes attached.
func NewRouter(issuer *auth.Issuer, handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), issuer, handleFunctions)
}

// NewRouterWithGinEngine attaches the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, issuer *auth.Issuer, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(issuer, handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandleFunc
		}
		chain := append(append([]gin.HandlerFunc{}, route.Middleware...), route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

// defaultHandleFunc responds for routes without a bound implementation.
func defaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(issuer *auth.Issuer, handleFunctions ApiHandleFunctions) Routes {
	authenticated := []gin.HandlerFunc{auth.RequireAuth(issuer)}
	adminOnly := []gin.HandlerFunc{auth.RequireAuth(issuer), auth.RequireRole(string(usersdomain.RoleAdmin))}

	return Routes{
		{
			Name:        "Index",
			Method:      http.MethodGet,
			Pattern:     "/",
			HandlerFunc: index,
		},
		{
			Name:        "Login",
			Method:      http.MethodPost,
			Pattern:     "/api/auth/login",
			HandlerFunc: handleFunctions.UserAPI.Login,
		},
		{
			Name:        "ListBooks",
			Method:      http.MethodGet,
			Pattern:     "/api/books",
			HandlerFunc: handleFunctions.BookAPI.ListBooks,
		},
		{
			Name:        "GetBookById",
			Method:      http.MethodGet,
			Pattern:     "/api/books/:bookId",
			HandlerFunc: handleFunctions.BookAPI.GetBookById,
		},
		{
			Name:        "AddBook",
			Method:      http.MethodPost,
			Pattern:     "/api/books",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.BookAPI.AddBook,
		},
		{
			Name:        "UpdateBook",
			Method:      http.MethodPut,
			Pattern:     "/api/books/:bookId",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.BookAPI.UpdateBook,
		},
		{
			Name:        "DeleteBook",
			Method:      http.MethodDelete,
			Pattern:     "/api/books/:bookId",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.BookAPI.DeleteBook,
		},
		{
			Name:        "ListAuthors",
			Method:      http.MethodGet,
			Pattern:     "/api/authors",
			HandlerFunc: handleFunctions.BookAPI.ListAuthors,
		},
		{
			Name:        "GetAuthorById",
			Method:      http.MethodGet,
			Pattern:     "/api/authors/:authorId",
			HandlerFunc: handleFunctions.BookAPI.GetAuthorById,
		},
		{
			Name:        "AddAuthor",
			Method:      http.MethodPost,
			Pattern:     "/api/authors",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.BookAPI.AddAuthor,
		},
		{
			Name:        "UpdateAuthor",
			Method:      http.MethodPut,
			Pattern:     "/api/authors/:authorId",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.BookAPI.UpdateAuthor,
		},
		{
			Name:        "DeleteAuthor",
			Method:      http.MethodDelete,
			Pattern:     "/api/authors/:authorId",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.BookAPI.DeleteAuthor,
		},
		{
			Name:        "ListUsers",
			Method:      http.MethodGet,
			Pattern:     "/api/users",
			HandlerFunc: handleFunctions.UserAPI.ListUsers,
		},
		{
			Name:        "CreateUser",
			Method:      http.MethodPost,
			Pattern:     "/api/users",
			HandlerFunc: handleFunctions.UserAPI.CreateUser,
		},
		{
			Name:        "UpdateUser",
			Method:      http.MethodPut,
			Pattern:     "/api/users/:userId",
			HandlerFunc: handleFunctions.UserAPI.UpdateUser,
		},
		{
			Name:        "DeleteUser",
			Method:      http.MethodDelete,
			Pattern:     "/api/users/:userId",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.UserAPI.DeleteUser,
		},
		{
			Name:        "GetCart",
			Method:      http.MethodGet,
			Pattern:     "/api/cart",
			Middleware:  authenticated,
			HandlerFunc: handleFunctions.CartAPI.GetCart,
		},
		{
			Name:        "AddCartItem",
			Method:      http.MethodPost,
			Pattern:     "/api/cart/items",
			Middleware:  authenticated,
			HandlerFunc: handleFunctions.CartAPI.AddCartItem,
		},
		{
			Name:        "RemoveCartItem",
			Method:      http.MethodDelete,
			Pattern:     "/api/cart/items/:bookId",
			Middleware:  authenticated,
			HandlerFunc: handleFunctions.CartAPI.RemoveCartItem,
		},
		{
			Name:        "ClearCart",
			Method:      http.MethodDelete,
			Pattern:     "/api/cart",
			Middleware:  authenticated,
			HandlerFunc: handleFunctions.CartAPI.ClearCart,
		},
		{
			Name:        "Checkout",
			Method:      http.MethodPost,
			Pattern:     "/api/orders/checkout",
			Middleware:  authenticated,
			HandlerFunc: handleFunctions.OrderAPI.Checkout,
		},
		{
			Name:        "GetUserOrders",
			Method:      http.MethodGet,
			Pattern:     "/api/orders",
			Middleware:  authenticated,
			HandlerFunc: handleFunctions.OrderAPI.GetUserOrders,
		},
		{
			Name:        "GetOrdersByStatus",
			Method:      http.MethodGet,
			Pattern:     "/api/orders/status/:status",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.OrderAPI.GetOrdersByStatus,
		},
		{
			Name:        "UpdateOrderStatus",
			Method:      http.MethodPatch,
			Pattern:     "/api/orders/:orderId/status",
			Middleware:  adminOnly,
			HandlerFunc: handleFunctions.OrderAPI.UpdateOrderStatus,
		},
	}
}

// index confirms the API is up.
func index(c *gin.Context) {
	c.String(http.StatusOK, "Bookstore API running")
}
