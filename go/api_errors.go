package bookstoreserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	cartports "github.com/libreria/bookstore-api/internal/domains/cart/ports"
	catalogapp "github.com/libreria/bookstore-api/internal/domains/catalog/application"
	catalogports "github.com/libreria/bookstore-api/internal/domains/catalog/ports"
	ordersapp "github.com/libreria/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/libreria/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"
	usersapp "github.com/libreria/bookstore-api/internal/domains/users/application"
	usersdomain "github.com/libreria/bookstore-api/internal/domains/users/domain"
	usersports "github.com/libreria/bookstore-api/internal/domains/users/ports"
	apierrors "github.com/libreria/bookstore-api/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError returns an RFC 7807 response for the given status.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	case http.StatusUnprocessableEntity:
		problem = apierrors.ErrUnprocessable.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

func respondCatalogError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, catalogports.ErrNotFound), errors.Is(err, catalogports.ErrAuthorNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, catalogapp.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

func respondCartError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, cartports.ErrNotFound), errors.Is(err, catalogports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, cartdomain.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

func respondOrderError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, ordersports.ErrNotFound), errors.Is(err, catalogports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, ordersapp.ErrInsufficientStock):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, ordersdomain.ErrEmptyCart):
		respondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, ordersapp.ErrInvalidInput), errors.Is(err, ordersdomain.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

func respondUserError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, usersports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, usersports.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, usersapp.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, usersapp.ErrInvalidInput),
		errors.Is(err, usersdomain.ErrWeakPassword),
		errors.Is(err, usersdomain.ErrInvalidEmail):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}
