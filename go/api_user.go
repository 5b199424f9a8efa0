package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/libreria/bookstore-api/internal/domains/users/domain"
	usersports "github.com/libreria/bookstore-api/internal/domains/users/ports"
	"github.com/libreria/bookstore-api/internal/platform/auth"
)

// UserAPI wires HTTP transport with the users bounded context service and the
// token issuer for login.
type UserAPI struct {
	service usersports.Service
	issuer  *auth.Issuer
}

// NewUserAPI creates a UserAPI backed by the provided service.
func NewUserAPI(service usersports.Service, issuer *auth.Issuer) UserAPI {
	return UserAPI{service: service, issuer: issuer}
}

// User is the transport shape of an account. Password is accepted on input
// and never echoed back.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// UpdateUserRequest is a partial patch; absent fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token plus the account it identifies.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func fromDomainUser(user *usersdomain.User) User {
	return User{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email.String(),
		Role:  string(user.Role),
	}
}

func fromDomainProfile(profile usersdomain.Profile) User {
	return User{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Role:  string(profile.Role),
	}
}

// Post /api/auth/login
// Authenticate and issue a bearer token
func (api *UserAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	user, err := api.service.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondUserError(c, err)
		return
	}
	token, err := api.issuer.IssueToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: fromDomainUser(user)})
}

// Get /api/users
// List account profiles
func (api *UserAPI) ListUsers(c *gin.Context) {
	profiles, err := api.service.ListUsers(c.Request.Context())
	if err != nil {
		respondUserError(c, err)
		return
	}
	out := make([]User, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, fromDomainProfile(profile))
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/users
// Create a new account
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	role := usersdomain.Role(payload.Role)
	if payload.Role == "" {
		role = usersdomain.RoleUser
	}
	input := usersports.CreateUserInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     role,
	}
	user, err := api.service.CreateUser(c.Request.Context(), input)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainUser(user))
}

// Put /api/users/:userId
// Update an account
func (api *UserAPI) UpdateUser(c *gin.Context) {
	var payload UpdateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	patch := usersports.UpdateUserInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	}
	if payload.Role != nil {
		role := usersdomain.Role(*payload.Role)
		patch.Role = &role
	}
	user, err := api.service.UpdateUser(c.Request.Context(), c.Param("userId"), patch)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainUser(user))
}

// Delete /api/users/:userId
// Delete an account
func (api *UserAPI) DeleteUser(c *gin.Context) {
	if err := api.service.DeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
		respondUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
