package controllers

import (
	"net/http"
	"time"

	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/config"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/bind"
	"github.com/velocart/velocart/pkg/response"
)

// AuthController serves token verification and, in local mode, token
// issuance for development.
type AuthController struct {
	users  *repositories.UserRepository
	issuer *auth.HMACVerifier
}

func NewAuthController(users *repositories.UserRepository, issuer *auth.HMACVerifier) *AuthController {
	return &AuthController{users: users, issuer: issuer}
}

// Verify confirms the bearer token maps to an approved local account. The
// authentication middleware has already done the work; this just echoes
// the identity back.
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]interface{}{
		"id":       ident.ID,
		"email":    ident.Email,
		"role":     ident.Role,
		"approved": true,
	})
}

// VerifyAdmin is Verify behind the admin role gate.
func (c *AuthController) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	c.Verify(w, r)
}

type tokenInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token exchanges email and password for a signed token. Only mounted in
// local mode, where no external identity provider is available.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	if !config.IsLocal() {
		response.NotFound(w, "")
		return
	}

	var in tokenInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.FindByEmail(in.Email)
	if err != nil || !auth.CheckPassword(user.Password, in.Password) {
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := c.issuer.Issue(user.Email, user.Role, 24*time.Hour)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"token": token})
}
