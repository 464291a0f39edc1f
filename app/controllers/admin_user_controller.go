package controllers

import (
	"net/http"
	"strconv"

	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/pkg/response"
)

// AdminUserController serves the account listing used to review the
// approved flag on local accounts.
type AdminUserController struct {
	users *repositories.UserRepository
}

func NewAdminUserController(users *repositories.UserRepository) *AdminUserController {
	return &AdminUserController{users: users}
}

// Index returns one page of accounts. Page bounds are clamped by the query
// layer, so bad query params fall back to the defaults.
func (c *AdminUserController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, pagination, err := c.users.All(page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, users, pagination)
}
