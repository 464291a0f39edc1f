package controllers

import (
	"net/http"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/bind"
	"github.com/velocart/velocart/pkg/response"
)

// OrderController serves the authenticated customer's orders.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store places a new order for the authenticated user.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.PlaceOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.PlaceOrder(ident, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// Index returns the authenticated user's orders, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.ListMine(ident.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}
