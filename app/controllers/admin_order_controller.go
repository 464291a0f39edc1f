package controllers

import (
	"net/http"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/bind"
	"github.com/velocart/velocart/pkg/response"
)

// AdminOrderController serves the order management board.
type AdminOrderController struct {
	orders *services.OrderService
}

func NewAdminOrderController(orders *services.OrderService) *AdminOrderController {
	return &AdminOrderController{orders: orders}
}

// Index returns every order with items, buyer email and assigned rider.
func (c *AdminOrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.AdminList()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

type updateStatusInput struct {
	Status  string `json:"status" validate:"required"`
	RiderID *uint  `json:"rider_id"`
}

// UpdateStatus moves an order through the lifecycle, assigning a rider
// when shipping.
func (c *AdminOrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var in updateStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(id, in.Status, in.RiderID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}
