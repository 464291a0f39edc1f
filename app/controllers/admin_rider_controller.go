package controllers

import (
	"net/http"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/bind"
	"github.com/velocart/velocart/pkg/response"
)

// AdminRiderController serves rider roster management.
type AdminRiderController struct {
	riders *services.RiderService
	orders *services.OrderService
}

func NewAdminRiderController(riders *services.RiderService, orders *services.OrderService) *AdminRiderController {
	return &AdminRiderController{riders: riders, orders: orders}
}

// Index returns every rider with their current assignment count.
func (c *AdminRiderController) Index(w http.ResponseWriter, r *http.Request) {
	riders, err := c.riders.List()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, riders)
}

// Store registers a new rider.
func (c *AdminRiderController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.RiderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rider, err := c.riders.Create(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, rider)
}

// Orders returns the orders assigned to one rider.
func (c *AdminRiderController) Orders(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid rider ID")
		return
	}

	orders, err := c.orders.OrdersForRider(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Destroy removes a rider. Riders with any assignment cannot be removed.
func (c *AdminRiderController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid rider ID")
		return
	}

	if err := c.riders.Delete(id); err != nil {
		fail(w, r, err)
		return
	}
	response.NoContent(w)
}
