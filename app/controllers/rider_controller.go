package controllers

import (
	"net/http"
	"time"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/bind"
	"github.com/velocart/velocart/pkg/response"
	"github.com/velocart/velocart/pkg/sse"
)

// RiderController serves the rider-facing delivery endpoints.
type RiderController struct {
	orders *services.OrderService
	riders *services.RiderService
	board  *services.DeliveryBoard
}

func NewRiderController(orders *services.OrderService, riders *services.RiderService, board *services.DeliveryBoard) *RiderController {
	return &RiderController{orders: orders, riders: riders, board: board}
}

// Orders returns the orders assigned to the authenticated rider.
func (c *RiderController) Orders(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.RiderOrders(ident.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

type deliveryStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus lets the assigned rider close out an order as Delivered or
// Undelivered.
func (c *RiderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var in deliveryStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.MarkDelivery(ident.Email, id, in.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// Stream pushes assignment updates to the rider over SSE until the client
// disconnects.
func (c *RiderController) Stream(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	rider, err := c.riders.FindByEmail(ident.Email)
	if err != nil {
		fail(w, r, err)
		return
	}

	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	updates, cancel := c.board.Subscribe(rider.ID)
	defer cancel()

	stream.Comment("connected")

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case update := <-updates:
			if err := stream.Send("order_update", update); err != nil {
				return
			}
		case <-heartbeat.C:
			stream.Comment("ping")
		}
	}
}
