package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/event"
)

func TestRiderCreateRejectsDuplicateEmail(t *testing.T) {
	q := newQuery(t)
	svc := services.NewRiderService(q)

	rider, err := svc.Create(services.RiderInput{Name: "Riya", Email: "riya@example.com"})
	require.NoError(t, err)
	require.NotZero(t, rider.ID)

	_, err = svc.Create(services.RiderInput{Name: "Riya Again", Email: "riya@example.com"})
	wantStatus(t, err, 409)
}

func TestRiderDeleteGuard(t *testing.T) {
	q := newQuery(t)
	svc := services.NewRiderService(q)
	orders := services.NewOrderService(q, event.NewBus())

	rider := seedRider(t, q, "Riya", "riya@example.com")
	order := placeTestOrder(t, orders, q)

	_, err := orders.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	require.NoError(t, err)

	// Any assignment, past or present, blocks deletion.
	err = svc.Delete(rider.ID)
	wantStatus(t, err, 409)

	_, err = orders.MarkDelivery(rider.Email, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	err = svc.Delete(rider.ID)
	wantStatus(t, err, 409)
}

func TestRiderDelete(t *testing.T) {
	q := newQuery(t)
	svc := services.NewRiderService(q)
	rider := seedRider(t, q, "Riya", "riya@example.com")

	require.NoError(t, svc.Delete(rider.ID))

	err := svc.Delete(rider.ID)
	wantStatus(t, err, 404)

	// A deleted rider's email can be reused.
	again, err := svc.Create(services.RiderInput{Name: "Riya", Email: "riya@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, again.ID)
}

func TestRiderListReportsLoad(t *testing.T) {
	q := newQuery(t)
	svc := services.NewRiderService(q)
	orders := services.NewOrderService(q, event.NewBus())

	busy := seedRider(t, q, "Riya", "riya@example.com")
	idle := seedRider(t, q, "Dev", "dev@example.com")

	order := placeTestOrder(t, orders, q)
	_, err := orders.UpdateStatus(order.ID, models.StatusShipped, &busy.ID)
	require.NoError(t, err)

	riders, err := svc.List()
	require.NoError(t, err)
	require.Len(t, riders, 2)

	loads := map[uint]int64{}
	for _, r := range riders {
		loads[r.ID] = r.AssignedOrders
	}
	assert.Equal(t, int64(1), loads[busy.ID])
	assert.Equal(t, int64(0), loads[idle.ID])
}
