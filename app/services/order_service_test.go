package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/orm"
)

func newOrderService(t *testing.T) (*services.OrderService, *orm.Query) {
	t.Helper()
	q := newQuery(t)
	return services.NewOrderService(q, event.NewBus()), q
}

func identityOf(u models.User) auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

func TestPlaceOrderRecordsClaimedTotal(t *testing.T) {
	svc, q := newOrderService(t)
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	product := seedProduct(t, q, "Classic Tee", 100)

	order, err := svc.PlaceOrder(identityOf(buyer), services.PlaceOrderInput{
		Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		Total: 200,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaid, order.Status)
	assert.Equal(t, int64(200), order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(100), order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)

	stored, err := repositories.NewOrderRepository(q).FindWithItems(order.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, stored.UserID)
	assert.Len(t, stored.Items, 1)
}

func TestPlaceOrderTotalIsNotRecomputed(t *testing.T) {
	svc, q := newOrderService(t)
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	product := seedProduct(t, q, "Classic Tee", 100)

	// The claimed total disagrees with quantity × price; it is recorded
	// as sent, with the per-line price captured server-side.
	order, err := svc.PlaceOrder(identityOf(buyer), services.PlaceOrderInput{
		Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		Total: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.Total)
	assert.Equal(t, int64(100), order.Items[0].Price)
}

func TestPlaceOrderCapturesVariantPrice(t *testing.T) {
	svc, q := newOrderService(t)
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	product := seedProduct(t, q, "Classic Tee", 100)
	variant := seedVariant(t, q, product.ID, "Classic Tee / L", 150)

	order, err := svc.PlaceOrder(identityOf(buyer), services.PlaceOrderInput{
		Items: []services.OrderItemInput{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1}},
		Total: 150,
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(150), order.Items[0].Price)
	require.NotNil(t, order.Items[0].VariantID)
	assert.Equal(t, variant.ID, *order.Items[0].VariantID)
}

func TestPlaceOrderRejectsForeignVariant(t *testing.T) {
	svc, q := newOrderService(t)
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	tee := seedProduct(t, q, "Classic Tee", 100)
	tote := seedProduct(t, q, "Canvas Tote", 80)
	toteVariant := seedVariant(t, q, tote.ID, "Canvas Tote / Blue", 90)

	_, err := svc.PlaceOrder(identityOf(buyer), services.PlaceOrderInput{
		Items: []services.OrderItemInput{{ProductID: tee.ID, VariantID: &toteVariant.ID, Quantity: 1}},
		Total: 90,
	})
	wantStatus(t, err, 400)
}

func TestPlaceOrderUnknownProductLeavesNothingBehind(t *testing.T) {
	svc, q := newOrderService(t)
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	product := seedProduct(t, q, "Classic Tee", 100)

	_, err := svc.PlaceOrder(identityOf(buyer), services.PlaceOrderInput{
		Items: []services.OrderItemInput{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
		Total: 200,
	})
	wantStatus(t, err, 400)

	var orders, items int64
	require.NoError(t, q.Model(&models.Order{}).Count(&orders))
	require.NoError(t, q.Model(&models.OrderItem{}).Count(&items))
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, q := newOrderService(t)
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	product := seedProduct(t, q, "Classic Tee", 100)

	cases := []struct {
		name  string
		input services.PlaceOrderInput
	}{
		{"no items", services.PlaceOrderInput{Total: 100}},
		{"zero total", services.PlaceOrderInput{
			Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		}},
		{"negative total", services.PlaceOrderInput{
			Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
			Total: -5,
		}},
		{"zero quantity", services.PlaceOrderInput{
			Items: []services.OrderItemInput{{ProductID: product.ID}},
			Total: 100,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(identityOf(buyer), tc.input)
			wantStatus(t, err, 400)
		})
	}
}

func placeTestOrder(t *testing.T, svc *services.OrderService, q *orm.Query) models.Order {
	t.Helper()
	buyer := seedUser(t, q, "buyer@example.com", models.RoleCustomer)
	product := seedProduct(t, q, "Classic Tee", 100)
	order, err := svc.PlaceOrder(identityOf(buyer), services.PlaceOrderInput{
		Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		Total: 100,
	})
	require.NoError(t, err)
	return order
}

func TestUpdateStatusShipRequiresRider(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)

	_, err := svc.UpdateStatus(order.ID, models.StatusShipped, nil)
	wantStatus(t, err, 400)

	stored, ferr := repositories.NewOrderRepository(q).Find(order.ID)
	require.NoError(t, ferr)
	assert.Equal(t, models.StatusPaid, stored.Status)
}

func TestUpdateStatusUnknownRider(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)

	riderID := uint(4242)
	_, err := svc.UpdateStatus(order.ID, models.StatusShipped, &riderID)
	wantStatus(t, err, 404)
}

func TestUpdateStatusShipAssignsRider(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)
	rider := seedRider(t, q, "Riya", "riya@example.com")

	updated, err := svc.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	assignment, err := repositories.NewOrderRepository(q).Assignment(order.ID)
	require.NoError(t, err)
	assert.Equal(t, rider.ID, assignment.RiderID)
}

func TestUpdateStatusTransitionMatrix(t *testing.T) {
	svc, q := newOrderService(t)
	rider := seedRider(t, q, "Riya", "riya@example.com")

	// Paid may not jump straight to a terminal status.
	order := placeTestOrder(t, svc, q)
	_, err := svc.UpdateStatus(order.ID, models.StatusDelivered, nil)
	wantStatus(t, err, 409)
	_, err = svc.UpdateStatus(order.ID, models.StatusUndelivered, nil)
	wantStatus(t, err, 409)

	// Paid → Shipped → Delivered, then nothing further.
	_, err = svc.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.ID, models.StatusDelivered, nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	wantStatus(t, err, 409)
	_, err = svc.UpdateStatus(order.ID, models.StatusPaid, nil)
	wantStatus(t, err, 409)
}

func TestUpdateStatusRejectsUnknownInput(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)

	_, err := svc.UpdateStatus(order.ID, "Teleported", nil)
	wantStatus(t, err, 400)

	_, err = svc.UpdateStatus(9999, models.StatusShipped, nil)
	wantStatus(t, err, 404)
}

func TestMarkDelivery(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)
	rider := seedRider(t, q, "Riya", "riya@example.com")
	other := seedRider(t, q, "Dev", "dev@example.com")

	_, err := svc.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	require.NoError(t, err)

	// Only the assigned rider may close the order out.
	_, err = svc.MarkDelivery(other.Email, order.ID, models.StatusDelivered)
	wantStatus(t, err, 403)

	// Only terminal delivery statuses are accepted here.
	_, err = svc.MarkDelivery(rider.Email, order.ID, models.StatusShipped)
	wantStatus(t, err, 400)

	updated, err := svc.MarkDelivery(rider.Email, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// Terminal: a second close-out is rejected.
	_, err = svc.MarkDelivery(rider.Email, order.ID, models.StatusUndelivered)
	wantStatus(t, err, 409)
}

func TestMarkDeliveryUnassignedOrder(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)
	rider := seedRider(t, q, "Riya", "riya@example.com")

	_, err := svc.MarkDelivery(rider.Email, order.ID, models.StatusDelivered)
	wantStatus(t, err, 404)
}

func TestRiderOrders(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)
	rider := seedRider(t, q, "Riya", "riya@example.com")

	_, err := svc.RiderOrders("nobody@example.com")
	wantStatus(t, err, 404)

	orders, err := svc.RiderOrders(rider.Email)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = svc.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	require.NoError(t, err)

	orders, err = svc.RiderOrders(rider.Email)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestAdminListJoinsBuyerAndRider(t *testing.T) {
	svc, q := newOrderService(t)
	order := placeTestOrder(t, svc, q)
	rider := seedRider(t, q, "Riya", "riya@example.com")

	_, err := svc.UpdateStatus(order.ID, models.StatusShipped, &rider.ID)
	require.NoError(t, err)

	details, err := svc.AdminList()
	require.NoError(t, err)
	require.Len(t, details, 1)

	detail := details[0]
	assert.Equal(t, order.ID, detail.ID)
	assert.Equal(t, "buyer@example.com", detail.UserEmail)
	assert.Equal(t, models.StatusShipped, detail.Status)
	require.NotNil(t, detail.Rider)
	assert.Equal(t, rider.ID, detail.Rider.ID)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Classic Tee", detail.Items[0].ProductName)
}
