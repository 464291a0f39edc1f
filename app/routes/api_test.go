package routes_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/routes"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/router"
	"github.com/velocart/velocart/pkg/testkit"
)

const testSecret = "routes-test-secret"

func newAPI(t *testing.T) (http.Handler, *orm.Query, *auth.HMACVerifier) {
	t.Helper()

	db := testkit.OpenDB(t,
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Rider{},
		&models.OrderRider{},
	)
	q := orm.New(db)

	verifier := auth.NewHMACVerifier(testSecret)
	bus := event.NewBus()
	board := services.NewDeliveryBoard(bus)
	t.Cleanup(board.Close)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Query:    q,
		Verifier: verifier,
		Issuer:   verifier,
		Bus:      bus,
		Board:    board,
	})

	return r.Handler(), q, verifier
}

func seedAccount(t *testing.T, q *orm.Query, email, role string, approved bool) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role, Approved: approved}
	require.NoError(t, q.Create(&user))
	return user
}

func issueToken(t *testing.T, verifier *auth.HMACVerifier, email, role string) string {
	t.Helper()
	token, err := verifier.Issue(email, role, time.Hour)
	require.NoError(t, err)
	return token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestPublicCatalog(t *testing.T) {
	handler, q, _ := newAPI(t)

	product := models.Product{Name: "Classic Tee", Price: 1999}
	require.NoError(t, q.Create(&product))
	require.NoError(t, q.Create(&models.ProductVariant{ProductID: product.ID, Name: "Classic Tee / M", Price: 1999}))

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/products", nil, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	testkit.DecodeData(t, rec, &products)
	require.Len(t, products, 1)
	assert.Len(t, products[0].Variants, 1)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/products/999", nil, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthenticationGate(t *testing.T) {
	handler, q, verifier := newAPI(t)
	seedAccount(t, q, "pending@example.com", models.RoleCustomer, false)

	cases := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{"no token", "", http.StatusUnauthorized, "No token provided"},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized, "Invalid token format"},
		{"unknown user", issueToken(t, verifier, "ghost@example.com", models.RoleCustomer), http.StatusForbidden, "User not found"},
		{"unapproved user", issueToken(t, verifier, "pending@example.com", models.RoleCustomer), http.StatusForbidden, "User not approved"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/orders", nil, tc.token))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.message)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expired, err := verifier.Issue("pending@example.com", models.RoleCustomer, -time.Minute)
		require.NoError(t, err)
		rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/orders", nil, expired))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token expired")
	})
}

func TestVerifyEndpoints(t *testing.T) {
	handler, q, verifier := newAPI(t)
	customer := seedAccount(t, q, "customer@example.com", models.RoleCustomer, true)
	admin := seedAccount(t, q, "admin@example.com", models.RoleAdmin, true)

	customerToken := issueToken(t, verifier, customer.Email, customer.Role)
	adminToken := issueToken(t, verifier, admin.Email, admin.Role)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/auth/verify", nil, customerToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var ident map[string]interface{}
	testkit.DecodeData(t, rec, &ident)
	assert.Equal(t, customer.Email, ident["email"])
	assert.Equal(t, true, ident["approved"])

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/auth/verify-admin", nil, customerToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/auth/verify-admin", nil, adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminProductRoundTrip(t *testing.T) {
	handler, q, verifier := newAPI(t)
	admin := seedAccount(t, q, "admin@example.com", models.RoleAdmin, true)
	customer := seedAccount(t, q, "customer@example.com", models.RoleCustomer, true)

	adminToken := issueToken(t, verifier, admin.Email, admin.Role)
	customerToken := issueToken(t, verifier, customer.Email, customer.Role)

	payload := map[string]interface{}{
		"name":        "Trail Bottle",
		"description": "750ml insulated bottle.",
		"price":       2899,
	}

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/admin/products", payload, customerToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/admin/products", payload, adminToken))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Product
	testkit.DecodeData(t, rec, &created)
	require.NotZero(t, created.ID)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/products/"+itoa(created.ID), nil, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Product
	testkit.DecodeData(t, rec, &got)
	assert.Equal(t, "Trail Bottle", got.Name)
	assert.Equal(t, int64(2899), got.Price)
	require.NotNil(t, got.Variants)
	assert.Empty(t, got.Variants)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/admin/products", map[string]interface{}{"name": "x"}, adminToken))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	handler, q, verifier := newAPI(t)
	admin := seedAccount(t, q, "admin@example.com", models.RoleAdmin, true)
	customer := seedAccount(t, q, "customer@example.com", models.RoleCustomer, true)
	riderUser := seedAccount(t, q, "rider@example.com", models.RoleRider, true)

	rider := models.Rider{Name: "Riya", Email: riderUser.Email}
	require.NoError(t, q.Create(&rider))

	product := models.Product{Name: "Classic Tee", Price: 100}
	require.NoError(t, q.Create(&product))

	adminToken := issueToken(t, verifier, admin.Email, admin.Role)
	customerToken := issueToken(t, verifier, customer.Email, customer.Role)
	riderToken := issueToken(t, verifier, riderUser.Email, riderUser.Role)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": product.ID, "quantity": 2}},
		"total": 200,
	}, customerToken))
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.Order
	testkit.DecodeData(t, rec, &order)
	assert.Equal(t, models.StatusPaid, order.Status)
	assert.Equal(t, int64(200), order.Total)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/orders", nil, customerToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []models.Order
	testkit.DecodeData(t, rec, &mine)
	require.Len(t, mine, 1)

	// Shipping without a rider leaves the order untouched.
	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodPatch, "/admin/orders/"+itoa(order.ID)+"/status", map[string]interface{}{
		"status": models.StatusShipped,
	}, adminToken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodPatch, "/admin/orders/"+itoa(order.ID)+"/status", map[string]interface{}{
		"status":   models.StatusShipped,
		"rider_id": rider.ID,
	}, adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/rider/orders", nil, riderToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var assigned []models.Order
	testkit.DecodeData(t, rec, &assigned)
	require.Len(t, assigned, 1)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodPatch, "/rider/orders/"+itoa(order.ID)+"/status", map[string]interface{}{
		"status": models.StatusDelivered,
	}, riderToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var delivered models.Order
	testkit.DecodeData(t, rec, &delivered)
	assert.Equal(t, models.StatusDelivered, delivered.Status)

	// Rider endpoints are closed to customers.
	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/rider/orders", nil, customerToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The rider now has an assignment on record, so deletion is blocked.
	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodDelete, "/admin/riders/"+itoa(rider.ID), nil, adminToken))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminRiderRoutes(t *testing.T) {
	handler, q, verifier := newAPI(t)
	admin := seedAccount(t, q, "admin@example.com", models.RoleAdmin, true)
	adminToken := issueToken(t, verifier, admin.Email, admin.Role)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/admin/riders", map[string]string{
		"name":  "Riya",
		"email": "riya@example.com",
	}, adminToken))
	require.Equal(t, http.StatusCreated, rec.Code)
	var rider models.Rider
	testkit.DecodeData(t, rec, &rider)
	require.NotZero(t, rider.ID)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/admin/riders", nil, adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/admin/riders/"+itoa(rider.ID)+"/orders", nil, adminToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []models.Order
	testkit.DecodeData(t, rec, &orders)
	assert.Empty(t, orders)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodDelete, "/admin/riders/"+itoa(rider.ID), nil, adminToken))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminUserListing(t *testing.T) {
	handler, q, verifier := newAPI(t)
	admin := seedAccount(t, q, "admin@example.com", models.RoleAdmin, true)
	adminToken := issueToken(t, verifier, admin.Email, admin.Role)
	customer := seedAccount(t, q, "customer@example.com", models.RoleCustomer, true)
	customerToken := issueToken(t, verifier, customer.Email, customer.Role)
	seedAccount(t, q, "pending@example.com", models.RoleCustomer, false)
	seedAccount(t, q, "rider@example.com", models.RoleRider, true)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/admin/users?limit=3", nil, adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items      []models.User  `json:"items"`
		Pagination orm.Pagination `json:"pagination"`
	}
	testkit.DecodeData(t, rec, &page)
	require.Len(t, page.Items, 3)
	assert.Equal(t, int64(4), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/admin/users?page=2&limit=3", nil, adminToken))
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.DecodeData(t, rec, &page)
	assert.Len(t, page.Items, 1)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/admin/users", nil, customerToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
