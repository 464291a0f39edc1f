// Package routes wires the HTTP surface: public catalogue, customer
// orders, the admin board and the rider delivery endpoints.
package routes

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/velocart/velocart/app/controllers"
	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/config"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/metrics"
	"github.com/velocart/velocart/pkg/middleware"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/rbac"
	"github.com/velocart/velocart/pkg/reqid"
	"github.com/velocart/velocart/pkg/response"
	"github.com/velocart/velocart/pkg/router"
)

// Deps carries everything the routes need. The server builds one at boot;
// tests build smaller ones by hand.
type Deps struct {
	Query    *orm.Query
	Verifier auth.Verifier
	Issuer   *auth.HMACVerifier
	Bus      *event.Bus
	Board    *services.DeliveryBoard
}

func rateLimitMax() int {
	n, err := strconv.Atoi(config.Get("RATE_LIMIT_PER_MINUTE", "200"))
	if err != nil || n < 1 {
		return 200
	}
	return n
}

// RegisterAPI mounts every route onto r.
func RegisterAPI(r *router.Router, deps Deps) {
	users := repositories.NewUserRepository(deps.Query)

	catalog := services.NewCatalogService(deps.Query)
	orders := services.NewOrderService(deps.Query, deps.Bus)
	riders := services.NewRiderService(deps.Query)

	productCtrl := controllers.NewProductController(catalog)
	orderCtrl := controllers.NewOrderController(orders)
	authCtrl := controllers.NewAuthController(users, deps.Issuer)
	adminProductCtrl := controllers.NewAdminProductController(catalog)
	adminUserCtrl := controllers.NewAdminUserController(users)
	adminOrderCtrl := controllers.NewAdminOrderController(orders)
	adminRiderCtrl := controllers.NewAdminRiderController(riders, orders)
	riderCtrl := controllers.NewRiderController(orders, riders, deps.Board)

	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(rateLimitMax(), time.Minute),
		metrics.Middleware(),
	)

	authenticate := middleware.Authenticate(deps.Verifier, func(_ context.Context, email string) (auth.Identity, error) {
		return users.FindApprovedIdentity(email)
	})

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Public catalogue.
	r.Get("/products", "products.index", productCtrl.Index)
	r.Get("/products/{id}", "products.show", productCtrl.Show)

	// Development token issuance; the external identity provider signs
	// tokens everywhere else.
	if config.IsLocal() {
		r.Post("/auth/token", "auth.token", authCtrl.Token)
	}

	authed := r.Group("/", authenticate)
	authed.Get("/auth/verify", "auth.verify", authCtrl.Verify)
	authed.Get("/auth/verify-admin", "auth.verify_admin", authCtrl.VerifyAdmin, rbac.Require(models.RoleAdmin))
	authed.Post("/orders", "orders.store", orderCtrl.Store)
	authed.Get("/orders", "orders.index", orderCtrl.Index)

	admin := r.Group("/admin", authenticate, rbac.Require(models.RoleAdmin))
	admin.Get("/users", "admin.users.index", adminUserCtrl.Index)
	admin.Get("/orders", "admin.orders.index", adminOrderCtrl.Index)
	admin.Patch("/orders/{id}/status", "admin.orders.status", adminOrderCtrl.UpdateStatus)

	admin.Get("/riders", "admin.riders.index", adminRiderCtrl.Index)
	admin.Post("/riders", "admin.riders.store", adminRiderCtrl.Store)
	admin.Get("/riders/{id}/orders", "admin.riders.orders", adminRiderCtrl.Orders)
	admin.Delete("/riders/{id}", "admin.riders.destroy", adminRiderCtrl.Destroy)

	admin.Get("/products", "admin.products.index", adminProductCtrl.Index)
	admin.Post("/products", "admin.products.store", adminProductCtrl.Store)
	admin.Get("/products/{id}", "admin.products.show", adminProductCtrl.Show)
	admin.Put("/products/{id}", "admin.products.update", adminProductCtrl.Update)
	admin.Delete("/products/{id}", "admin.products.destroy", adminProductCtrl.Destroy)
	admin.Post("/products/{id}/image", "admin.products.image", adminProductCtrl.UploadImage)
	admin.Post("/products/{id}/variants", "admin.variants.store", adminProductCtrl.StoreVariant)
	admin.Put("/products/{id}/variants/{variantId}", "admin.variants.update", adminProductCtrl.UpdateVariant)
	admin.Delete("/products/{id}/variants/{variantId}", "admin.variants.destroy", adminProductCtrl.DestroyVariant)

	rider := r.Group("/rider", authenticate, rbac.Require(models.RoleRider))
	rider.Get("/orders", "rider.orders.index", riderCtrl.Orders)
	rider.Patch("/orders/{id}/status", "rider.orders.status", riderCtrl.UpdateStatus)
	rider.Get("/stream", "rider.stream", riderCtrl.Stream)
}
