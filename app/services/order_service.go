package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/velocart/velocart/app/jobs"
	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/collection"
	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/logger"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/queue"
)

// Event names fired by the order service.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	Order     models.Order
	UserEmail string
}

// OrderStatusChanged is the payload of EventOrderStatusChanged.
type OrderStatusChanged struct {
	Order   models.Order
	RiderID *uint
}

// OrderService owns the order lifecycle: placement, the status state
// machine, and rider assignment.
type OrderService struct {
	orders *repositories.OrderRepository
	prods  *repositories.ProductRepository
	riders *repositories.RiderRepository
	users  *repositories.UserRepository
	bus    *event.Bus
}

func NewOrderService(q *orm.Query, bus *event.Bus) *OrderService {
	return &OrderService{
		orders: repositories.NewOrderRepository(q),
		prods:  repositories.NewProductRepository(q),
		riders: repositories.NewRiderRepository(q),
		users:  repositories.NewUserRepository(q),
		bus:    bus,
	}
}

// OrderItemInput is one requested line item.
type OrderItemInput struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrderInput is the checkout payload. Total is the client-claimed
// total in minor currency units, recorded as sent.
type PlaceOrderInput struct {
	Items []OrderItemInput `json:"items"`
	Total int64            `json:"total"`
}

// PlaceOrder validates every referenced product and variant, then inserts
// the order and its items in one transaction, capturing the current price
// per line. Validation happens entirely before the transaction opens; a
// failure inside rolls the whole order back.
func (s *OrderService) PlaceOrder(ident auth.Identity, in PlaceOrderInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, badRequest("Order must contain at least one item")
	}
	if in.Total <= 0 {
		return models.Order{}, badRequest("Total must be a positive amount")
	}
	for _, item := range in.Items {
		if item.ProductID == 0 {
			return models.Order{}, badRequest("Each item requires a product_id")
		}
		if item.Quantity <= 0 {
			return models.Order{}, badRequest("Each item requires a positive quantity")
		}
	}

	productIDs := collection.Unique(collection.Map(in.Items, func(i OrderItemInput) uint { return i.ProductID }))
	products, err := s.fetchProducts(productIDs)
	if err != nil {
		return models.Order{}, err
	}

	var variantIDs []uint
	for _, item := range in.Items {
		if item.VariantID != nil {
			variantIDs = append(variantIDs, *item.VariantID)
		}
	}
	variants, err := s.fetchVariants(collection.Unique(variantIDs))
	if err != nil {
		return models.Order{}, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return models.Order{}, badRequest(fmt.Sprintf("Product %d does not exist", item.ProductID))
		}

		price := product.Price
		if item.VariantID != nil {
			variant, ok := variants[*item.VariantID]
			if !ok {
				return models.Order{}, badRequest(fmt.Sprintf("Variant %d does not exist", *item.VariantID))
			}
			if variant.ProductID != item.ProductID {
				return models.Order{}, badRequest(fmt.Sprintf("Variant %d does not belong to product %d", *item.VariantID, item.ProductID))
			}
			price = variant.Price
		}

		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	order := models.Order{
		UserID: ident.ID,
		Total:  in.Total,
		Status: models.StatusPaid,
		Items:  items,
	}

	err = s.orders.Transaction(func(tx *orm.Query) error {
		return s.orders.WithTx(tx).Create(&order)
	})
	if err != nil {
		return models.Order{}, err
	}

	s.bus.FireAsync(EventOrderPlaced, OrderPlaced{Order: order, UserEmail: ident.Email})
	if err := queue.Dispatch(&jobs.OrderPlacedJob{OrderID: order.ID, Email: ident.Email, Total: order.Total}); err != nil {
		logger.Warn("order: notification dispatch failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}

// ListMine returns the caller's own orders with items, newest first.
func (s *OrderService) ListMine(userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return orders, nil
}

// AdminList returns every order with items, buyer email and rider.
func (s *OrderService) AdminList() ([]repositories.OrderDetail, error) {
	return s.orders.ListAllDetailed()
}

// UpdateStatus moves an order through the state machine, assigning a
// rider when the target is Shipped. Validation runs before the
// transaction; the status write and the assignment replace commit or roll
// back together.
func (s *OrderService) UpdateStatus(orderID uint, status string, riderID *uint) (models.Order, error) {
	if !models.ValidStatus(status) {
		return models.Order{}, badRequest(fmt.Sprintf("Invalid status %q", status))
	}

	order, err := s.orders.Find(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, notFound("Order not found")
		}
		return models.Order{}, err
	}

	if !models.CanTransition(order.Status, status) {
		return models.Order{}, conflict(fmt.Sprintf("Cannot transition order from %s to %s", order.Status, status))
	}

	if status == models.StatusShipped {
		if riderID == nil {
			return models.Order{}, badRequest("A rider is required to mark an order as Shipped")
		}
		if _, err := s.riders.Find(*riderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, notFound("Rider not found")
			}
			return models.Order{}, err
		}
	}

	err = s.orders.Transaction(func(tx *orm.Query) error {
		repo := s.orders.WithTx(tx)

		order.Status = status
		if err := repo.Save(&order); err != nil {
			return err
		}

		if status == models.StatusShipped {
			return repo.ReplaceAssignment(order.ID, *riderID)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	s.notifyStatusChange(order, riderID)
	return order, nil
}

// RiderOrders returns orders assigned to the rider identified by email.
func (s *OrderService) RiderOrders(email string) ([]models.Order, error) {
	rider, err := s.riders.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Rider not found")
		}
		return nil, err
	}
	return s.orders.ListByRider(rider.ID)
}

// OrdersForRider returns orders assigned to the rider by ID, for the admin
// board.
func (s *OrderService) OrdersForRider(riderID uint) ([]models.Order, error) {
	if _, err := s.riders.Find(riderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Rider not found")
		}
		return nil, err
	}
	return s.orders.ListByRider(riderID)
}

// MarkDelivery lets the assigned rider close out a Shipped order as
// Delivered or Undelivered.
func (s *OrderService) MarkDelivery(email string, orderID uint, status string) (models.Order, error) {
	if status != models.StatusDelivered && status != models.StatusUndelivered {
		return models.Order{}, badRequest("Status must be Delivered or Undelivered")
	}

	rider, err := s.riders.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, notFound("Rider not found")
		}
		return models.Order{}, err
	}

	assignment, err := s.orders.Assignment(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, notFound("Order not found")
		}
		return models.Order{}, err
	}
	if assignment.RiderID != rider.ID {
		return models.Order{}, NewError(403, "Order is not assigned to you")
	}

	order, err := s.orders.Find(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !models.CanTransition(order.Status, status) {
		return models.Order{}, conflict(fmt.Sprintf("Cannot transition order from %s to %s", order.Status, status))
	}

	err = s.orders.Transaction(func(tx *orm.Query) error {
		order.Status = status
		return s.orders.WithTx(tx).Save(&order)
	})
	if err != nil {
		return models.Order{}, err
	}

	s.notifyStatusChange(order, &rider.ID)
	return order, nil
}

func (s *OrderService) notifyStatusChange(order models.Order, riderID *uint) {
	s.bus.FireAsync(EventOrderStatusChanged, OrderStatusChanged{Order: order, RiderID: riderID})

	user, err := s.users.FindByID(order.UserID)
	if err != nil {
		logger.Warn("order: buyer lookup for notification failed", "order_id", order.ID, "error", err)
		return
	}
	if err := queue.Dispatch(&jobs.OrderStatusJob{OrderID: order.ID, Email: user.Email, Status: order.Status}); err != nil {
		logger.Warn("order: notification dispatch failed", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) fetchProducts(ids []uint) (map[uint]models.Product, error) {
	products, err := s.prods.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	return collection.KeyBy(products, func(p models.Product) uint { return p.ID }), nil
}

func (s *OrderService) fetchVariants(ids []uint) (map[uint]models.ProductVariant, error) {
	variants, err := s.prods.FindVariantsByIDs(ids)
	if err != nil {
		return nil, err
	}
	return collection.KeyBy(variants, func(v models.ProductVariant) uint { return v.ID }), nil
}
